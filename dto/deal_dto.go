package dto

import "time"

// DealRequest crea o actualiza un deal
type DealRequest struct {
	ContactID            string     `json:"contact_id" binding:"required"`
	PropertyID           *string    `json:"property_id"`
	Title                string     `json:"title" binding:"required"`
	EstimatedValue       *float64   `json:"estimated_value"`
	Currency             string     `json:"currency"`
	Stage                string     `json:"stage"`
	CommissionPercentage *float64   `json:"commission_percentage"`
	SplitWithBroker      bool       `json:"split_with_broker"`
	DocSignedContract    bool       `json:"doc_signed_contract"`
	DocIdentification    bool       `json:"doc_identification"`
	DocProofOfIncome     bool       `json:"doc_proof_of_income"`
	DocDeeds             bool       `json:"doc_deeds"`
	DocAppraisal         bool       `json:"doc_appraisal"`
	ExpectedCloseDate    *time.Time `json:"expected_close_date"`
	AssignedTo           *string    `json:"assigned_to"`
}

// MoveStageRequest mueve un deal a otra etapa del pipeline
type MoveStageRequest struct {
	Stage string `json:"stage" binding:"required"`
}

// DealFilter son los filtros del pipeline
type DealFilter struct {
	Stages     []string   `form:"stage"`
	AssignedTo string     `form:"assigned_to"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Pagination
}
