package dto

import "time"

// ContactRequest crea o actualiza un contacto
type ContactRequest struct {
	FullName           string     `json:"full_name" binding:"required"`
	Phone              string     `json:"phone" binding:"required"`
	Email              *string    `json:"email"`
	Company            *string    `json:"company"`
	CurrentAddress     *string    `json:"current_address"`
	Tag                string     `json:"tag" binding:"required"`
	Status             string     `json:"status"`
	Birthday           *time.Time `json:"birthday"`
	Anniversary        *time.Time `json:"anniversary"`
	BudgetMin          *float64   `json:"budget_min"`
	BudgetMax          *float64   `json:"budget_max"`
	Currency           string     `json:"currency"`
	InterestZone       *string    `json:"interest_zone"`
	PropertyTypeWanted *string    `json:"property_type_wanted"`
	FinancingType      *string    `json:"financing_type"`
	PurchaseTimeline   *string    `json:"purchase_timeline"`
	OwnedProperties    *string    `json:"owned_properties"`
	LeadSource         string     `json:"lead_source"`
	Notes              *string    `json:"notes"`
}

// ContactFilter son los filtros del listado de contactos
type ContactFilter struct {
	Search      string     `form:"search"`
	Tags        []string   `form:"tag"`
	Statuses    []string   `form:"status"`
	LeadSources []string   `form:"lead_source"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	Pagination
}
