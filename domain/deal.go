package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DealStage es la etapa del pipeline de ventas
type DealStage string

const (
	StageInitialContact    DealStage = "initial_contact"
	StageQualified         DealStage = "qualified"
	StageShowingProperties DealStage = "showing_properties"
	StageReserved          DealStage = "reserved"
	StageSigningDate       DealStage = "signing_date"
	StageClosed            DealStage = "closed"
	StageLost              DealStage = "lost"
)

// PipelineStages es el orden en que se muestran las etapas
var PipelineStages = []DealStage{
	StageInitialContact,
	StageQualified,
	StageShowingProperties,
	StageReserved,
	StageSigningDate,
	StageClosed,
	StageLost,
}

func (s DealStage) Valid() bool {
	for _, st := range PipelineStages {
		if st == s {
			return true
		}
	}
	return false
}

// Active indica si el deal sigue abierto
func (s DealStage) Active() bool {
	return s != StageClosed && s != StageLost
}

// Deal es una oportunidad de venta o renta ligada a un contacto
type Deal struct {
	ID                   string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	ContactID            string     `gorm:"type:varchar(36);not null;index" json:"contact_id"`
	PropertyID           *string    `gorm:"type:varchar(36);index" json:"property_id"`
	Title                string     `gorm:"not null" json:"title"`
	EstimatedValue       *float64   `json:"estimated_value"`
	Currency             Currency   `gorm:"type:varchar(3);default:'MXN'" json:"currency"`
	Stage                DealStage  `gorm:"type:varchar(30);not null;index" json:"stage"`
	StageEnteredAt       time.Time  `json:"stage_entered_at"`
	CommissionPercentage float64    `json:"commission_percentage"`
	CommissionTotal      *float64   `json:"commission_total"`
	SplitWithBroker      bool       `json:"split_with_broker"`
	CommissionPrimary    *float64   `json:"commission_primary"`
	CommissionSecondary  *float64   `json:"commission_secondary"`
	DocSignedContract    bool       `json:"doc_signed_contract"`
	DocIdentification    bool       `json:"doc_identification"`
	DocProofOfIncome     bool       `json:"doc_proof_of_income"`
	DocDeeds             bool       `json:"doc_deeds"`
	DocAppraisal         bool       `json:"doc_appraisal"`
	ExpectedCloseDate    *time.Time `json:"expected_close_date"`
	ActualCloseDate      *time.Time `gorm:"index" json:"actual_close_date"`
	AssignedTo           *string    `gorm:"type:varchar(36);index" json:"assigned_to"`
	CreatedBy            string     `gorm:"type:varchar(36)" json:"created_by"`
	CreatedAt            time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

func (Deal) TableName() string {
	return "deals"
}

func (d *Deal) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
