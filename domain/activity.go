package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityKind es el tipo de interacción registrada
type ActivityKind string

const (
	ActivityCall     ActivityKind = "call"
	ActivityEmail    ActivityKind = "email"
	ActivityWhatsApp ActivityKind = "whatsapp"
	ActivityMeeting  ActivityKind = "meeting"
	ActivityShowing  ActivityKind = "showing"
	ActivityOther    ActivityKind = "other"
)

// ActivityOutcome es el resultado de la interacción
type ActivityOutcome string

const (
	OutcomePositive ActivityOutcome = "positive"
	OutcomeNeutral  ActivityOutcome = "neutral"
	OutcomeNegative ActivityOutcome = "negative"
	OutcomeClosed   ActivityOutcome = "closed"
)

func (k ActivityKind) Valid() bool {
	switch k {
	case ActivityCall, ActivityEmail, ActivityWhatsApp, ActivityMeeting, ActivityShowing, ActivityOther:
		return true
	}
	return false
}

func (o ActivityOutcome) Valid() bool {
	switch o {
	case OutcomePositive, OutcomeNeutral, OutcomeNegative, OutcomeClosed:
		return true
	}
	return false
}

// Activity es una llamada, reunión, visita, etc. con un contacto
type Activity struct {
	ID           string           `gorm:"type:varchar(36);primaryKey" json:"id"`
	ContactID    string           `gorm:"type:varchar(36);not null;index" json:"contact_id"`
	DealID       *string          `gorm:"type:varchar(36);index" json:"deal_id"`
	Kind         ActivityKind     `gorm:"type:varchar(20);not null" json:"kind"`
	Description  string           `gorm:"type:text;not null" json:"description"`
	Outcome      *ActivityOutcome `gorm:"type:varchar(20)" json:"outcome"`
	OccurredAt   time.Time        `gorm:"index" json:"occurred_at"`
	NextFollowUp *time.Time       `gorm:"index" json:"next_follow_up"`
	CreatedBy    string           `gorm:"type:varchar(36);index" json:"created_by"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (Activity) TableName() string {
	return "activities"
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
