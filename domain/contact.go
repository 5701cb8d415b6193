package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactTag clasifica el interés del contacto
type ContactTag string

const (
	ContactBuyer    ContactTag = "buyer"
	ContactTenant   ContactTag = "tenant"
	ContactSeller   ContactTag = "seller"
	ContactInvestor ContactTag = "investor"
	ContactOwner    ContactTag = "owner"
)

// ContactStatus es el estado del contacto dentro del embudo
type ContactStatus string

const (
	ContactActive    ContactStatus = "active"
	ContactInProcess ContactStatus = "in_process"
	ContactClosed    ContactStatus = "closed"
	ContactCold      ContactStatus = "cold"
)

// LeadSource indica de dónde llegó el contacto
type LeadSource string

const (
	LeadFacebook  LeadSource = "facebook"
	LeadInstagram LeadSource = "instagram"
	LeadWhatsApp  LeadSource = "whatsapp"
	LeadReferral  LeadSource = "referral"
	LeadWebsite   LeadSource = "website"
	LeadOther     LeadSource = "other"
)

// Currency es la moneda de presupuestos y montos
type Currency string

const (
	CurrencyMXN Currency = "MXN"
	CurrencyUSD Currency = "USD"
)

// Contact representa a un cliente o prospecto
type Contact struct {
	ID                 string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	FullName           string         `gorm:"not null;index" json:"full_name"`
	Phone              string         `gorm:"type:varchar(20);not null" json:"phone"`
	Email              *string        `json:"email"`
	Company            *string        `json:"company"`
	CurrentAddress     *string        `json:"current_address"`
	Tag                ContactTag     `gorm:"type:varchar(20);not null;index" json:"tag"`
	Status             ContactStatus  `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Birthday           *time.Time     `json:"birthday"`
	Anniversary        *time.Time     `json:"anniversary"`
	BudgetMin          *float64       `json:"budget_min"`
	BudgetMax          *float64       `json:"budget_max"`
	Currency           Currency       `gorm:"type:varchar(3);default:'MXN'" json:"currency"`
	InterestZone       *string        `json:"interest_zone"`
	PropertyTypeWanted *string        `json:"property_type_wanted"`
	FinancingType      *string        `json:"financing_type"`
	PurchaseTimeline   *string        `json:"purchase_timeline"`
	OwnedProperties    *string        `json:"owned_properties"`
	LeadSource         LeadSource     `gorm:"type:varchar(20);default:'other'" json:"lead_source"`
	Notes              *string        `gorm:"type:text" json:"notes"`
	CreatedBy          string         `gorm:"type:varchar(36)" json:"created_by"`
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Contact) TableName() string {
	return "contacts"
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (t ContactTag) Valid() bool {
	switch t {
	case ContactBuyer, ContactTenant, ContactSeller, ContactInvestor, ContactOwner:
		return true
	}
	return false
}

func (s ContactStatus) Valid() bool {
	switch s {
	case ContactActive, ContactInProcess, ContactClosed, ContactCold:
		return true
	}
	return false
}

func (l LeadSource) Valid() bool {
	switch l {
	case LeadFacebook, LeadInstagram, LeadWhatsApp, LeadReferral, LeadWebsite, LeadOther:
		return true
	}
	return false
}

func (c Currency) Valid() bool {
	return c == CurrencyMXN || c == CurrencyUSD
}
