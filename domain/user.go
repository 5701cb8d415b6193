package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRole define los roles de usuario del CRM
type UserRole string

const (
	UserRoleAgent UserRole = "agent" // Agente inmobiliario
	UserRoleAdmin UserRole = "admin" // Administrador de la cuenta
)

// User representa a un agente que puede iniciar sesión en el CRM
type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"` // El "-" oculta el hash en JSON
	FullName  string    `json:"full_name"`
	Role      UserRole  `gorm:"type:varchar(20);default:'agent'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName especifica el nombre de la tabla
func (User) TableName() string {
	return "users"
}

// BeforeCreate asigna un UUID si el registro no trae uno
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
