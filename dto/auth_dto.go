package dto

import (
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
)

// SignInRequest son las credenciales del login
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest crea una cuenta de agente
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role" binding:"omitempty,oneof=agent admin"`
}

// PasswordResetRequest pide el enlace de recuperación
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirm fija la nueva contraseña con el token recibido
type PasswordResetConfirm struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// SessionResponse es la respuesta del login: el token y los datos del usuario
type SessionResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
	Redirect  string      `json:"redirect"`
}
