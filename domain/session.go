package domain

import "time"

// AuthSession es el registro del lado servidor de un login.
// El token JWT lleva su ID (jti); al borrarla el token deja de servir.
type AuthSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      UserRole  `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
