package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	service  AuthService
	users    *mockUserRepository
	sessions *mockSessionRepository
}

func newAuthFixture(t *testing.T) authFixture {
	t.Helper()
	users := newMockUserRepository()
	sessions := newMockSessionRepository()
	tokens := utils.NewTokenManager("test-secret", time.Hour)
	return authFixture{
		service:  NewAuthService(users, sessions, tokens, "http://localhost:3000/", zap.NewNop()),
		users:    users,
		sessions: sessions,
	}
}

func (f authFixture) register(t *testing.T, email, password string) *domain.User {
	t.Helper()
	user, err := f.service.Register(context.Background(), dto.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Ana López",
	})
	require.NoError(t, err)
	return user
}

// Test: registrar y entrar
func TestSignIn_Success(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ana@glor.mx", "password123")

	assert.NotEqual(t, "password123", user.Password, "password must be hashed")
	assert.Equal(t, domain.UserRoleAgent, user.Role)

	resp, err := f.service.SignIn(context.Background(), "ana@glor.mx", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "/dashboard", resp.Redirect)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Len(t, f.sessions.sessions, 1)

	current, err := f.service.CurrentUser(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "ana@glor.mx", current.Email)
}

// Test: contraseña incorrecta y email desconocido dan el mismo error
func TestSignIn_InvalidCredentials(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ana@glor.mx", "password123")

	_, err := f.service.SignIn(context.Background(), "ana@glor.mx", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.service.SignIn(context.Background(), "nadie@glor.mx", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// Test: después de salir el token ya no sirve
func TestSignOut_InvalidatesToken(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ana@glor.mx", "password123")
	resp, err := f.service.SignIn(context.Background(), "ana@glor.mx", "password123")
	require.NoError(t, err)

	require.NoError(t, f.service.SignOut(context.Background(), resp.Token))

	_, err = f.service.Authenticate(context.Background(), resp.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestAuthenticate_RejectsGarbage(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.service.Authenticate(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ana@glor.mx", "password123")

	_, err := f.service.Register(context.Background(), dto.RegisterRequest{
		Email:    "ANA@glor.mx",
		Password: "password456",
		FullName: "Otra Ana",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_Validation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Register(context.Background(), dto.RegisterRequest{
		Email:    "no-es-email",
		Password: "corta",
		Role:     "owner",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "full_name")
	assert.Contains(t, verr.Fields, "role")
}

// Test: un email desconocido también responde con éxito
func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	f := newAuthFixture(t)

	err := f.service.RequestPasswordReset(context.Background(), "nadie@glor.mx")
	assert.NoError(t, err)
	assert.Empty(t, f.sessions.resets)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAuthFixture(t)
	user := f.register(t, "ana@glor.mx", "password123")

	require.NoError(t, f.service.RequestPasswordReset(context.Background(), "ana@glor.mx"))
	require.Len(t, f.sessions.resets, 1)

	var token string
	for tok, userID := range f.sessions.resets {
		token = tok
		assert.Equal(t, user.ID, userID)
	}

	require.NoError(t, f.service.ResetPassword(context.Background(), token, "nueva-clave-1"))

	_, err := f.service.SignIn(context.Background(), "ana@glor.mx", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.service.SignIn(context.Background(), "ana@glor.mx", "nueva-clave-1")
	assert.NoError(t, err)

	// El token es de un solo uso
	err = f.service.ResetPassword(context.Background(), token, "otra-clave-2")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

// Test: cambiar la contraseña cierra las sesiones abiertas
func TestResetPassword_RevokesOpenSessions(t *testing.T) {
	f := newAuthFixture(t)
	f.register(t, "ana@glor.mx", "password123")

	before, err := f.service.SignIn(context.Background(), "ana@glor.mx", "password123")
	require.NoError(t, err)
	_, err = f.service.Authenticate(context.Background(), before.Token)
	require.NoError(t, err)

	require.NoError(t, f.service.RequestPasswordReset(context.Background(), "ana@glor.mx"))
	var token string
	for tok := range f.sessions.resets {
		token = tok
	}
	require.NoError(t, f.service.ResetPassword(context.Background(), token, "nueva-clave-1"))

	_, err = f.service.Authenticate(context.Background(), before.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)

	after, err := f.service.SignIn(context.Background(), "ana@glor.mx", "nueva-clave-1")
	require.NoError(t, err)
	_, err = f.service.Authenticate(context.Background(), after.Token)
	assert.NoError(t, err)
}

// Test: un hash con costo viejo se regenera al entrar
func TestSignIn_UpgradesOldHash(t *testing.T) {
	f := newAuthFixture(t)
	old, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{Email: "luis@glor.mx", Password: string(old), FullName: "Luis", Role: domain.UserRoleAgent}
	require.NoError(t, f.users.Create(context.Background(), user))

	_, err = f.service.SignIn(context.Background(), "luis@glor.mx", "password123")
	require.NoError(t, err)

	stored := f.users.users[user.ID].Password
	cost, err := bcrypt.Cost([]byte(stored))
	require.NoError(t, err)
	assert.Equal(t, utils.PasswordCost, cost)
	assert.True(t, utils.CheckPasswordHash("password123", stored))
}

func TestRegister_PasswordTooLong(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.service.Register(context.Background(), dto.RegisterRequest{
		Email:    "ana@glor.mx",
		Password: strings.Repeat("x", utils.MaxPasswordBytes+1),
		FullName: "Ana López",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must be at most 72 bytes", verr.Fields["password"])
}

func TestResetPassword_ShortPassword(t *testing.T) {
	f := newAuthFixture(t)

	err := f.service.ResetPassword(context.Background(), "any", "short")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
