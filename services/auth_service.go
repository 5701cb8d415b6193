package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/repositories"
	"github.com/AnthonyFclub/glor-crm/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResetTokenTTL es la vigencia de un enlace de recuperación de contraseña
const ResetTokenTTL = time.Hour

// MinPasswordLength es el largo mínimo de contraseña
const MinPasswordLength = 8

// AuthService define la interfaz del servicio de autenticación
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*dto.SessionResponse, error)
	Authenticate(ctx context.Context, token string) (*domain.AuthSession, error)
	CurrentUser(ctx context.Context, token string) (*domain.User, error)
	SignOut(ctx context.Context, token string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type authService struct {
	users    repositories.UserRepository
	sessions repositories.SessionRepository
	tokens   *utils.TokenManager
	baseURL  string
	logger   *zap.Logger
}

// NewAuthService crea el servicio; baseURL se usa para armar el enlace de recuperación
func NewAuthService(users repositories.UserRepository, sessions repositories.SessionRepository,
	tokens *utils.TokenManager, baseURL string, logger *zap.Logger) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		baseURL:  strings.TrimRight(baseURL, "/"),
		logger:   logger,
	}
}

// SignIn valida las credenciales, abre una sesión y firma su token
func (s *authService) SignIn(ctx context.Context, email, password string) (*dto.SessionResponse, error) {
	// 1. Buscar el usuario; el error es genérico para no revelar si el email existe
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}

	// 2. Comparar contra el hash guardado
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	if utils.NeedsRehash(user.Password) {
		s.upgradeHash(ctx, user, password)
	}

	// 3. Firmar el token con el ID de la nueva sesión como jti
	sessionID := uuid.NewString()
	token, expiresAt, err := s.tokens.GenerateToken(sessionID, user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	// 4. Registrar la sesión del lado servidor
	err = s.sessions.SaveSession(ctx, &domain.AuthSession{
		ID:        sessionID,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		IssuedAt:  time.Now().UTC(),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("User signed in", zap.String("user_id", user.ID))
	return &dto.SessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *user,
		Redirect:  "/dashboard",
	}, nil
}

// Authenticate resuelve un token a su sesión vigente
func (s *authService) Authenticate(ctx context.Context, token string) (*domain.AuthSession, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if session.UserID != claims.UserID {
		return nil, ErrUnauthorized
	}
	return session, nil
}

func (s *authService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// La cuenta se borró con la sesión todavía abierta
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// SignOut borra la sesión; el token queda inutilizable aunque no haya vencido
func (s *authService) SignOut(ctx context.Context, token string) error {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return ErrUnauthorized
	}
	return s.sessions.DeleteSession(ctx, claims.ID)
}

// RequestPasswordReset genera un token de un solo uso. Un email desconocido
// también responde con éxito.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.Info("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	token := uuid.NewString()
	if err := s.sessions.SaveResetToken(ctx, token, user.ID, ResetTokenTTL); err != nil {
		return err
	}

	// El envío del correo es externo: el enlace queda en el log de debug
	s.logger.Info("Password reset requested", zap.String("user_id", user.ID))
	s.logger.Debug("Password reset link", zap.String("link", s.baseURL+"/reset-password?token="+token))
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, password string) error {
	if msg := passwordProblem(password); msg != "" {
		return &ValidationError{Fields: map[string]string{"password": msg}}
	}

	userID, err := s.sessions.ConsumeResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return errors.New("error hashing password")
	}
	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}

	// Las sesiones abiertas con la contraseña anterior dejan de servir
	if err := s.sessions.RevokeUserSessions(ctx, userID, s.tokens.TTL()); err != nil {
		return err
	}

	s.logger.Info("Password reset completed", zap.String("user_id", userID))
	return nil
}

// Register crea una cuenta de agente (o admin)
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	errs := fieldErrors{}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.IsValidEmail(email) {
		errs.add("email", "invalid email")
	}
	if msg := passwordProblem(req.Password); msg != "" {
		errs.add("password", msg)
	}
	if strings.TrimSpace(req.FullName) == "" {
		errs.add("full_name", "full name required")
	}
	role := domain.UserRole(req.Role)
	if role == "" {
		role = domain.UserRoleAgent
	}
	if role != domain.UserRoleAgent && role != domain.UserRoleAdmin {
		errs.add("role", "invalid role")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.New("error hashing password")
	}

	user := &domain.User{
		Email:    email,
		Password: hash,
		FullName: strings.TrimSpace(req.FullName),
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return user, nil
}

// ListUsers devuelve las cuentas del equipo
func (s *authService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.GetAll(ctx)
}

func passwordProblem(password string) string {
	switch {
	case len(password) < MinPasswordLength:
		return "must be at least 8 characters"
	case len(password) > utils.MaxPasswordBytes:
		return "must be at most 72 bytes"
	}
	return ""
}

// upgradeHash regenera el hash con el costo actual; si falla se reintenta en el próximo login
func (s *authService) upgradeHash(ctx context.Context, user *domain.User, password string) {
	hash, err := utils.HashPassword(password)
	if err == nil {
		err = s.users.UpdatePassword(ctx, user.ID, hash)
	}
	if err != nil {
		s.logger.Warn("Password hash not upgraded", zap.String("user_id", user.ID), zap.Error(err))
		return
	}
	user.Password = hash
}
