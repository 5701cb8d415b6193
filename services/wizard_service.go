package services

import (
	"context"
	"errors"

	"github.com/AnthonyFclub/glor-crm/repositories"
	"github.com/AnthonyFclub/glor-crm/wizard"
	"go.uber.org/zap"
)

// WizardService maneja las sesiones vivas del asistente de propiedades.
// Cada sesión pertenece al usuario que la abrió; para cualquier otro no existe.
type WizardService interface {
	Start(ctx context.Context, userID, propertyID string) (wizard.SessionView, error)
	Get(ctx context.Context, userID, sessionID string) (wizard.SessionView, error)
	UpdateField(ctx context.Context, userID, sessionID, field string, value any) (wizard.SessionView, error)
	ToggleSetMember(ctx context.Context, userID, sessionID, field, value string) (wizard.SessionView, error)
	Advance(ctx context.Context, userID, sessionID string) (wizard.SessionView, error)
	Retreat(ctx context.Context, userID, sessionID string) (wizard.SessionView, error)
	JumpTo(ctx context.Context, userID, sessionID string, step int) (wizard.SessionView, error)
	Submit(ctx context.Context, identity *wizard.Identity, sessionID string) (*wizard.Result, error)
	Discard(ctx context.Context, userID, sessionID string) error
}

type wizardService struct {
	sessions   repositories.WizardSessionRepository
	properties repositories.PropertyRepository
	gateway    *wizard.Gateway
	publisher  EventPublisher
	logger     *zap.Logger
}

// NewWizardService crea el servicio; el gateway escribe en el repositorio de propiedades
func NewWizardService(sessions repositories.WizardSessionRepository, properties repositories.PropertyRepository,
	publisher EventPublisher, logger *zap.Logger) WizardService {
	return &wizardService{
		sessions:   sessions,
		properties: properties,
		gateway:    wizard.NewGateway(properties),
		publisher:  publisher,
		logger:     logger,
	}
}

// Start abre una sesión: sin propertyID es un alta, con propertyID carga el registro para editar
func (s *wizardService) Start(ctx context.Context, userID, propertyID string) (wizard.SessionView, error) {
	var session *wizard.Session
	if propertyID == "" {
		session = wizard.NewCreateSession(userID)
	} else {
		property, err := s.properties.GetByID(ctx, propertyID)
		if err != nil {
			return wizard.SessionView{}, err
		}
		session = wizard.NewEditSession(userID, property)
	}

	s.sessions.Save(session)
	s.logger.Debug("Wizard session started",
		zap.String("session_id", session.ID),
		zap.String("mode", session.Mode().String()),
		zap.String("user_id", userID))
	return session.View(), nil
}

func (s *wizardService) Get(ctx context.Context, userID, sessionID string) (wizard.SessionView, error) {
	session, err := s.lookup(userID, sessionID)
	if err != nil {
		return wizard.SessionView{}, err
	}
	return session.View(), nil
}

func (s *wizardService) UpdateField(ctx context.Context, userID, sessionID, field string, value any) (wizard.SessionView, error) {
	session, err := s.lookup(userID, sessionID)
	if err != nil {
		return wizard.SessionView{}, err
	}
	return session.Update(field, value)
}

func (s *wizardService) ToggleSetMember(ctx context.Context, userID, sessionID, field, value string) (wizard.SessionView, error) {
	session, err := s.lookup(userID, sessionID)
	if err != nil {
		return wizard.SessionView{}, err
	}
	return session.Toggle(field, value)
}

// Advance devuelve *wizard.ValidationError cuando el paso actual no pasa la validación
func (s *wizardService) Advance(ctx context.Context, userID, sessionID string) (wizard.SessionView, error) {
	session, err := s.lookup(userID, sessionID)
	if err != nil {
		return wizard.SessionView{}, err
	}
	view, errs := session.Advance()
	if len(errs) > 0 {
		return view, &wizard.ValidationError{Fields: errs}
	}
	return view, nil
}

func (s *wizardService) Retreat(ctx context.Context, userID, sessionID string) (wizard.SessionView, error) {
	session, err := s.lookup(userID, sessionID)
	if err != nil {
		return wizard.SessionView{}, err
	}
	return session.Retreat(), nil
}

func (s *wizardService) JumpTo(ctx context.Context, userID, sessionID string, step int) (wizard.SessionView, error) {
	session, err := s.lookup(userID, sessionID)
	if err != nil {
		return wizard.SessionView{}, err
	}
	return session.JumpTo(wizard.Step(step))
}

// Submit envía el borrador. Sin identidad falla con wizard.ErrNotSignedIn
// y la sesión queda intacta; con éxito la sesión se descarta.
func (s *wizardService) Submit(ctx context.Context, identity *wizard.Identity, sessionID string) (*wizard.Result, error) {
	if identity == nil || identity.UserID == "" {
		return nil, wizard.ErrNotSignedIn
	}
	session, err := s.lookup(identity.UserID, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.gateway.Submit(ctx, session, identity)
	if err != nil {
		var persistErr *wizard.PersistenceError
		if errors.As(err, &persistErr) {
			s.logger.Error("Property submission failed",
				zap.String("session_id", session.ID),
				zap.Error(persistErr.Err))
		}
		return nil, err
	}

	s.sessions.Delete(session.ID)

	action := "create"
	if session.Mode() == wizard.ModeEdit {
		action = "update"
	}
	s.logger.Info("Property saved",
		zap.String("action", action),
		zap.String("property_id", result.Record.ID),
		zap.String("user_id", identity.UserID))
	publish(ctx, s.publisher, s.logger, action, "property", result.Record.ID, identity.UserID)
	return result, nil
}

// Discard descarta el borrador sin guardar
func (s *wizardService) Discard(ctx context.Context, userID, sessionID string) error {
	if _, err := s.lookup(userID, sessionID); err != nil {
		return err
	}
	s.sessions.Delete(sessionID)
	return nil
}

func (s *wizardService) lookup(userID, sessionID string) (*wizard.Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok || session.UserID != userID {
		return nil, ErrNotFound
	}
	return session, nil
}
