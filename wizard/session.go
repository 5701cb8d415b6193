package wizard

import (
	"sync"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/google/uuid"
)

// Session agrupa el borrador, su controlador de pasos y la bandera de envío
// pendiente. Cada sesión pertenece a un solo usuario.
type Session struct {
	ID         string
	UserID     string
	PropertyID string // vacío en el flujo de alta
	CreatedAt  time.Time

	mu         sync.Mutex
	store      *FieldStore
	ctrl       *Controller
	owner      string    // dueño del registro cargado en edición
	recordAt   time.Time // alta original del registro en edición
	submitting bool
}

// SessionView es la foto de la sesión que se devuelve al cliente
type SessionView struct {
	ID         string            `json:"id"`
	Mode       string            `json:"mode"`
	PropertyID string            `json:"property_id,omitempty"`
	Step       int               `json:"step"`
	StepName   string            `json:"step_name"`
	Highest    int               `json:"highest_step"`
	StepCount  int               `json:"step_count"`
	Draft      Draft             `json:"draft"`
	Errors     map[string]string `json:"errors"`
	Submitting bool              `json:"submitting"`
}

// NewCreateSession abre una sesión de alta con el borrador vacío
func NewCreateSession(userID string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now(),
		store:     NewFieldStore(NewDraft()),
		ctrl:      NewController(ModeCreate),
	}
}

// NewEditSession abre una sesión de edición con el borrador tomado del registro
func NewEditSession(userID string, p *domain.Property) *Session {
	return &Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		PropertyID: p.ID,
		CreatedAt:  time.Now(),
		store:      NewFieldStore(FromProperty(p)),
		ctrl:       NewController(ModeEdit),
		owner:      p.UserID,
		recordAt:   p.CreatedAt,
	}
}

// Mode devuelve el flujo de la sesión
func (s *Session) Mode() Mode {
	return s.ctrl.Mode()
}

// View toma una foto consistente de la sesión
func (s *Session) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() SessionView {
	return SessionView{
		ID:         s.ID,
		Mode:       s.ctrl.Mode().String(),
		PropertyID: s.PropertyID,
		Step:       int(s.ctrl.Step()),
		StepName:   s.ctrl.Step().String(),
		Highest:    int(s.ctrl.Highest()),
		StepCount:  StepCount,
		Draft:      s.store.Draft(),
		Errors:     s.store.Errors(),
		Submitting: s.submitting,
	}
}

// Update cambia un campo del borrador
func (s *Session) Update(field string, value any) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Update(field, value); err != nil {
		return s.viewLocked(), err
	}
	return s.viewLocked(), nil
}

// Toggle prende o apaga un miembro de un campo conjunto
func (s *Session) Toggle(field, value string) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.ToggleSetMember(field, value); err != nil {
		return s.viewLocked(), err
	}
	return s.viewLocked(), nil
}

// Advance intenta pasar al siguiente paso; devuelve los errores de validación
func (s *Session) Advance() (SessionView, map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	errs := s.ctrl.Advance(s.store)
	return s.viewLocked(), errs
}

// Retreat regresa un paso
func (s *Session) Retreat() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.Retreat()
	return s.viewLocked()
}

// JumpTo navega a un paso según las reglas del modo
func (s *Session) JumpTo(step Step) (SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.ctrl.JumpTo(step)
	return s.viewLocked(), err
}
