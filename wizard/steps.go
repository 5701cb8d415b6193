package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrStepOutOfRange = errors.New("step out of range")
	ErrStepLocked     = errors.New("step not reached yet")
)

// Mode distingue el flujo de alta del de edición
type Mode int

const (
	// ModeCreate solo permite saltar a pasos ya alcanzados
	ModeCreate Mode = iota
	// ModeEdit permite saltar a cualquier paso
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Controller lleva el paso actual y el paso más alto alcanzado
type Controller struct {
	mode    Mode
	step    Step
	highest Step
}

// NewController arranca siempre en el paso 1
func NewController(mode Mode) *Controller {
	return &Controller{mode: mode, step: StepBasicInfo, highest: StepBasicInfo}
}

func (c *Controller) Step() Step    { return c.step }
func (c *Controller) Highest() Step { return c.highest }
func (c *Controller) Mode() Mode    { return c.mode }

// IsFinal indica si el asistente está en el último paso
func (c *Controller) IsFinal() bool {
	return c.step == StepMedia
}

// Advance valida el paso actual contra el store. Si no hay errores avanza
// (sin pasar de StepCount); si los hay el paso no cambia y los errores
// quedan publicados en el store.
func (c *Controller) Advance(store *FieldStore) map[string]string {
	errs := Validate(c.step, store.Draft())
	store.SetErrors(errs)
	if len(errs) > 0 {
		return errs
	}

	c.step = min(c.step+1, StepMedia)
	c.highest = max(c.highest, c.step)
	return errs
}

// Retreat regresa un paso sin validar y sin tocar el store
func (c *Controller) Retreat() {
	c.step = max(c.step-1, StepBasicInfo)
}

// JumpTo navega directo a un paso. En alta solo se permite el paso actual
// o uno ya alcanzado; en edición cualquier paso.
func (c *Controller) JumpTo(target Step) error {
	if !target.Valid() {
		return fmt.Errorf("%w: %d", ErrStepOutOfRange, target)
	}
	if c.mode == ModeCreate && target != c.step && target > c.highest {
		return fmt.Errorf("%w: %d (highest reached %d)", ErrStepLocked, target, c.highest)
	}

	c.step = target
	c.highest = max(c.highest, target)
	return nil
}
