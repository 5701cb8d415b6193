package wizard

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"gorm.io/datatypes"
)

// RedirectDelay es la pausa antes de navegar fuera, para que se vea el mensaje de éxito
const RedirectDelay = 1500 * time.Millisecond

var (
	// ErrNotSignedIn: el alta requiere una sesión resuelta
	ErrNotSignedIn = errors.New("must be signed in")
	// ErrSubmissionPending: ya hay un envío en curso para esta sesión
	ErrSubmissionPending = errors.New("submission already in progress")
	// ErrNotFinalStep: solo se envía desde el último paso
	ErrNotFinalStep = errors.New("submission is only allowed from the final step")
)

// ValidationError lleva el mapa campo -> mensaje que bloqueó el avance o el envío
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// PersistenceError envuelve el error del almacén; su mensaje se muestra tal cual
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// PropertyWriter es el lado de escritura del almacén de datos
type PropertyWriter interface {
	Create(ctx context.Context, property *domain.Property) error
	Update(ctx context.Context, property *domain.Property) error
}

// Identity es el usuario resuelto de la sesión de auth
type Identity struct {
	UserID string
	Email  string
}

// Result es la señal de éxito del envío
type Result struct {
	Record        *domain.Property `json:"record"`
	Message       string           `json:"message"`
	RedirectTo    string           `json:"redirect_to"`
	RedirectAfter time.Duration    `json:"-"`
	Created       bool             `json:"-"`
}

// Gateway convierte el borrador en un registro tipado y lo manda al almacén
type Gateway struct {
	writer PropertyWriter
	now    func() time.Time
}

// NewGateway crea un gateway sobre el almacén dado
func NewGateway(writer PropertyWriter) *Gateway {
	return &Gateway{writer: writer, now: time.Now}
}

// Submit valida, convierte y persiste el borrador de la sesión.
// Mientras la escritura está en curso un segundo Submit devuelve
// ErrSubmissionPending. Ante cualquier error el borrador y el paso quedan intactos.
func (g *Gateway) Submit(ctx context.Context, s *Session, identity *Identity) (*Result, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmissionPending
	}
	if !s.ctrl.IsFinal() {
		s.mu.Unlock()
		return nil, ErrNotFinalStep
	}

	draft := s.store.Draft()
	errs := Validate(s.ctrl.Step(), draft)
	if len(errs) == 0 {
		errs = ValidateAll(draft)
	}
	if len(errs) > 0 {
		s.store.SetErrors(errs)
		s.mu.Unlock()
		return nil, &ValidationError{Fields: errs}
	}

	mode := s.ctrl.Mode()
	if mode == ModeCreate && (identity == nil || identity.UserID == "") {
		s.store.SetErrors(map[string]string{"submit": ErrNotSignedIn.Error()})
		s.mu.Unlock()
		return nil, ErrNotSignedIn
	}

	record, errs := BuildRecord(draft, g.now())
	if len(errs) > 0 {
		s.store.SetErrors(errs)
		s.mu.Unlock()
		return nil, &ValidationError{Fields: errs}
	}

	s.submitting = true
	s.mu.Unlock()

	var err error
	if mode == ModeCreate {
		record.UserID = identity.UserID
		err = g.writer.Create(ctx, record)
	} else {
		record.ID = s.PropertyID
		record.UserID = s.owner
		record.CreatedAt = s.recordAt
		record.UpdatedAt = g.now()
		err = g.writer.Update(ctx, record)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false

	if err != nil {
		s.store.SetErrors(map[string]string{"submit": err.Error()})
		return nil, &PersistenceError{Err: err}
	}

	s.store.SetErrors(nil)
	if mode == ModeCreate {
		return &Result{
			Record:        record,
			Message:       "property created",
			RedirectTo:    "/properties",
			RedirectAfter: RedirectDelay,
			Created:       true,
		}, nil
	}
	return &Result{
		Record:        record,
		Message:       "property updated",
		RedirectTo:    "/properties/" + record.ID,
		RedirectAfter: RedirectDelay,
	}, nil
}

// BuildRecord convierte los campos de texto del borrador a tipos de
// persistencia. Los opcionales vacíos quedan en nil, nunca en cero.
// Devuelve errores por campo cuando un valor no se puede convertir o
// está fuera de rango.
func BuildRecord(d Draft, now time.Time) (*domain.Property, map[string]string) {
	c := coercer{errs: map[string]string{}}

	p := &domain.Property{
		Title:             strings.TrimSpace(d.Title),
		PropertyType:      domain.PropertyType(d.PropertyType),
		OperationType:     domain.OperationType(d.OperationType),
		Description:       optText(d.Description),
		Status:            domain.PropertyStatus(d.Status),
		ShowPrice:         d.ShowPrice,
		Country:           strings.TrimSpace(d.Country),
		State:             optText(d.State),
		City:              optText(d.City),
		Neighborhood:      optText(d.Neighborhood),
		Street:            optText(d.Street),
		PostalCode:        optText(d.PostalCode),
		ShowExactLocation: d.ShowExactLocation,
		IsExclusive:       d.IsExclusive,
		SharedCommission:  d.SharedCommission,
		VideoURL:          optText(d.VideoURL),
		InternalKey:       optText(d.InternalKey),
	}

	if !p.PropertyType.Valid() {
		c.fail("property_type", "invalid property type")
	}
	if !p.OperationType.Valid() {
		c.fail("operation_type", "invalid operation type")
	}
	if !p.Status.Valid() {
		c.fail("status", "invalid status")
	}
	if p.Country == "" {
		c.fail("country", "country required")
	}

	if price := c.decimal("price_local", d.PriceLocal, 0, math.Inf(1)); price != nil {
		p.PriceLocal = *price
	}
	p.PriceAlt = c.decimal("price_alt", d.PriceAlt, 0, math.Inf(1))
	p.CommissionPercentage = c.decimal("commission_percentage", d.CommissionPercentage, 0, 100)

	p.Bedrooms = c.integer("bedrooms", d.Bedrooms, 0, math.MaxInt32)
	p.Bathrooms = c.integer("bathrooms", d.Bathrooms, 0, math.MaxInt32)
	p.HalfBathrooms = c.integer("half_bathrooms", d.HalfBathrooms, 0, math.MaxInt32)
	p.ParkingSpaces = c.integer("parking_spaces", d.ParkingSpaces, 0, math.MaxInt32)
	p.ConstructionArea = c.decimal("construction_area", d.ConstructionArea, 0, math.Inf(1))
	p.LandArea = c.decimal("land_area", d.LandArea, 0, math.Inf(1))
	p.YearBuilt = c.integer("year_built", d.YearBuilt, 1800, now.Year()+5)

	p.CommissionSplitPercentage = commissionSplit(&c, d)

	p.Amenities = datatypes.JSONSlice[string](dedupe(d.Amenities))
	p.Images = datatypes.JSONSlice[string](slices.Clone(d.Images))
	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}

	if len(c.errs) > 0 {
		return nil, c.errs
	}
	return p, nil
}

// commissionSplit solo se valida cuando la comisión es compartida; si no,
// se guarda el valor si es legible y el default en caso contrario.
func commissionSplit(c *coercer, d Draft) *float64 {
	def, _ := strconv.ParseFloat(DefaultCommissionSplit, 64)

	if d.SharedCommission {
		if split := c.decimal("commission_split_percentage", d.CommissionSplitPercentage, 0, 100); split != nil {
			return split
		}
		if _, failed := c.errs["commission_split_percentage"]; failed {
			return nil
		}
		return &def
	}

	lenient := coercer{errs: map[string]string{}}
	if split := lenient.decimal("commission_split_percentage", d.CommissionSplitPercentage, 0, 100); split != nil {
		return split
	}
	return &def
}

type coercer struct {
	errs map[string]string
}

func (c *coercer) fail(field, msg string) {
	c.errs[field] = msg
}

func (c *coercer) decimal(field, raw string, lo, hi float64) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		c.fail(field, "must be a number")
		return nil
	}
	if f < lo || f > hi {
		c.fail(field, rangeMessage(lo, hi))
		return nil
	}
	return &f
}

func (c *coercer) integer(field, raw string, lo, hi int) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		c.fail(field, "must be a whole number")
		return nil
	}
	if i < lo || i > hi {
		c.fail(field, rangeMessage(float64(lo), float64(hi)))
		return nil
	}
	return &i
}

func rangeMessage(lo, hi float64) string {
	if math.IsInf(hi, 1) || hi == math.MaxInt32 {
		if lo == 0 {
			return "must not be negative"
		}
		return fmt.Sprintf("must be at least %s", strconv.FormatFloat(lo, 'f', -1, 64))
	}
	return fmt.Sprintf("must be between %s and %s",
		strconv.FormatFloat(lo, 'f', -1, 64), strconv.FormatFloat(hi, 'f', -1, 64))
}

func optText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func dedupe(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
