package wizard

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/AnthonyFclub/glor-crm/domain"
)

var (
	// ErrUnknownField se devuelve cuando el nombre de campo no existe en el borrador
	ErrUnknownField = errors.New("unknown field")
	// ErrInvalidValue se devuelve cuando el valor no corresponde al tipo del campo
	ErrInvalidValue = errors.New("invalid value for field")
	// ErrNotSetField se devuelve al hacer toggle sobre un campo que no es un conjunto
	ErrNotSetField = errors.New("field is not a set")
)

// FieldStore guarda el valor actual de cada campo del borrador
// y los mensajes de error vigentes por campo.
type FieldStore struct {
	draft  Draft
	errors map[string]string
}

// NewFieldStore crea un store a partir de un borrador inicial
func NewFieldStore(d Draft) *FieldStore {
	return &FieldStore{
		draft:  d.clone(),
		errors: map[string]string{},
	}
}

// Draft devuelve una copia del borrador actual
func (s *FieldStore) Draft() Draft {
	return s.draft.clone()
}

// Errors devuelve una copia de los errores vigentes
func (s *FieldStore) Errors() map[string]string {
	return maps.Clone(s.errors)
}

// SetErrors reemplaza el mapa de errores completo
func (s *FieldStore) SetErrors(errs map[string]string) {
	s.errors = maps.Clone(errs)
	if s.errors == nil {
		s.errors = map[string]string{}
	}
}

// Update asigna value al campo y borra el error que tuviera ese campo.
// Los campos de texto aceptan string o número, las banderas bool y
// las listas []string.
func (s *FieldStore) Update(field string, value any) error {
	switch {
	case s.textField(field) != nil:
		text, err := toText(value)
		if err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidValue, field, err)
		}
		*s.textField(field) = text
	case s.flagField(field) != nil:
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w %q: expected boolean", ErrInvalidValue, field)
		}
		*s.flagField(field) = b
	case s.listField(field) != nil:
		list, err := toList(value)
		if err != nil {
			return fmt.Errorf("%w %q: %v", ErrInvalidValue, field, err)
		}
		if field == "amenities" {
			if list, err = amenitySet(list); err != nil {
				return fmt.Errorf("%w %q: %v", ErrInvalidValue, field, err)
			}
		}
		*s.listField(field) = list
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	delete(s.errors, field)
	return nil
}

// ToggleSetMember agrega value al conjunto si no está y lo quita si ya está.
// Solo "amenities" es un conjunto; un tag fuera del catálogo no hace nada.
func (s *FieldStore) ToggleSetMember(field, value string) error {
	if field != "amenities" {
		if s.textField(field) == nil && s.flagField(field) == nil && s.listField(field) == nil {
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
		return fmt.Errorf("%w: %q", ErrNotSetField, field)
	}
	if !domain.IsAmenity(value) {
		return nil
	}

	if i := slices.Index(s.draft.Amenities, value); i >= 0 {
		s.draft.Amenities = slices.Delete(slices.Clone(s.draft.Amenities), i, i+1)
	} else {
		s.draft.Amenities = append(slices.Clone(s.draft.Amenities), value)
	}
	delete(s.errors, field)
	return nil
}

// Fields devuelve los nombres de campo reconocidos
func Fields() []string {
	return slices.Clone(fieldNames)
}

var fieldNames = []string{
	"title", "property_type", "operation_type", "description", "status", "internal_key",
	"price_local", "price_alt", "show_price", "commission_percentage",
	"bedrooms", "bathrooms", "half_bathrooms", "parking_spaces",
	"construction_area", "land_area", "year_built",
	"country", "state", "city", "neighborhood", "street", "postal_code", "show_exact_location",
	"amenities",
	"is_exclusive", "shared_commission", "commission_split_percentage",
	"images", "video_url",
}

func (s *FieldStore) textField(name string) *string {
	d := &s.draft
	switch name {
	case "title":
		return &d.Title
	case "property_type":
		return &d.PropertyType
	case "operation_type":
		return &d.OperationType
	case "description":
		return &d.Description
	case "status":
		return &d.Status
	case "internal_key":
		return &d.InternalKey
	case "price_local":
		return &d.PriceLocal
	case "price_alt":
		return &d.PriceAlt
	case "commission_percentage":
		return &d.CommissionPercentage
	case "bedrooms":
		return &d.Bedrooms
	case "bathrooms":
		return &d.Bathrooms
	case "half_bathrooms":
		return &d.HalfBathrooms
	case "parking_spaces":
		return &d.ParkingSpaces
	case "construction_area":
		return &d.ConstructionArea
	case "land_area":
		return &d.LandArea
	case "year_built":
		return &d.YearBuilt
	case "country":
		return &d.Country
	case "state":
		return &d.State
	case "city":
		return &d.City
	case "neighborhood":
		return &d.Neighborhood
	case "street":
		return &d.Street
	case "postal_code":
		return &d.PostalCode
	case "commission_split_percentage":
		return &d.CommissionSplitPercentage
	case "video_url":
		return &d.VideoURL
	}
	return nil
}

func (s *FieldStore) flagField(name string) *bool {
	d := &s.draft
	switch name {
	case "show_price":
		return &d.ShowPrice
	case "show_exact_location":
		return &d.ShowExactLocation
	case "is_exclusive":
		return &d.IsExclusive
	case "shared_commission":
		return &d.SharedCommission
	}
	return nil
}

func (s *FieldStore) listField(name string) *[]string {
	d := &s.draft
	switch name {
	case "amenities":
		return &d.Amenities
	case "images":
		return &d.Images
	}
	return nil
}

// toText acepta strings y números (los clientes JSON mandan números sin comillas)
func toText(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case nil:
		return "", nil
	}
	return "", fmt.Errorf("expected text, got %T", value)
}

func toList(value any) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return slices.Clone(v), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected list of text, got %T element", item)
			}
			out = append(out, str)
		}
		return out, nil
	case nil:
		return []string{}, nil
	}
	return nil, fmt.Errorf("expected list, got %T", value)
}

// amenitySet quita duplicados conservando el primer orden de aparición
func amenitySet(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if !domain.IsAmenity(tag) {
			return nil, fmt.Errorf("unknown amenity %q", tag)
		}
		if !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	return out, nil
}
