package wizard

import (
	"math"
	"strconv"
	"strings"
)

// Step es un paso del asistente, de 1 a StepCount
type Step int

const (
	StepBasicInfo Step = iota + 1
	StepPricing
	StepCharacteristics
	StepLocation
	StepAmenities
	StepCollaboration
	StepMedia
)

// StepCount es el número fijo de secciones del asistente
const StepCount = 7

var stepNames = map[Step]string{
	StepBasicInfo:       "basic_info",
	StepPricing:         "pricing",
	StepCharacteristics: "characteristics",
	StepLocation:        "location",
	StepAmenities:       "amenities",
	StepCollaboration:   "collaboration",
	StepMedia:           "media",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "step_" + strconv.Itoa(int(s))
}

// Valid indica si el paso está dentro de [1, StepCount]
func (s Step) Valid() bool {
	return s >= StepBasicInfo && s <= StepMedia
}

// Mensajes de error de validación
const (
	MsgTitleRequired = "title required"
	MsgPriceInvalid  = "price must exceed 0"
)

// Validate aplica las reglas del paso y devuelve campo -> mensaje.
// Un mapa vacío significa que el paso es válido. Solo el título y el
// precio bloquean; el resto de los pasos siempre pasa.
func Validate(step Step, d Draft) map[string]string {
	errs := map[string]string{}

	switch step {
	case StepBasicInfo:
		if strings.TrimSpace(d.Title) == "" {
			errs["title"] = MsgTitleRequired
		}
	case StepPricing:
		if !positiveNumber(d.PriceLocal) {
			errs["price_local"] = MsgPriceInvalid
		}
	}

	return errs
}

// ValidateAll junta los errores bloqueantes de todos los pasos
func ValidateAll(d Draft) map[string]string {
	errs := map[string]string{}
	for step := StepBasicInfo; step <= StepMedia; step++ {
		for field, msg := range Validate(step, d) {
			errs[field] = msg
		}
	}
	return errs
}

func positiveNumber(s string) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return f > 0
}
