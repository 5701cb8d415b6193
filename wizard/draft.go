// Package wizard implementa el asistente de alta y edición de inmuebles:
// el borrador con sus campos, la validación por paso, la navegación entre
// pasos y el envío del registro al almacén de datos.
package wizard

import (
	"slices"
	"strconv"

	"github.com/AnthonyFclub/glor-crm/domain"
)

// DefaultCountry es el país con el que arranca un borrador nuevo
const DefaultCountry = "México"

// DefaultCommissionSplit es el porcentaje de comisión compartida por defecto
const DefaultCommissionSplit = "50"

// Draft es el borrador de un inmueble tal como lo edita el asistente.
// Los campos numéricos se guardan como texto, igual que en el formulario;
// la conversión a tipos reales ocurre en el Gateway.
type Draft struct {
	// Información básica
	Title         string `json:"title"`
	PropertyType  string `json:"property_type"`
	OperationType string `json:"operation_type"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	InternalKey   string `json:"internal_key"`

	// Precios
	PriceLocal           string `json:"price_local"`
	PriceAlt             string `json:"price_alt"`
	ShowPrice            bool   `json:"show_price"`
	CommissionPercentage string `json:"commission_percentage"`

	// Características
	Bedrooms         string `json:"bedrooms"`
	Bathrooms        string `json:"bathrooms"`
	HalfBathrooms    string `json:"half_bathrooms"`
	ParkingSpaces    string `json:"parking_spaces"`
	ConstructionArea string `json:"construction_area"`
	LandArea         string `json:"land_area"`
	YearBuilt        string `json:"year_built"`

	// Ubicación
	Country           string `json:"country"`
	State             string `json:"state"`
	City              string `json:"city"`
	Neighborhood      string `json:"neighborhood"`
	Street            string `json:"street"`
	PostalCode        string `json:"postal_code"`
	ShowExactLocation bool   `json:"show_exact_location"`

	Amenities []string `json:"amenities"`

	// Colaboración
	IsExclusive               bool   `json:"is_exclusive"`
	SharedCommission          bool   `json:"shared_commission"`
	CommissionSplitPercentage string `json:"commission_split_percentage"`

	// Multimedia
	Images   []string `json:"images"`
	VideoURL string   `json:"video_url"`
}

// NewDraft devuelve el borrador vacío del flujo de alta
func NewDraft() Draft {
	return Draft{
		PropertyType:              string(domain.PropertyTypeHouse),
		OperationType:             string(domain.OperationSale),
		Status:                    string(domain.PropertyAvailable),
		ShowPrice:                 true,
		Country:                   DefaultCountry,
		Amenities:                 []string{},
		SharedCommission:          true,
		CommissionSplitPercentage: DefaultCommissionSplit,
		Images:                    []string{},
	}
}

// FromProperty carga un registro persistido en un borrador (flujo de edición).
// Los opcionales ausentes quedan como texto vacío.
func FromProperty(p *domain.Property) Draft {
	d := Draft{
		Title:                     p.Title,
		PropertyType:              string(p.PropertyType),
		OperationType:             string(p.OperationType),
		Description:               strValue(p.Description),
		Status:                    string(p.Status),
		InternalKey:               strValue(p.InternalKey),
		PriceLocal:                formatFloat(&p.PriceLocal),
		PriceAlt:                  formatFloat(p.PriceAlt),
		ShowPrice:                 p.ShowPrice,
		CommissionPercentage:      formatFloat(p.CommissionPercentage),
		Bedrooms:                  formatInt(p.Bedrooms),
		Bathrooms:                 formatInt(p.Bathrooms),
		HalfBathrooms:             formatInt(p.HalfBathrooms),
		ParkingSpaces:             formatInt(p.ParkingSpaces),
		ConstructionArea:          formatFloat(p.ConstructionArea),
		LandArea:                  formatFloat(p.LandArea),
		YearBuilt:                 formatInt(p.YearBuilt),
		Country:                   p.Country,
		State:                     strValue(p.State),
		City:                      strValue(p.City),
		Neighborhood:              strValue(p.Neighborhood),
		Street:                    strValue(p.Street),
		PostalCode:                strValue(p.PostalCode),
		ShowExactLocation:         p.ShowExactLocation,
		Amenities:                 slices.Clone([]string(p.Amenities)),
		IsExclusive:               p.IsExclusive,
		SharedCommission:          p.SharedCommission,
		CommissionSplitPercentage: formatFloat(p.CommissionSplitPercentage),
		Images:                    slices.Clone([]string(p.Images)),
		VideoURL:                  strValue(p.VideoURL),
	}
	if p.PriceLocal == 0 {
		d.PriceLocal = ""
	}
	if d.Country == "" {
		d.Country = DefaultCountry
	}
	if d.CommissionSplitPercentage == "" {
		d.CommissionSplitPercentage = DefaultCommissionSplit
	}
	if d.Amenities == nil {
		d.Amenities = []string{}
	}
	if d.Images == nil {
		d.Images = []string{}
	}
	return d
}

// clone copia los slices para que el llamador no comparta memoria con el store
func (d Draft) clone() Draft {
	d.Amenities = slices.Clone(d.Amenities)
	d.Images = slices.Clone(d.Images)
	return d
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func formatInt(i *int) string {
	if i == nil {
		return ""
	}
	return strconv.Itoa(*i)
}
