package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PropertyType es el tipo de inmueble
type PropertyType string

const (
	PropertyTypeHouse           PropertyType = "house"
	PropertyTypeApartment       PropertyType = "apartment"
	PropertyTypeLand            PropertyType = "land"
	PropertyTypeCommercialSpace PropertyType = "commercial_space"
	PropertyTypeOffice          PropertyType = "office"
)

// OperationType indica si el inmueble se vende, se renta o ambas
type OperationType string

const (
	OperationSale       OperationType = "sale"
	OperationRent       OperationType = "rent"
	OperationSaleOrRent OperationType = "sale_or_rent"
)

// PropertyStatus es el estado comercial del inmueble
type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertySold      PropertyStatus = "sold"
	PropertyRented    PropertyStatus = "rented"
	PropertyInProcess PropertyStatus = "in_process"
)

// PropertyTypeLabels son las etiquetas que muestra el dashboard
var PropertyTypeLabels = map[PropertyType]string{
	PropertyTypeHouse:           "Casa",
	PropertyTypeApartment:       "Departamento",
	PropertyTypeLand:            "Terreno",
	PropertyTypeCommercialSpace: "Local Comercial",
	PropertyTypeOffice:          "Oficina",
}

var OperationTypeLabels = map[OperationType]string{
	OperationSale:       "Venta",
	OperationRent:       "Renta",
	OperationSaleOrRent: "Venta o Renta",
}

var PropertyStatusLabels = map[PropertyStatus]string{
	PropertyAvailable: "Disponible",
	PropertySold:      "Vendida",
	PropertyRented:    "Rentada",
	PropertyInProcess: "En Proceso",
}

// Amenity es una etiqueta del catálogo de amenidades
type Amenity struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// AmenityCatalog es el catálogo cerrado de amenidades, en orden de despliegue
var AmenityCatalog = []Amenity{
	{Value: "beach_access", Label: "Acceso a Playa"},
	{Value: "waterfront", Label: "Frente al Agua"},
	{Value: "water_view", Label: "Vista al Agua"},
	{Value: "garden", Label: "Jardín"},
	{Value: "air_conditioning", Label: "Aire Acondicionado"},
	{Value: "equipped_kitchen", Label: "Cocina Equipada"},
	{Value: "pets_allowed", Label: "Mascotas Permitidas"},
	{Value: "pool", Label: "Alberca"},
	{Value: "gym", Label: "Gimnasio"},
	{Value: "security_24h", Label: "Seguridad 24h"},
	{Value: "covered_parking", Label: "Estacionamiento Techado"},
	{Value: "service_room", Label: "Cuarto de Servicio"},
	{Value: "terrace", Label: "Terraza"},
	{Value: "roof_garden", Label: "Roof Garden"},
	{Value: "storage", Label: "Bodega"},
	{Value: "elevator", Label: "Elevador"},
}

// IsAmenity indica si el tag pertenece al catálogo
func IsAmenity(tag string) bool {
	for _, a := range AmenityCatalog {
		if a.Value == tag {
			return true
		}
	}
	return false
}

// Valid reporta si el valor es uno de los tipos conocidos
func (t PropertyType) Valid() bool {
	_, ok := PropertyTypeLabels[t]
	return ok
}

func (o OperationType) Valid() bool {
	_, ok := OperationTypeLabels[o]
	return ok
}

func (s PropertyStatus) Valid() bool {
	_, ok := PropertyStatusLabels[s]
	return ok
}

// Property es el registro persistido de un inmueble.
// Los campos opcionales son punteros: nil significa "ausente", nunca cero.
type Property struct {
	ID            string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	PropertyType  PropertyType   `gorm:"type:varchar(30);not null;index" json:"property_type"`
	OperationType OperationType  `gorm:"type:varchar(20);not null;index" json:"operation_type"`
	Description   *string        `gorm:"type:text" json:"description"`
	Status        PropertyStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	// Precios
	PriceLocal           float64  `gorm:"not null" json:"price_local"`
	PriceAlt             *float64 `json:"price_alt"`
	ShowPrice            bool     `json:"show_price"`
	CommissionPercentage *float64 `json:"commission_percentage"`

	// Características
	Bedrooms         *int     `json:"bedrooms"`
	Bathrooms        *int     `json:"bathrooms"`
	HalfBathrooms    *int     `json:"half_bathrooms"`
	ParkingSpaces    *int     `json:"parking_spaces"`
	ConstructionArea *float64 `json:"construction_area"`
	LandArea         *float64 `json:"land_area"`
	YearBuilt        *int     `json:"year_built"`

	// Ubicación
	Country           string  `gorm:"not null" json:"country"`
	State             *string `json:"state"`
	City              *string `gorm:"index" json:"city"`
	Neighborhood      *string `json:"neighborhood"`
	Street            *string `json:"street"`
	PostalCode        *string `json:"postal_code"`
	ShowExactLocation bool    `json:"show_exact_location"`

	Amenities datatypes.JSONSlice[string] `json:"amenities"`

	// Colaboración
	IsExclusive               bool     `json:"is_exclusive"`
	SharedCommission          bool     `json:"shared_commission"`
	CommissionSplitPercentage *float64 `json:"commission_split_percentage"`

	// Multimedia
	Images   datatypes.JSONSlice[string] `json:"images"`
	VideoURL *string                     `json:"video_url"`

	InternalKey *string   `json:"internal_key"`
	UserID      string    `gorm:"type:varchar(36);index" json:"user_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName especifica el nombre de la tabla
func (Property) TableName() string {
	return "properties"
}

// BeforeCreate asigna un UUID si el registro no trae uno
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
