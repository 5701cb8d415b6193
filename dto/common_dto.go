package dto

// ErrorResponse representa una respuesta de error
type ErrorResponse struct {
	Error    string            `json:"error"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Data     interface{}       `json:"data,omitempty"`
}

// SuccessResponse representa una respuesta exitosa
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse es una página de resultados
type PageResponse[T any] struct {
	Results    []T   `json:"results"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// DefaultPageSize es el tamaño de página de los listados del dashboard
const DefaultPageSize = 20

// MaxPageSize limita lo que puede pedir un cliente
const MaxPageSize = 100

// Pagination son los parámetros de paginado comunes
type Pagination struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalize aplica los valores por defecto
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset es el desplazamiento para la consulta
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// NewPage arma la respuesta calculando el total de páginas
func NewPage[T any](results []T, total int64, p Pagination) *PageResponse[T] {
	if results == nil {
		results = []T{}
	}
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = int((total + int64(p.PageSize) - 1) / int64(p.PageSize)) // Redondeo hacia arriba
	}
	return &PageResponse[T]{
		Results:    results,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
	}
}
