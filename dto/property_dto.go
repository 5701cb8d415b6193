package dto

// PropertyFilter son los filtros del listado de propiedades
type PropertyFilter struct {
	Search        string `form:"search"`
	Status        string `form:"status"`
	PropertyType  string `form:"property_type"`
	OperationType string `form:"operation_type"`
	Pagination
}

// StartWizardRequest abre una sesión del asistente; sin property_id es un alta
type StartWizardRequest struct {
	PropertyID string `json:"property_id"`
}

// UpdateFieldRequest cambia un campo del borrador
type UpdateFieldRequest struct {
	Field string      `json:"field" binding:"required"`
	Value interface{} `json:"value"`
}

// ToggleRequest prende o apaga un miembro de un conjunto
type ToggleRequest struct {
	Field string `json:"field"`
	Value string `json:"value" binding:"required"`
}

// JumpRequest navega a un paso
type JumpRequest struct {
	Step int `json:"step" binding:"required"`
}

// SubmitResponse es la señal de éxito del envío del asistente
type SubmitResponse struct {
	Message         string      `json:"message"`
	Data            interface{} `json:"data"`
	RedirectTo      string      `json:"redirect_to"`
	RedirectAfterMS int64       `json:"redirect_after_ms"`
}
