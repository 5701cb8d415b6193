package controllers

import (
	"net/http"

	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/middleware"
	"github.com/AnthonyFclub/glor-crm/services"
	"github.com/AnthonyFclub/glor-crm/wizard"
	"github.com/gin-gonic/gin"
)

// WizardController expone el asistente de alta y edición de propiedades
type WizardController struct {
	service services.WizardService
}

// NewWizardController crea una nueva instancia del controlador
func NewWizardController(service services.WizardService) *WizardController {
	return &WizardController{service: service}
}

// Start maneja POST /wizards. Con property_id abre la edición de ese registro.
func (ctrl *WizardController) Start(c *gin.Context) {
	var req dto.StartWizardRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}
	view, err := ctrl.service.Start(c.Request.Context(), middleware.UserID(c), req.PropertyID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// Get maneja GET /wizards/:id
func (ctrl *WizardController) Get(c *gin.Context) {
	view, err := ctrl.service.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	respondView(c, view, err)
}

// UpdateField maneja PATCH /wizards/:id/fields
func (ctrl *WizardController) UpdateField(c *gin.Context) {
	var req dto.UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := ctrl.service.UpdateField(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Field, req.Value)
	respondView(c, view, err)
}

// Toggle maneja POST /wizards/:id/toggle
func (ctrl *WizardController) Toggle(c *gin.Context) {
	var req dto.ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if req.Field == "" {
		req.Field = "amenities"
	}
	view, err := ctrl.service.ToggleSetMember(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Field, req.Value)
	respondView(c, view, err)
}

// Advance maneja POST /wizards/:id/advance
func (ctrl *WizardController) Advance(c *gin.Context) {
	view, err := ctrl.service.Advance(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	respondView(c, view, err)
}

// Retreat maneja POST /wizards/:id/retreat
func (ctrl *WizardController) Retreat(c *gin.Context) {
	view, err := ctrl.service.Retreat(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	respondView(c, view, err)
}

// JumpTo maneja POST /wizards/:id/jump
func (ctrl *WizardController) JumpTo(c *gin.Context) {
	var req dto.JumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	view, err := ctrl.service.JumpTo(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.Step)
	respondView(c, view, err)
}

// Submit maneja POST /wizards/:id/submit
func (ctrl *WizardController) Submit(c *gin.Context) {
	var identity *wizard.Identity
	if userID := middleware.UserID(c); userID != "" {
		identity = &wizard.Identity{UserID: userID, Email: c.GetString(middleware.ContextEmail)}
	}

	result, err := ctrl.service.Submit(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, dto.SubmitResponse{
		Message:         result.Message,
		Data:            result.Record,
		RedirectTo:      result.RedirectTo,
		RedirectAfterMS: result.RedirectAfter.Milliseconds(),
	})
}

// Discard maneja DELETE /wizards/:id
func (ctrl *WizardController) Discard(c *gin.Context) {
	if err := ctrl.service.Discard(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// respondView devuelve la sesión; con error, la sesión va en data junto al error
func respondView(c *gin.Context, view wizard.SessionView, err error) {
	if err == nil {
		c.JSON(http.StatusOK, view)
		return
	}
	status, body := errorResponse(err)
	if view.ID != "" {
		body.Data = view
	}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, body)
}
