package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/middleware"
	"github.com/AnthonyFclub/glor-crm/services"
	"github.com/gin-gonic/gin"
)

// ContactController maneja los endpoints de contactos
type ContactController struct {
	service services.ContactService
}

// NewContactController crea una nueva instancia del controlador
func NewContactController(service services.ContactService) *ContactController {
	return &ContactController{service: service}
}

// List maneja GET /contacts
func (ctrl *ContactController) List(c *gin.Context) {
	var filter dto.ContactFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}
	page, err := ctrl.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Export maneja GET /contacts/export: los contactos filtrados en CSV
func (ctrl *ContactController) Export(c *gin.Context) {
	var filter dto.ContactFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}

	filename := fmt.Sprintf("contactos_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := ctrl.service.Export(c.Request.Context(), filter, c.Writer); err != nil {
		// Si ya se escribió algo no se puede cambiar el status
		if !c.Writer.Written() {
			respondError(c, err)
			return
		}
		_ = c.Error(err)
	}
}

// Create maneja POST /contacts
func (ctrl *ContactController) Create(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	contact, err := ctrl.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// Get maneja GET /contacts/:id
func (ctrl *ContactController) Get(c *gin.Context) {
	contact, err := ctrl.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// Update maneja PUT /contacts/:id
func (ctrl *ContactController) Update(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	contact, err := ctrl.service.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

// Delete maneja DELETE /contacts/:id
func (ctrl *ContactController) Delete(c *gin.Context) {
	if err := ctrl.service.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "contact deleted"})
}
