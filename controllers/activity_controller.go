package controllers

import (
	"net/http"

	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/middleware"
	"github.com/AnthonyFclub/glor-crm/services"
	"github.com/gin-gonic/gin"
)

// ActivityController maneja el historial de interacciones
type ActivityController struct {
	service services.ActivityService
}

// NewActivityController crea una nueva instancia del controlador
func NewActivityController(service services.ActivityService) *ActivityController {
	return &ActivityController{service: service}
}

func (ctrl *ActivityController) List(c *gin.Context) {
	var filter dto.ActivityFilter
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

func (ctrl *ActivityController) Create(c *gin.Context) {
	var req dto.ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	activity, err := ctrl.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, activity)
}

func (ctrl *ActivityController) Get(c *gin.Context) {
	activity, err := ctrl.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

func (ctrl *ActivityController) Update(c *gin.Context) {
	var req dto.ActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	activity, err := ctrl.service.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

func (ctrl *ActivityController) Delete(c *gin.Context) {
	if err := ctrl.service.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "activity deleted"})
}
