package controllers

import (
	"net/http"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/middleware"
	"github.com/AnthonyFclub/glor-crm/services"
	"github.com/gin-gonic/gin"
)

// DealController maneja el pipeline de ventas
type DealController struct {
	service services.DealService
}

// NewDealController crea una nueva instancia del controlador
func NewDealController(service services.DealService) *DealController {
	return &DealController{service: service}
}

// List maneja GET /deals
func (ctrl *DealController) List(c *gin.Context) {
	var filter dto.DealFilter
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

// Board maneja GET /deals/board: todos los deals agrupados por etapa
func (ctrl *DealController) Board(c *gin.Context) {
	board, err := ctrl.service.Board(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// Create maneja POST /deals
func (ctrl *DealController) Create(c *gin.Context) {
	var req dto.DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	deal, err := ctrl.service.Create(c.Request.Context(), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, deal)
}

// Get maneja GET /deals/:id
func (ctrl *DealController) Get(c *gin.Context) {
	deal, err := ctrl.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

// Update maneja PUT /deals/:id
func (ctrl *DealController) Update(c *gin.Context) {
	var req dto.DealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	deal, err := ctrl.service.Update(c.Request.Context(), c.Param("id"), middleware.UserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

// MoveStage maneja PATCH /deals/:id/stage
func (ctrl *DealController) MoveStage(c *gin.Context) {
	var req dto.MoveStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	deal, err := ctrl.service.MoveStage(c.Request.Context(), c.Param("id"), middleware.UserID(c), domain.DealStage(req.Stage))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, deal)
}

// Delete maneja DELETE /deals/:id
func (ctrl *DealController) Delete(c *gin.Context) {
	if err := ctrl.service.Delete(c.Request.Context(), c.Param("id"), middleware.UserID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "deal deleted"})
}
