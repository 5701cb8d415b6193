package controllers

import (
	"net/http"
	"strconv"

	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/repositories"
	"github.com/AnthonyFclub/glor-crm/services"
	"github.com/gin-gonic/gin"
)

// DashboardController expone el resumen y el registro de actividad
type DashboardController struct {
	service services.DashboardService
	audit   repositories.AuditRepository // nil si no hay MongoDB
}

// NewDashboardController crea una nueva instancia del controlador
func NewDashboardController(service services.DashboardService, audit repositories.AuditRepository) *DashboardController {
	return &DashboardController{service: service, audit: audit}
}

// Summary maneja GET /dashboard
func (ctrl *DashboardController) Summary(c *gin.Context) {
	summary, err := ctrl.service.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ActivityLog maneja GET /activity-log?entity=&entity_id=&user_id=&limit=
func (ctrl *DashboardController) ActivityLog(c *gin.Context) {
	if ctrl.audit == nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{
			Error:   "audit_disabled",
			Message: "activity log is not configured",
		})
		return
	}

	filter := repositories.AuditFilter{
		Entity:   c.Query("entity"),
		EntityID: c.Query("entity_id"),
		UserID:   c.Query("user_id"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: "limit must be a number"})
			return
		}
		filter.Limit = limit
	}

	entries, err := ctrl.audit.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
