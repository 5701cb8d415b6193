package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger verifica una dependencia externa
type Pinger func(ctx context.Context) error

// HealthController maneja GET /health
type HealthController struct {
	checks map[string]Pinger
}

// NewHealthController crea el controlador con los chequeos por dependencia
func NewHealthController(checks map[string]Pinger) *HealthController {
	return &HealthController{checks: checks}
}

// HealthCheck responde 200 si todas las dependencias responden y 503 si alguna falla
func (ctrl *HealthController) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(ctrl.checks))
	for name, ping := range ctrl.checks {
		if err := ping(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":  state,
		"service": "glor-crm",
		"checks":  results,
	})
}
