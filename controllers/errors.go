package controllers

import (
	"errors"
	"net/http"

	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/services"
	"github.com/AnthonyFclub/glor-crm/wizard"
	"github.com/gin-gonic/gin"
)

// errorResponse traduce un error de las capas de abajo a status HTTP y cuerpo
func errorResponse(err error) (int, dto.ErrorResponse) {
	var (
		serviceErr *services.ValidationError
		wizardErr  *wizard.ValidationError
		persistErr *wizard.PersistenceError
	)

	switch {
	case errors.As(err, &serviceErr):
		return http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: "validation_error", Message: "some fields are invalid", Fields: serviceErr.Fields,
		}
	case errors.As(err, &wizardErr):
		return http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error: "validation_error", Message: "some fields are invalid", Fields: wizardErr.Fields,
		}
	case errors.As(err, &persistErr):
		// El mensaje del almacén se muestra tal cual
		return http.StatusBadGateway, dto.ErrorResponse{Error: "persistence_error", Message: persistErr.Error()}
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, dto.ErrorResponse{Error: "not_found", Message: err.Error()}
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, wizard.ErrNotSignedIn):
		return http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Message: err.Error()}
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict, dto.ErrorResponse{Error: "email_taken", Message: err.Error()}
	case errors.Is(err, services.ErrInvalidResetToken):
		return http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_token", Message: err.Error()}
	case errors.Is(err, wizard.ErrSubmissionPending):
		return http.StatusConflict, dto.ErrorResponse{Error: "submission_pending", Message: err.Error()}
	case errors.Is(err, wizard.ErrStepLocked),
		errors.Is(err, wizard.ErrNotFinalStep):
		return http.StatusConflict, dto.ErrorResponse{Error: "step_not_allowed", Message: err.Error()}
	case errors.Is(err, wizard.ErrUnknownField),
		errors.Is(err, wizard.ErrInvalidValue),
		errors.Is(err, wizard.ErrNotSetField),
		errors.Is(err, wizard.ErrStepOutOfRange):
		return http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()}
	}
	return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error", Message: "unexpected error"}
}

// respondError escribe la respuesta de error; los 500 quedan en c.Errors para el log
func respondError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, body)
}

// bindError responde 400 cuando el JSON o la query no se pueden leer
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
