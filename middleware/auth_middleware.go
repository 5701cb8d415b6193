package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/services"
	"github.com/gin-gonic/gin"
)

// SessionCookie es la cookie donde viaja el token de sesión
const SessionCookie = "glor_session"

// Claves del contexto de gin
const (
	ContextUserID    = "user_id"
	ContextEmail     = "email"
	ContextRole      = "role"
	ContextSessionID = "session_id"
	ContextToken     = "token"
)

// AuthMiddleware resuelve la sesión del request. Acepta
// "Authorization: Bearer <token>" o la cookie de sesión; sin sesión
// válida responde 401 con la ruta de login a la que volver.
func AuthMiddleware(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			unauthorized(c, "authorization required")
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				unauthorized(c, "invalid or expired session")
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:   "internal_error",
				Message: "could not verify session",
			})
			return
		}

		// Guardar la info del usuario en el contexto
		c.Set(ContextUserID, session.UserID)
		c.Set(ContextEmail, session.Email)
		c.Set(ContextRole, string(session.Role))
		c.Set(ContextSessionID, session.ID)
		c.Set(ContextToken, token)

		c.Next()
	}
}

// AdminMiddleware valida que el usuario sea admin.
// Se usa DESPUÉS de AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			unauthorized(c, "authorization required")
			return
		}

		if role != string(domain.UserRoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error:   "forbidden",
				Message: "admin privileges required",
			})
			return
		}

		c.Next()
	}
}

// TokenFromRequest lee el token del header Authorization o de la cookie
func TokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// UserID devuelve el usuario autenticado del request
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

// LoginRedirect arma la ruta de login que regresa a path después de entrar
func LoginRedirect(path string) string {
	return "/login?redirect=" + url.QueryEscape(path)
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error:    "unauthorized",
		Message:  msg,
		Redirect: LoginRedirect(c.Request.URL.Path),
	})
}
