package controllers

import (
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/middleware"
	"github.com/AnthonyFclub/glor-crm/services"
	"github.com/gin-gonic/gin"
)

// AuthController maneja login, logout y recuperación de contraseña
type AuthController struct {
	service      services.AuthService
	cookieSecure bool
}

// NewAuthController crea una nueva instancia del controlador
func NewAuthController(service services.AuthService, cookieSecure bool) *AuthController {
	return &AuthController{service: service, cookieSecure: cookieSecure}
}

// SignIn maneja POST /auth/login. Devuelve el token y además lo deja en la cookie de sesión.
func (ctrl *AuthController) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := ctrl.service.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	// Si el login vino desde una ruta protegida, se vuelve ahí
	if redirect := c.Query("redirect"); isLocalPath(redirect) {
		resp.Redirect = redirect
	}

	ctrl.setSessionCookie(c, resp.Token, int(time.Until(resp.ExpiresAt).Seconds()))
	c.JSON(http.StatusOK, resp)
}

// SignOut maneja POST /auth/logout
func (ctrl *AuthController) SignOut(c *gin.Context) {
	if err := ctrl.service.SignOut(c.Request.Context(), c.GetString(middleware.ContextToken)); err != nil {
		respondError(c, err)
		return
	}
	ctrl.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "signed out"})
}

// Me maneja GET /auth/me: el usuario de la sesión actual
func (ctrl *AuthController) Me(c *gin.Context) {
	user, err := ctrl.service.CurrentUser(c.Request.Context(), c.GetString(middleware.ContextToken))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// RequestPasswordReset maneja POST /auth/password-reset.
// Responde igual exista o no la cuenta.
func (ctrl *AuthController) RequestPasswordReset(c *gin.Context) {
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := ctrl.service.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{
		Message: "if the account exists, a reset link has been sent",
	})
}

// ResetPassword maneja POST /auth/password-reset/confirm
func (ctrl *AuthController) ResetPassword(c *gin.Context) {
	var req dto.PasswordResetConfirm
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := ctrl.service.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Message: "password updated", Data: gin.H{"redirect": "/login"}})
}

// CreateUser maneja POST /admin/users
func (ctrl *AuthController) CreateUser(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := ctrl.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.SuccessResponse{Message: "user created", Data: user})
}

// ListUsers maneja GET /admin/users
func (ctrl *AuthController) ListUsers(c *gin.Context) {
	users, err := ctrl.service.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (ctrl *AuthController) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", ctrl.cookieSecure, true)
}

// isLocalPath evita redirecciones abiertas: solo rutas del mismo sitio.
// Los navegadores descartan tabs y saltos de línea, así que "/\t/x" sería "//x".
func isLocalPath(p string) bool {
	if len(p) < 2 || p[0] != '/' || p[1] == '/' || p[1] == '\\' {
		return false
	}
	return strings.IndexFunc(p, unicode.IsControl) < 0
}
