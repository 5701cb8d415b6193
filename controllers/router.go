package controllers

import (
	"github.com/AnthonyFclub/glor-crm/middleware"
	"github.com/AnthonyFclub/glor-crm/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig reúne todo lo que necesitan las rutas
type RouterConfig struct {
	Auth       services.AuthService
	Logger     *zap.Logger
	CORSOrigin string
	Health     *HealthController
	AuthCtrl   *AuthController
	Properties *PropertyController
	Wizards    *WizardController
	Contacts   *ContactController
	Deals      *DealController
	Activities *ActivityController
	Dashboard  *DashboardController
}

// NewRouter arma el engine de gin con las rutas públicas y las protegidas
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(cfg.Logger))
	router.Use(middleware.RequestLogger(cfg.Logger))
	router.Use(middleware.CORS(cfg.CORSOrigin))

	// Rutas PÚBLICAS
	router.GET("/health", cfg.Health.HealthCheck)
	router.POST("/auth/login", cfg.AuthCtrl.SignIn)
	router.POST("/auth/password-reset", cfg.AuthCtrl.RequestPasswordReset)
	router.POST("/auth/password-reset/confirm", cfg.AuthCtrl.ResetPassword)

	// Rutas PROTEGIDAS (requieren sesión)
	api := router.Group("/")
	api.Use(middleware.AuthMiddleware(cfg.Auth))
	{
		api.POST("/auth/logout", cfg.AuthCtrl.SignOut)
		api.GET("/auth/me", cfg.AuthCtrl.Me)

		api.GET("/dashboard", cfg.Dashboard.Summary)
		api.GET("/activity-log", cfg.Dashboard.ActivityLog)

		api.GET("/properties", cfg.Properties.List)
		api.GET("/properties/:id", cfg.Properties.Get)
		api.DELETE("/properties/:id", cfg.Properties.Delete)

		api.POST("/wizards", cfg.Wizards.Start)
		api.GET("/wizards/:id", cfg.Wizards.Get)
		api.PATCH("/wizards/:id/fields", cfg.Wizards.UpdateField)
		api.POST("/wizards/:id/toggle", cfg.Wizards.Toggle)
		api.POST("/wizards/:id/advance", cfg.Wizards.Advance)
		api.POST("/wizards/:id/retreat", cfg.Wizards.Retreat)
		api.POST("/wizards/:id/jump", cfg.Wizards.JumpTo)
		api.POST("/wizards/:id/submit", cfg.Wizards.Submit)
		api.DELETE("/wizards/:id", cfg.Wizards.Discard)

		api.GET("/contacts", cfg.Contacts.List)
		api.GET("/contacts/export", cfg.Contacts.Export)
		api.POST("/contacts", cfg.Contacts.Create)
		api.GET("/contacts/:id", cfg.Contacts.Get)
		api.PUT("/contacts/:id", cfg.Contacts.Update)
		api.DELETE("/contacts/:id", cfg.Contacts.Delete)

		api.GET("/deals", cfg.Deals.List)
		api.GET("/deals/board", cfg.Deals.Board)
		api.POST("/deals", cfg.Deals.Create)
		api.GET("/deals/:id", cfg.Deals.Get)
		api.PUT("/deals/:id", cfg.Deals.Update)
		api.PATCH("/deals/:id/stage", cfg.Deals.MoveStage)
		api.DELETE("/deals/:id", cfg.Deals.Delete)

		api.GET("/activities", cfg.Activities.List)
		api.POST("/activities", cfg.Activities.Create)
		api.GET("/activities/:id", cfg.Activities.Get)
		api.PUT("/activities/:id", cfg.Activities.Update)
		api.DELETE("/activities/:id", cfg.Activities.Delete)
	}

	// Rutas de ADMIN
	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg.Auth), middleware.AdminMiddleware())
	{
		admin.GET("/users", cfg.AuthCtrl.ListUsers)
		admin.POST("/users", cfg.AuthCtrl.CreateUser)
	}

	return router
}
