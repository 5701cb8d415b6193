package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AnthonyFclub/glor-crm/consumers"
	"github.com/AnthonyFclub/glor-crm/controllers"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	skipMigrate     bool
	shutdownTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Levanta la API HTTP del CRM",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "No aplicar migraciones al arrancar")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 30*time.Second, "Tiempo máximo para el apagado ordenado")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger.Info("Starting Glor CRM", zap.String("port", cfg.Port), zap.String("db_driver", cfg.DBDriver))

	var (
		a   *app
		err error
	)
	if skipMigrate {
		a, err = newApp(ctx, cfg, logger)
	} else {
		a, err = openMigrated(ctx)
	}
	if err != nil {
		return err
	}
	defer a.Close(logger)

	// Consumidor de auditoría: solo con broker y Mongo configurados
	var consumer *consumers.AuditConsumer
	if a.audit != nil && cfg.RabbitMQURL != "" {
		consumer, err = consumers.NewAuditConsumer(cfg.RabbitMQURL, cfg.EventsQueue, a.audit, logger)
		if err != nil {
			return err
		}
		if err := consumer.Start(); err != nil {
			consumer.Close()
			return err
		}
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := controllers.NewRouter(controllers.RouterConfig{
		Auth:       a.authService,
		Logger:     logger,
		CORSOrigin: cfg.CORSOrigin,
		Health:     controllers.NewHealthController(healthChecks(a)),
		AuthCtrl:   controllers.NewAuthController(a.authService, cfg.CookieSecure),
		Properties: controllers.NewPropertyController(a.propertyService),
		Wizards:    controllers.NewWizardController(a.wizardService),
		Contacts:   controllers.NewContactController(a.contactService),
		Deals:      controllers.NewDealController(a.dealService),
		Activities: controllers.NewActivityController(a.activityService),
		Dashboard:  controllers.NewDashboardController(a.dashboardService, a.audit),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down HTTP server", zap.Error(err))
	}
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("Error closing audit consumer", zap.Error(err))
		}
	}

	logger.Info("Glor CRM stopped")
	return nil
}

// healthChecks arma los pings de /health según lo que esté configurado
func healthChecks(a *app) map[string]controllers.Pinger {
	checks := map[string]controllers.Pinger{
		"database": func(ctx context.Context) error {
			sqlDB, err := a.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if a.mongo != nil {
		checks["mongodb"] = func(ctx context.Context) error {
			return a.mongo.Ping(ctx, nil)
		}
	}
	return checks
}
