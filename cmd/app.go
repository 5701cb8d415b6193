package cmd

import (
	"context"
	"fmt"

	"github.com/AnthonyFclub/glor-crm/config"
	"github.com/AnthonyFclub/glor-crm/repositories"
	"github.com/AnthonyFclub/glor-crm/services"
	"github.com/AnthonyFclub/glor-crm/utils"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app agrupa las dependencias armadas a partir de la configuración
type app struct {
	db    *gorm.DB
	mongo *mongo.Client

	users          repositories.UserRepository
	properties     repositories.PropertyRepository
	contacts       repositories.ContactRepository
	deals          repositories.DealRepository
	activities     repositories.ActivityRepository
	sessions       repositories.SessionRepository
	wizardSessions repositories.WizardSessionRepository
	audit          repositories.AuditRepository

	publisher services.EventPublisher

	authService      services.AuthService
	propertyService  services.PropertyService
	wizardService    services.WizardService
	contactService   services.ContactService
	dealService      services.DealService
	activityService  services.ActivityService
	dashboardService services.DashboardService

	closers []func() error
}

// newApp abre la base, los cachés y los servicios. RabbitMQ y MongoDB son
// opcionales: sin RABBITMQ_URL los eventos solo se loguean y sin MONGO_URI
// no hay registro de actividad.
func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{}

	db, err := repositories.OpenDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}
	a.db = db
	a.closers = append(a.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})

	a.users = repositories.NewUserRepository(db)
	a.properties = repositories.NewPropertyRepository(db)
	a.contacts = repositories.NewContactRepository(db)
	a.deals = repositories.NewDealRepository(db)
	a.activities = repositories.NewActivityRepository(db)

	a.sessions = repositories.NewSessionRepository(cfg.MemcachedHost, logger)
	a.wizardSessions = repositories.NewWizardSessionRepository(repositories.WizardSessionTTL)
	a.closers = append(a.closers, closeFunc(a.sessions.Close), closeFunc(a.wizardSessions.Close))

	if cfg.RabbitMQURL != "" {
		if a.publisher, err = services.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsQueue, logger); err != nil {
			a.Close(logger)
			return nil, err
		}
	} else {
		logger.Warn("RABBITMQ_URL not set, events will not be published")
		a.publisher = services.NewNoopPublisher(logger)
	}
	a.closers = append(a.closers, a.publisher.Close)

	if cfg.MongoURI != "" {
		if a.mongo, err = repositories.ConnectMongo(ctx, cfg.MongoURI); err != nil {
			a.Close(logger)
			return nil, err
		}
		a.audit = repositories.NewAuditRepository(a.mongo, cfg.MongoDatabase)
		client := a.mongo
		a.closers = append(a.closers, func() error { return client.Disconnect(context.Background()) })
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	a.authService = services.NewAuthService(a.users, a.sessions, tokens, cfg.AppBaseURL, logger)
	a.propertyService = services.NewPropertyService(a.properties, a.publisher, logger)
	a.wizardService = services.NewWizardService(a.wizardSessions, a.properties, a.publisher, logger)
	a.contactService = services.NewContactService(a.contacts, a.publisher, logger)
	a.dealService = services.NewDealService(a.deals, a.contacts, a.publisher, logger)
	a.activityService = services.NewActivityService(a.activities, a.contacts, a.publisher, logger)
	a.dashboardService = services.NewDashboardService(a.contacts, a.deals, a.activities)

	return a, nil
}

// Close libera los recursos en orden inverso al de apertura
func (a *app) Close(logger *zap.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("Error releasing resource", zap.Error(err))
		}
	}
	a.closers = nil
}

func closeFunc(fn func()) func() error {
	return func() error {
		fn()
		return nil
	}
}

// openMigrated abre la base y aplica las migraciones
func openMigrated(ctx context.Context) (*app, error) {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := repositories.Migrate(a.db); err != nil {
		a.Close(logger)
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return a, nil
}
