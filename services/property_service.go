package services

import (
	"context"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/repositories"
	"go.uber.org/zap"
)

// PropertyService cubre el listado, el detalle y el borrado de inmuebles.
// Las altas y ediciones pasan por el asistente.
type PropertyService interface {
	List(ctx context.Context, filter dto.PropertyFilter) (*dto.PageResponse[domain.Property], error)
	Get(ctx context.Context, id string) (*domain.Property, error)
	Delete(ctx context.Context, id, userID string) error
}

type propertyService struct {
	repo      repositories.PropertyRepository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewPropertyService crea una nueva instancia del servicio
func NewPropertyService(repo repositories.PropertyRepository, publisher EventPublisher, logger *zap.Logger) PropertyService {
	return &propertyService{repo: repo, publisher: publisher, logger: logger}
}

func (s *propertyService) List(ctx context.Context, filter dto.PropertyFilter) (*dto.PageResponse[domain.Property], error) {
	errs := fieldErrors{}
	if filter.Status != "" && !domain.PropertyStatus(filter.Status).Valid() {
		errs.add("status", "invalid status")
	}
	if filter.PropertyType != "" && !domain.PropertyType(filter.PropertyType).Valid() {
		errs.add("property_type", "invalid property type")
	}
	if filter.OperationType != "" && !domain.OperationType(filter.OperationType).Valid() {
		errs.add("operation_type", "invalid operation type")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	filter.Normalize()
	properties, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(properties, total, filter.Pagination), nil
}

func (s *propertyService) Get(ctx context.Context, id string) (*domain.Property, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *propertyService) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Property deleted", zap.String("property_id", id), zap.String("user_id", userID))
	publish(ctx, s.publisher, s.logger, "delete", "property", id, userID)
	return nil
}
