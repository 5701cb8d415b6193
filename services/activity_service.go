package services

import (
	"context"
	"strings"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/repositories"
	"go.uber.org/zap"
)

// ActivityService registra las interacciones con los contactos
type ActivityService interface {
	Create(ctx context.Context, userID string, req dto.ActivityRequest) (*domain.Activity, error)
	Update(ctx context.Context, id, userID string, req dto.ActivityRequest) (*domain.Activity, error)
	Get(ctx context.Context, id string) (*domain.Activity, error)
	Delete(ctx context.Context, id, userID string) error
	List(ctx context.Context, filter dto.ActivityFilter) (*dto.PageResponse[domain.Activity], error)
}

type activityService struct {
	activities repositories.ActivityRepository
	contacts   repositories.ContactRepository
	publisher  EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewActivityService crea una nueva instancia del servicio
func NewActivityService(activities repositories.ActivityRepository, contacts repositories.ContactRepository,
	publisher EventPublisher, logger *zap.Logger) ActivityService {
	return &activityService{
		activities: activities,
		contacts:   contacts,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *activityService) Create(ctx context.Context, userID string, req dto.ActivityRequest) (*domain.Activity, error) {
	if _, err := s.contacts.GetByID(ctx, req.ContactID); err != nil {
		return nil, err
	}
	activity := &domain.Activity{CreatedBy: userID}
	if err := s.apply(activity, req); err != nil {
		return nil, err
	}
	if err := s.activities.Create(ctx, activity); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, "create", "activity", activity.ID, userID)
	return activity, nil
}

func (s *activityService) Update(ctx context.Context, id, userID string, req dto.ActivityRequest) (*domain.Activity, error) {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ContactID != activity.ContactID {
		if _, err := s.contacts.GetByID(ctx, req.ContactID); err != nil {
			return nil, err
		}
	}
	if err := s.apply(activity, req); err != nil {
		return nil, err
	}
	if err := s.activities.Update(ctx, activity); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, "update", "activity", activity.ID, userID)
	return activity, nil
}

func (s *activityService) Get(ctx context.Context, id string) (*domain.Activity, error) {
	return s.activities.GetByID(ctx, id)
}

func (s *activityService) Delete(ctx context.Context, id, userID string) error {
	if err := s.activities.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.publisher, s.logger, "delete", "activity", id, userID)
	return nil
}

func (s *activityService) List(ctx context.Context, filter dto.ActivityFilter) (*dto.PageResponse[domain.Activity], error) {
	for _, kind := range filter.Kinds {
		if !domain.ActivityKind(kind).Valid() {
			return nil, &ValidationError{Fields: map[string]string{"kind": "invalid kind " + kind}}
		}
	}
	filter.Normalize()
	activities, total, err := s.activities.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(activities, total, filter.Pagination), nil
}

func (s *activityService) apply(a *domain.Activity, req dto.ActivityRequest) error {
	errs := fieldErrors{}

	kind := domain.ActivityKind(req.Kind)
	if !kind.Valid() {
		errs.add("kind", "invalid kind")
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		errs.add("description", "description required")
	}
	var outcome *domain.ActivityOutcome
	if req.Outcome != nil && *req.Outcome != "" {
		o := domain.ActivityOutcome(*req.Outcome)
		if !o.Valid() {
			errs.add("outcome", "invalid outcome")
		}
		outcome = &o
	}
	occurredAt := s.now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}
	if req.NextFollowUp != nil && req.NextFollowUp.Before(occurredAt) {
		errs.add("next_follow_up", "must not be before the activity")
	}
	if err := errs.err(); err != nil {
		return err
	}

	a.ContactID = req.ContactID
	a.DealID = trimmed(req.DealID)
	a.Kind = kind
	a.Description = description
	a.Outcome = outcome
	a.OccurredAt = occurredAt
	a.NextFollowUp = req.NextFollowUp
	return nil
}
