package services

import (
	"context"
	"strings"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/repositories"
	"github.com/AnthonyFclub/glor-crm/utils"
	"go.uber.org/zap"
)

// DefaultCommissionPercentage se usa cuando el deal no trae porcentaje
const DefaultCommissionPercentage = 5.0

// DealService define las operaciones del pipeline de ventas
type DealService interface {
	Create(ctx context.Context, userID string, req dto.DealRequest) (*domain.Deal, error)
	Update(ctx context.Context, id, userID string, req dto.DealRequest) (*domain.Deal, error)
	Get(ctx context.Context, id string) (*domain.Deal, error)
	Delete(ctx context.Context, id, userID string) error
	List(ctx context.Context, filter dto.DealFilter) (*dto.PageResponse[domain.Deal], error)
	Board(ctx context.Context) (map[domain.DealStage][]domain.Deal, error)
	MoveStage(ctx context.Context, id, userID string, stage domain.DealStage) (*domain.Deal, error)
}

type dealService struct {
	deals     repositories.DealRepository
	contacts  repositories.ContactRepository
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewDealService crea una nueva instancia del servicio
func NewDealService(deals repositories.DealRepository, contacts repositories.ContactRepository,
	publisher EventPublisher, logger *zap.Logger) DealService {
	return &dealService{
		deals:     deals,
		contacts:  contacts,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *dealService) Create(ctx context.Context, userID string, req dto.DealRequest) (*domain.Deal, error) {
	if _, err := s.contacts.GetByID(ctx, req.ContactID); err != nil {
		return nil, err
	}

	deal := &domain.Deal{
		CreatedBy:      userID,
		Stage:          domain.StageInitialContact,
		StageEnteredAt: s.now(),
	}
	if err := s.apply(deal, req); err != nil {
		return nil, err
	}
	if err := s.deals.Create(ctx, deal); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, "create", "deal", deal.ID, userID)
	return deal, nil
}

func (s *dealService) Update(ctx context.Context, id, userID string, req dto.DealRequest) (*domain.Deal, error) {
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ContactID != deal.ContactID {
		if _, err := s.contacts.GetByID(ctx, req.ContactID); err != nil {
			return nil, err
		}
	}
	if err := s.apply(deal, req); err != nil {
		return nil, err
	}
	if err := s.deals.Update(ctx, deal); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, "update", "deal", deal.ID, userID)
	return deal, nil
}

func (s *dealService) Get(ctx context.Context, id string) (*domain.Deal, error) {
	return s.deals.GetByID(ctx, id)
}

func (s *dealService) Delete(ctx context.Context, id, userID string) error {
	if err := s.deals.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.publisher, s.logger, "delete", "deal", id, userID)
	return nil
}

func (s *dealService) List(ctx context.Context, filter dto.DealFilter) (*dto.PageResponse[domain.Deal], error) {
	for _, stage := range filter.Stages {
		if !domain.DealStage(stage).Valid() {
			return nil, &ValidationError{Fields: map[string]string{"stage": "invalid stage " + stage}}
		}
	}
	filter.Normalize()
	deals, total, err := s.deals.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(deals, total, filter.Pagination), nil
}

// Board agrupa todos los deals por etapa, con todas las etapas presentes
func (s *dealService) Board(ctx context.Context) (map[domain.DealStage][]domain.Deal, error) {
	deals, err := s.deals.ListByStages(ctx, domain.PipelineStages)
	if err != nil {
		return nil, err
	}
	board := make(map[domain.DealStage][]domain.Deal, len(domain.PipelineStages))
	for _, stage := range domain.PipelineStages {
		board[stage] = []domain.Deal{}
	}
	for _, d := range deals {
		board[d.Stage] = append(board[d.Stage], d)
	}
	return board, nil
}

// MoveStage cambia la etapa y reinicia el contador de días en etapa.
// Al cerrar se registra la fecha real de cierre.
func (s *dealService) MoveStage(ctx context.Context, id, userID string, stage domain.DealStage) (*domain.Deal, error) {
	if !stage.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"stage": "invalid stage"}}
	}
	deal, err := s.deals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deal.Stage == stage {
		return deal, nil
	}

	s.setStage(deal, stage)
	if err := s.deals.Update(ctx, deal); err != nil {
		return nil, err
	}

	s.logger.Info("Deal moved",
		zap.String("deal_id", deal.ID),
		zap.String("stage", string(stage)),
		zap.String("user_id", userID))
	publish(ctx, s.publisher, s.logger, "update", "deal", deal.ID, userID)
	return deal, nil
}

func (s *dealService) setStage(deal *domain.Deal, stage domain.DealStage) {
	if deal.Stage == stage {
		return
	}
	now := s.now()
	deal.Stage = stage
	deal.StageEnteredAt = now
	switch {
	case stage == domain.StageClosed && deal.ActualCloseDate == nil:
		deal.ActualCloseDate = &now
	case stage.Active():
		deal.ActualCloseDate = nil
	}
}

// apply valida la petición, la vuelca en el deal y recalcula la comisión
func (s *dealService) apply(deal *domain.Deal, req dto.DealRequest) error {
	errs := fieldErrors{}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		errs.add("title", "title required")
	}
	if req.EstimatedValue != nil && *req.EstimatedValue < 0 {
		errs.add("estimated_value", "must not be negative")
	}
	currency := domain.Currency(req.Currency)
	if currency == "" {
		currency = domain.CurrencyMXN
	}
	if !currency.Valid() {
		errs.add("currency", "invalid currency")
	}
	pct := DefaultCommissionPercentage
	if req.CommissionPercentage != nil {
		pct = *req.CommissionPercentage
	}
	if pct < 0 || pct > 100 {
		errs.add("commission_percentage", "must be between 0 and 100")
	}
	stage := domain.DealStage(req.Stage)
	if stage != "" && !stage.Valid() {
		errs.add("stage", "invalid stage")
	}
	if err := errs.err(); err != nil {
		return err
	}

	deal.ContactID = req.ContactID
	deal.PropertyID = trimmed(req.PropertyID)
	deal.Title = title
	deal.EstimatedValue = req.EstimatedValue
	deal.Currency = currency
	deal.CommissionPercentage = pct
	deal.SplitWithBroker = req.SplitWithBroker
	deal.DocSignedContract = req.DocSignedContract
	deal.DocIdentification = req.DocIdentification
	deal.DocProofOfIncome = req.DocProofOfIncome
	deal.DocDeeds = req.DocDeeds
	deal.DocAppraisal = req.DocAppraisal
	deal.ExpectedCloseDate = req.ExpectedCloseDate
	deal.AssignedTo = trimmed(req.AssignedTo)
	if stage != "" {
		s.setStage(deal, stage)
	}

	deal.CommissionTotal, deal.CommissionPrimary, deal.CommissionSecondary = nil, nil, nil
	if deal.EstimatedValue != nil {
		split := utils.CalculateCommission(*deal.EstimatedValue, deal.CommissionPercentage, deal.SplitWithBroker)
		total, primary, secondary := split.Total.InexactFloat64(), split.Primary.InexactFloat64(), split.Secondary.InexactFloat64()
		deal.CommissionTotal, deal.CommissionPrimary, deal.CommissionSecondary = &total, &primary, &secondary
	}
	return nil
}
