package repositories

import (
	"context"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"gorm.io/gorm"
)

// DealRepository define las operaciones sobre el pipeline de ventas
type DealRepository interface {
	Create(ctx context.Context, deal *domain.Deal) error
	Update(ctx context.Context, deal *domain.Deal) error
	GetByID(ctx context.Context, id string) (*domain.Deal, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter dto.DealFilter) ([]domain.Deal, int64, error)
	ListByStages(ctx context.Context, stages []domain.DealStage) ([]domain.Deal, error)
	CountActive(ctx context.Context) (int64, error)
	CommissionBetween(ctx context.Context, from, to time.Time) (float64, error)
}

type dealRepository struct {
	db *gorm.DB
}

// NewDealRepository crea el repositorio de deals
func NewDealRepository(db *gorm.DB) DealRepository {
	return &dealRepository{db: db}
}

func (r *dealRepository) Create(ctx context.Context, deal *domain.Deal) error {
	return r.db.WithContext(ctx).Create(deal).Error
}

func (r *dealRepository) Update(ctx context.Context, deal *domain.Deal) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Deal{ID: deal.ID}).
		Select("*").
		Omit("id", "created_by", "created_at").
		Updates(deal)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "deal", deal.ID)
	}
	return nil
}

func (r *dealRepository) GetByID(ctx context.Context, id string) (*domain.Deal, error) {
	var deal domain.Deal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&deal).Error; err != nil {
		return nil, notFound(err, "deal", id)
	}
	return &deal, nil
}

func (r *dealRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Deal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "deal", id)
	}
	return nil
}

func (r *dealRepository) List(ctx context.Context, filter dto.DealFilter) ([]domain.Deal, int64, error) {
	filter.Normalize()

	var total int64
	query := applyDealFilter(r.db.WithContext(ctx).Model(&domain.Deal{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deals []domain.Deal
	err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&deals).Error
	return deals, total, err
}

// ListByStages trae todos los deals de las etapas indicadas (tablero y resumen)
func (r *dealRepository) ListByStages(ctx context.Context, stages []domain.DealStage) ([]domain.Deal, error) {
	var deals []domain.Deal
	err := r.db.WithContext(ctx).
		Where("stage IN ?", stages).
		Order("stage_entered_at").
		Find(&deals).Error
	return deals, err
}

func (r *dealRepository) CountActive(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.Deal{}).
		Where("stage NOT IN ?", []domain.DealStage{domain.StageClosed, domain.StageLost}).
		Count(&total).Error
	return total, err
}

// CommissionBetween suma la comisión total de los deals cerrados en [from, to)
func (r *dealRepository) CommissionBetween(ctx context.Context, from, to time.Time) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&domain.Deal{}).
		Select("COALESCE(SUM(commission_total), 0)").
		Where("stage = ? AND actual_close_date >= ? AND actual_close_date < ?", domain.StageClosed, from, to).
		Scan(&sum).Error
	return sum, err
}

func applyDealFilter(tx *gorm.DB, f dto.DealFilter) *gorm.DB {
	if len(f.Stages) > 0 {
		tx = tx.Where("stage IN ?", f.Stages)
	}
	if f.AssignedTo != "" {
		tx = tx.Where("assigned_to = ?", f.AssignedTo)
	}
	if f.From != nil {
		tx = tx.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("created_at < ?", f.To.AddDate(0, 0, 1))
	}
	return tx
}
