package repositories

import (
	"context"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"gorm.io/gorm"
)

// ActivityRepository define las operaciones sobre el historial de interacciones
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	Update(ctx context.Context, activity *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter dto.ActivityFilter) ([]domain.Activity, int64, error)
	CountPendingFollowUps(ctx context.Context, until time.Time) (int64, error)
}

type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository crea el repositorio de actividades
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

func (r *activityRepository) Update(ctx context.Context, activity *domain.Activity) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Activity{ID: activity.ID}).
		Select("*").
		Omit("id", "created_by", "created_at").
		Updates(activity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "activity", activity.ID)
	}
	return nil
}

func (r *activityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	var activity domain.Activity
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&activity).Error; err != nil {
		return nil, notFound(err, "activity", id)
	}
	return &activity, nil
}

func (r *activityRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Activity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "activity", id)
	}
	return nil
}

func (r *activityRepository) List(ctx context.Context, filter dto.ActivityFilter) ([]domain.Activity, int64, error) {
	filter.Normalize()

	var total int64
	query := applyActivityFilter(r.db.WithContext(ctx).Model(&domain.Activity{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []domain.Activity
	err := query.
		Order("occurred_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&activities).Error
	return activities, total, err
}

// CountPendingFollowUps cuenta los seguimientos agendados hasta until
func (r *activityRepository) CountPendingFollowUps(ctx context.Context, until time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.Activity{}).
		Where("next_follow_up IS NOT NULL AND next_follow_up <= ?", until).
		Count(&total).Error
	return total, err
}

func applyActivityFilter(tx *gorm.DB, f dto.ActivityFilter) *gorm.DB {
	if f.ContactID != "" {
		tx = tx.Where("contact_id = ?", f.ContactID)
	}
	if f.DealID != "" {
		tx = tx.Where("deal_id = ?", f.DealID)
	}
	if len(f.Kinds) > 0 {
		tx = tx.Where("kind IN ?", f.Kinds)
	}
	if f.UserID != "" {
		tx = tx.Where("created_by = ?", f.UserID)
	}
	if f.From != nil {
		tx = tx.Where("occurred_at >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("occurred_at < ?", f.To.AddDate(0, 0, 1))
	}
	return tx
}
