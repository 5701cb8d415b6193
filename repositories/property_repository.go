package repositories

import (
	"context"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"gorm.io/gorm"
)

// PropertyRepository es el almacén de inmuebles. Create y Update son el
// lado de escritura que usa el asistente.
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	Update(ctx context.Context, property *domain.Property) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter dto.PropertyFilter) ([]domain.Property, int64, error)
}

type propertyRepository struct {
	db *gorm.DB
}

// NewPropertyRepository crea el repositorio de propiedades
func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

// Update escribe todas las columnas, incluidos los nil, para que un campo
// vaciado en el asistente quede en NULL. El dueño y la fecha de alta no cambian.
func (r *propertyRepository) Update(ctx context.Context, property *domain.Property) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Property{ID: property.ID}).
		Select("*").
		Omit("id", "user_id", "created_at").
		Updates(property)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "property", property.ID)
	}
	return nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	var property domain.Property
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&property).Error; err != nil {
		return nil, notFound(err, "property", id)
	}
	return &property, nil
}

func (r *propertyRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Property{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "property", id)
	}
	return nil
}

// List devuelve una página de propiedades, las más recientes primero
func (r *propertyRepository) List(ctx context.Context, filter dto.PropertyFilter) ([]domain.Property, int64, error) {
	filter.Normalize()

	var total int64
	query := applyPropertyFilter(r.db.WithContext(ctx).Model(&domain.Property{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var properties []domain.Property
	err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&properties).Error
	return properties, total, err
}

func applyPropertyFilter(tx *gorm.DB, f dto.PropertyFilter) *gorm.DB {
	if f.Search != "" {
		pattern := likePattern(f.Search)
		tx = tx.Where("(LOWER(title) LIKE ? OR LOWER(city) LIKE ? OR LOWER(neighborhood) LIKE ?)",
			pattern, pattern, pattern)
	}
	if f.Status != "" {
		tx = tx.Where("status = ?", f.Status)
	}
	if f.PropertyType != "" {
		tx = tx.Where("property_type = ?", f.PropertyType)
	}
	if f.OperationType != "" {
		tx = tx.Where("operation_type = ?", f.OperationType)
	}
	return tx
}
