package repositories

import (
	"context"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"gorm.io/gorm"
)

// ContactRepository define las operaciones sobre los contactos
type ContactRepository interface {
	Create(ctx context.Context, contact *domain.Contact) error
	Update(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, id string) (*domain.Contact, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter dto.ContactFilter) ([]domain.Contact, int64, error)
	ListAll(ctx context.Context, filter dto.ContactFilter) ([]domain.Contact, error)
	Count(ctx context.Context) (int64, error)
	WithDates(ctx context.Context) ([]domain.Contact, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository crea el repositorio de contactos
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Contact{ID: contact.ID}).
		Select("*").
		Omit("id", "created_by", "created_at", "deleted_at").
		Updates(contact)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "contact", contact.ID)
	}
	return nil
}

func (r *contactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	var contact domain.Contact
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error; err != nil {
		return nil, notFound(err, "contact", id)
	}
	return &contact, nil
}

// Delete es un borrado lógico (deleted_at)
func (r *contactRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "contact", id)
	}
	return nil
}

func (r *contactRepository) List(ctx context.Context, filter dto.ContactFilter) ([]domain.Contact, int64, error) {
	filter.Normalize()

	var total int64
	query := applyContactFilter(r.db.WithContext(ctx).Model(&domain.Contact{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []domain.Contact
	err := query.
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.PageSize).
		Find(&contacts).Error
	return contacts, total, err
}

// ListAll devuelve todos los contactos que cumplen el filtro, sin paginar (exportación)
func (r *contactRepository) ListAll(ctx context.Context, filter dto.ContactFilter) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := applyContactFilter(r.db.WithContext(ctx).Model(&domain.Contact{}), filter).
		Order("full_name").
		Find(&contacts).Error
	return contacts, err
}

func (r *contactRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Contact{}).Count(&total).Error
	return total, err
}

// WithDates trae los contactos con cumpleaños o aniversario cargado
func (r *contactRepository) WithDates(ctx context.Context) ([]domain.Contact, error) {
	var contacts []domain.Contact
	err := r.db.WithContext(ctx).
		Where("birthday IS NOT NULL OR anniversary IS NOT NULL").
		Find(&contacts).Error
	return contacts, err
}

func applyContactFilter(tx *gorm.DB, f dto.ContactFilter) *gorm.DB {
	if f.Search != "" {
		pattern := likePattern(f.Search)
		tx = tx.Where("(LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?)",
			pattern, pattern, pattern)
	}
	if len(f.Tags) > 0 {
		tx = tx.Where("tag IN ?", f.Tags)
	}
	if len(f.Statuses) > 0 {
		tx = tx.Where("status IN ?", f.Statuses)
	}
	if len(f.LeadSources) > 0 {
		tx = tx.Where("lead_source IN ?", f.LeadSources)
	}
	if f.From != nil {
		tx = tx.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		tx = tx.Where("created_at < ?", f.To.AddDate(0, 0, 1))
	}
	return tx
}
