package services

import (
	"context"
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/repositories"
	"github.com/AnthonyFclub/glor-crm/utils"
	"go.uber.org/zap"
)

// ContactService define las operaciones sobre los contactos del CRM
type ContactService interface {
	Create(ctx context.Context, userID string, req dto.ContactRequest) (*domain.Contact, error)
	Update(ctx context.Context, id, userID string, req dto.ContactRequest) (*domain.Contact, error)
	Get(ctx context.Context, id string) (*domain.Contact, error)
	Delete(ctx context.Context, id, userID string) error
	List(ctx context.Context, filter dto.ContactFilter) (*dto.PageResponse[domain.Contact], error)
	Export(ctx context.Context, filter dto.ContactFilter, w io.Writer) error
}

type contactService struct {
	repo      repositories.ContactRepository
	publisher EventPublisher
	logger    *zap.Logger
}

// NewContactService crea una nueva instancia del servicio
func NewContactService(repo repositories.ContactRepository, publisher EventPublisher, logger *zap.Logger) ContactService {
	return &contactService{repo: repo, publisher: publisher, logger: logger}
}

func (s *contactService) Create(ctx context.Context, userID string, req dto.ContactRequest) (*domain.Contact, error) {
	contact := &domain.Contact{CreatedBy: userID}
	if err := applyContactRequest(contact, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, "create", "contact", contact.ID, userID)
	return contact, nil
}

func (s *contactService) Update(ctx context.Context, id, userID string, req dto.ContactRequest) (*domain.Contact, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyContactRequest(contact, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, err
	}
	publish(ctx, s.publisher, s.logger, "update", "contact", contact.ID, userID)
	return contact, nil
}

func (s *contactService) Get(ctx context.Context, id string) (*domain.Contact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *contactService) Delete(ctx context.Context, id, userID string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	publish(ctx, s.publisher, s.logger, "delete", "contact", id, userID)
	return nil
}

func (s *contactService) List(ctx context.Context, filter dto.ContactFilter) (*dto.PageResponse[domain.Contact], error) {
	filter.Normalize()
	contacts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return dto.NewPage(contacts, total, filter.Pagination), nil
}

var exportHeader = []string{
	"full_name", "phone", "email", "company", "tag", "status", "lead_source",
	"budget_min", "budget_max", "currency", "interest_zone", "created_at",
}

// Export escribe en w los contactos filtrados como CSV, con encabezado
func (s *contactService) Export(ctx context.Context, filter dto.ContactFilter, w io.Writer) error {
	contacts, err := s.repo.ListAll(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, c := range contacts {
		currency := string(c.Currency)
		row := []string{
			c.FullName,
			utils.FormatPhone(c.Phone),
			deref(c.Email),
			deref(c.Company),
			string(c.Tag),
			string(c.Status),
			string(c.LeadSource),
			money(c.BudgetMin, currency),
			money(c.BudgetMax, currency),
			currency,
			deref(c.InterestZone),
			c.CreatedAt.Format(time.DateOnly),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// applyContactRequest valida la petición y la vuelca en el contacto
func applyContactRequest(c *domain.Contact, req dto.ContactRequest) error {
	errs := fieldErrors{}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		errs.add("full_name", "full name required")
	}
	if !utils.IsValidPhone(req.Phone) {
		errs.add("phone", "phone must have 10 or 12 digits")
	}
	email := trimmed(req.Email)
	if email != nil && !utils.IsValidEmail(*email) {
		errs.add("email", "invalid email")
	}

	tag := domain.ContactTag(req.Tag)
	if !tag.Valid() {
		errs.add("tag", "invalid tag")
	}
	status := domain.ContactStatus(req.Status)
	if status == "" {
		status = domain.ContactActive
	}
	if !status.Valid() {
		errs.add("status", "invalid status")
	}
	currency := domain.Currency(req.Currency)
	if currency == "" {
		currency = domain.CurrencyMXN
	}
	if !currency.Valid() {
		errs.add("currency", "invalid currency")
	}
	source := domain.LeadSource(req.LeadSource)
	if source == "" {
		source = domain.LeadOther
	}
	if !source.Valid() {
		errs.add("lead_source", "invalid lead source")
	}

	if req.BudgetMin != nil && *req.BudgetMin < 0 {
		errs.add("budget_min", "must not be negative")
	}
	if req.BudgetMax != nil && *req.BudgetMax < 0 {
		errs.add("budget_max", "must not be negative")
	}
	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		errs.add("budget_max", "must not be below budget_min")
	}
	if err := errs.err(); err != nil {
		return err
	}

	c.FullName = fullName
	c.Phone = digitsOnly(req.Phone)
	c.Email = email
	c.Company = trimmed(req.Company)
	c.CurrentAddress = trimmed(req.CurrentAddress)
	c.Tag = tag
	c.Status = status
	c.Birthday = req.Birthday
	c.Anniversary = req.Anniversary
	c.BudgetMin = req.BudgetMin
	c.BudgetMax = req.BudgetMax
	c.Currency = currency
	c.InterestZone = trimmed(req.InterestZone)
	c.PropertyTypeWanted = trimmed(req.PropertyTypeWanted)
	c.FinancingType = trimmed(req.FinancingType)
	c.PurchaseTimeline = trimmed(req.PurchaseTimeline)
	c.OwnedProperties = trimmed(req.OwnedProperties)
	c.LeadSource = source
	c.Notes = trimmed(req.Notes)
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func money(v *float64, currency string) string {
	if v == nil {
		return ""
	}
	return utils.FormatCurrency(*v, currency)
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
