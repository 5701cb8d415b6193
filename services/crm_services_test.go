package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strPtr(s string) *string        { return &s }
func floatPtr(f float64) *float64    { return &f }
func timePtr(t time.Time) *time.Time { return &t }

func TestContactService_CreateNormalizes(t *testing.T) {
	repo := newMockContactRepository()
	publisher := &recordingPublisher{}
	svc := NewContactService(repo, publisher, zap.NewNop())

	contact, err := svc.Create(context.Background(), "u-1", dto.ContactRequest{
		FullName: "  María Pérez ",
		Phone:    "(998) 123-4567",
		Email:    strPtr(" "),
		Tag:      "buyer",
	})
	require.NoError(t, err)
	assert.Equal(t, "María Pérez", contact.FullName)
	assert.Equal(t, "9981234567", contact.Phone)
	assert.Nil(t, contact.Email)
	assert.Equal(t, domain.ContactActive, contact.Status)
	assert.Equal(t, domain.CurrencyMXN, contact.Currency)
	assert.Equal(t, domain.LeadOther, contact.LeadSource)
	assert.Equal(t, "u-1", contact.CreatedBy)
	assert.Len(t, publisher.Events(), 1)
}

func TestContactService_Validation(t *testing.T) {
	svc := NewContactService(newMockContactRepository(), &recordingPublisher{}, zap.NewNop())

	_, err := svc.Create(context.Background(), "u-1", dto.ContactRequest{
		Phone:     "123",
		Email:     strPtr("no-es-email"),
		Tag:       "friend",
		Currency:  "EUR",
		BudgetMin: floatPtr(5_000_000),
		BudgetMax: floatPtr(1_000_000),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"full_name", "phone", "email", "tag", "currency", "budget_max"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestContactService_Export(t *testing.T) {
	repo := newMockContactRepository()
	repo.add(domain.Contact{
		FullName:   "María Pérez",
		Phone:      "9981234567",
		Email:      strPtr("maria@correo.mx"),
		Tag:        domain.ContactBuyer,
		Status:     domain.ContactActive,
		LeadSource: domain.LeadReferral,
		BudgetMax:  floatPtr(2500000),
		Currency:   domain.CurrencyMXN,
		CreatedAt:  time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	})
	svc := NewContactService(repo, &recordingPublisher{}, zap.NewNop())

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), dto.ContactFilter{}, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, []string{
		"María Pérez", "(998) 123-4567", "maria@correo.mx", "", "buyer", "active", "referral",
		"", "$2,500,000", "MXN", "", "2026-10-01",
	}, rows[1])
}

func TestDealService_CreateComputesCommission(t *testing.T) {
	contacts := newMockContactRepository()
	contact := contacts.add(domain.Contact{FullName: "María"})
	deals := newMockDealRepository()
	svc := NewDealService(deals, contacts, &recordingPublisher{}, zap.NewNop())

	deal, err := svc.Create(context.Background(), "u-1", dto.DealRequest{
		ContactID:            contact.ID,
		Title:                "Venta casa Tulum",
		EstimatedValue:       floatPtr(2_000_000),
		CommissionPercentage: floatPtr(5),
		SplitWithBroker:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StageInitialContact, deal.Stage)
	require.NotNil(t, deal.CommissionTotal)
	assert.Equal(t, 50_000.0, *deal.CommissionTotal)
	assert.Equal(t, 15_000.0, *deal.CommissionPrimary)
	assert.Equal(t, 35_000.0, *deal.CommissionSecondary)
}

func TestDealService_CreateUnknownContact(t *testing.T) {
	svc := NewDealService(newMockDealRepository(), newMockContactRepository(), &recordingPublisher{}, zap.NewNop())

	_, err := svc.Create(context.Background(), "u-1", dto.DealRequest{ContactID: "missing", Title: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDealService_MoveStage(t *testing.T) {
	contacts := newMockContactRepository()
	contact := contacts.add(domain.Contact{FullName: "María"})
	deals := newMockDealRepository()
	publisher := &recordingPublisher{}
	svc := NewDealService(deals, contacts, publisher, zap.NewNop()).(*dealService)

	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }
	deal, err := svc.Create(context.Background(), "u-1", dto.DealRequest{ContactID: contact.ID, Title: "Renta depto"})
	require.NoError(t, err)

	later := start.Add(72 * time.Hour)
	svc.now = func() time.Time { return later }
	deal, err = svc.MoveStage(context.Background(), deal.ID, "u-1", domain.StageClosed)
	require.NoError(t, err)
	assert.Equal(t, domain.StageClosed, deal.Stage)
	assert.Equal(t, later, deal.StageEnteredAt)
	require.NotNil(t, deal.ActualCloseDate)
	assert.Equal(t, later, *deal.ActualCloseDate)

	// Reabrir limpia la fecha de cierre
	deal, err = svc.MoveStage(context.Background(), deal.ID, "u-1", domain.StageReserved)
	require.NoError(t, err)
	assert.Nil(t, deal.ActualCloseDate)

	_, err = svc.MoveStage(context.Background(), deal.ID, "u-1", "archived")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Len(t, publisher.Events(), 3)
}

func TestDealService_Board(t *testing.T) {
	deals := newMockDealRepository()
	deals.deals["d1"] = &domain.Deal{ID: "d1", Stage: domain.StageQualified}
	svc := NewDealService(deals, newMockContactRepository(), &recordingPublisher{}, zap.NewNop())

	board, err := svc.Board(context.Background())
	require.NoError(t, err)
	assert.Len(t, board, len(domain.PipelineStages))
	assert.Len(t, board[domain.StageQualified], 1)
	assert.Empty(t, board[domain.StageClosed])
}

func TestActivityService_Create(t *testing.T) {
	contacts := newMockContactRepository()
	contact := contacts.add(domain.Contact{FullName: "María"})
	svc := NewActivityService(newMockActivityRepository(), contacts, &recordingPublisher{}, zap.NewNop())

	occurred := time.Date(2026, 10, 10, 10, 0, 0, 0, time.UTC)
	activity, err := svc.Create(context.Background(), "u-1", dto.ActivityRequest{
		ContactID:    contact.ID,
		Kind:         "showing",
		Description:  "Visita a la casa de Tulum",
		Outcome:      strPtr("positive"),
		OccurredAt:   &occurred,
		NextFollowUp: timePtr(occurred.AddDate(0, 0, 3)),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ActivityShowing, activity.Kind)
	require.NotNil(t, activity.Outcome)
	assert.Equal(t, domain.OutcomePositive, *activity.Outcome)
	assert.Equal(t, "u-1", activity.CreatedBy)
}

func TestActivityService_Validation(t *testing.T) {
	contacts := newMockContactRepository()
	contact := contacts.add(domain.Contact{FullName: "María"})
	svc := NewActivityService(newMockActivityRepository(), contacts, &recordingPublisher{}, zap.NewNop())

	occurred := time.Date(2026, 10, 10, 10, 0, 0, 0, time.UTC)
	_, err := svc.Create(context.Background(), "u-1", dto.ActivityRequest{
		ContactID:    contact.ID,
		Kind:         "fax",
		Outcome:      strPtr("maybe"),
		OccurredAt:   &occurred,
		NextFollowUp: timePtr(occurred.AddDate(0, 0, -1)),
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"kind", "description", "outcome", "next_follow_up"} {
		assert.Contains(t, verr.Fields, field)
	}
}

func TestPropertyService_ListRejectsUnknownFilters(t *testing.T) {
	svc := NewPropertyService(newMockPropertyRepository(), &recordingPublisher{}, zap.NewNop())

	_, err := svc.List(context.Background(), dto.PropertyFilter{Status: "demolished"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestPropertyService_ListAndDelete(t *testing.T) {
	repo := newMockPropertyRepository()
	publisher := &recordingPublisher{}
	svc := NewPropertyService(repo, publisher, zap.NewNop())
	p := &domain.Property{Title: "Casa", Status: domain.PropertyAvailable}
	require.NoError(t, repo.Create(context.Background(), p))

	page, err := svc.List(context.Background(), dto.PropertyFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, dto.DefaultPageSize, page.PageSize)
	assert.Equal(t, 1, page.TotalPages)

	require.NoError(t, svc.Delete(context.Background(), p.ID, "u-1"))
	assert.ErrorIs(t, svc.Delete(context.Background(), p.ID, "u-1"), ErrNotFound)
	assert.Equal(t, []domain.EntityEvent{{Action: "delete", Entity: "property", EntityID: p.ID, UserID: "u-1"}}, publisher.Events())
}

func TestDashboardService_Summary(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	contacts := newMockContactRepository()
	contacts.add(domain.Contact{FullName: "Beto", Birthday: timePtr(time.Date(1990, 10, 25, 0, 0, 0, 0, time.UTC))})
	contacts.add(domain.Contact{FullName: "Ana", Anniversary: timePtr(time.Date(2015, 10, 19, 0, 0, 0, 0, time.UTC))})
	contacts.add(domain.Contact{FullName: "Carla", Birthday: timePtr(time.Date(1985, 3, 1, 0, 0, 0, 0, time.UTC))})

	deals := newMockDealRepository()
	deals.revenue = 42_000
	deals.deals["d1"] = &domain.Deal{ID: "d1", Stage: domain.StageQualified, EstimatedValue: floatPtr(1_000_000), StageEnteredAt: now.AddDate(0, 0, -4),
		ExpectedCloseDate: timePtr(now.AddDate(0, 0, 10))}
	deals.deals["d2"] = &domain.Deal{ID: "d2", Stage: domain.StageQualified, EstimatedValue: floatPtr(500_000), StageEnteredAt: now.AddDate(0, 0, -2)}
	deals.deals["d3"] = &domain.Deal{ID: "d3", Stage: domain.StageLost, StageEnteredAt: now, ExpectedCloseDate: timePtr(now.AddDate(0, 0, 5))}

	activities := newMockActivityRepository()
	activities.pending = 3

	svc := NewDashboardService(contacts, deals, activities).(*dashboardService)
	svc.now = func() time.Time { return now }

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, dto.DashboardMetrics{
		TotalContacts:    3,
		ActiveDeals:      2,
		RevenueMonth:     42_000,
		PendingFollowUps: 3,
		ClosingSoon:      1,
	}, summary.Metrics)

	require.Len(t, summary.Pipeline, len(domain.PipelineStages))
	qualified := summary.Pipeline[1]
	assert.Equal(t, "qualified", qualified.Stage)
	assert.Equal(t, 2, qualified.DealCount)
	assert.Equal(t, 1_500_000.0, qualified.TotalValue)
	assert.Equal(t, 3.0, qualified.AvgDaysInStage)

	require.Len(t, summary.Upcoming, 2)
	assert.Equal(t, "Ana", summary.Upcoming[0].FullName)
	assert.Equal(t, "anniversary", summary.Upcoming[0].Kind)
	assert.Equal(t, "A", summary.Upcoming[0].Initials)
	assert.Equal(t, 0, summary.Upcoming[0].DaysUntil)
	assert.Equal(t, "Beto", summary.Upcoming[1].FullName)
	assert.Equal(t, 6, summary.Upcoming[1].DaysUntil)
}
