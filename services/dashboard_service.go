package services

import (
	"context"
	"sort"
	"time"

	"github.com/AnthonyFclub/glor-crm/domain"
	"github.com/AnthonyFclub/glor-crm/dto"
	"github.com/AnthonyFclub/glor-crm/repositories"
	"github.com/AnthonyFclub/glor-crm/utils"
	"golang.org/x/sync/errgroup"
)

// UpcomingWindowDays es la ventana de cumpleaños, aniversarios y cierres próximos
const UpcomingWindowDays = 30

// DashboardService arma el resumen de la página principal
type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummary, error)
}

type dashboardService struct {
	contacts   repositories.ContactRepository
	deals      repositories.DealRepository
	activities repositories.ActivityRepository
	now        func() time.Time
}

// NewDashboardService crea una nueva instancia del servicio
func NewDashboardService(contacts repositories.ContactRepository, deals repositories.DealRepository,
	activities repositories.ActivityRepository) DashboardService {
	return &dashboardService{
		contacts:   contacts,
		deals:      deals,
		activities: activities,
		now:        time.Now,
	}
}

// Summary lanza las consultas en paralelo; el primer error cancela el resto
func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardSummary, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var (
		summary   dto.DashboardSummary
		deals     []domain.Deal
		withDates []domain.Contact
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.Metrics.TotalContacts, err = s.contacts.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		summary.Metrics.ActiveDeals, err = s.deals.CountActive(ctx)
		return err
	})
	g.Go(func() (err error) {
		summary.Metrics.RevenueMonth, err = s.deals.CommissionBetween(ctx, monthStart, monthStart.AddDate(0, 1, 0))
		return err
	})
	g.Go(func() (err error) {
		summary.Metrics.PendingFollowUps, err = s.activities.CountPendingFollowUps(ctx, now)
		return err
	})
	g.Go(func() (err error) {
		deals, err = s.deals.ListByStages(ctx, domain.PipelineStages)
		return err
	})
	g.Go(func() (err error) {
		withDates, err = s.contacts.WithDates(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	summary.Pipeline = pipelineSummary(deals, now)
	summary.Metrics.ClosingSoon = closingSoon(deals, now)
	summary.Upcoming = upcomingEvents(withDates, now)
	return &summary, nil
}

// pipelineSummary resume cada etapa en el orden del pipeline
func pipelineSummary(deals []domain.Deal, now time.Time) []dto.PipelineSummary {
	byStage := make(map[domain.DealStage]*dto.PipelineSummary, len(domain.PipelineStages))
	days := make(map[domain.DealStage]int, len(domain.PipelineStages))
	out := make([]dto.PipelineSummary, len(domain.PipelineStages))
	for i, stage := range domain.PipelineStages {
		out[i] = dto.PipelineSummary{Stage: string(stage)}
		byStage[stage] = &out[i]
	}

	for _, d := range deals {
		row, ok := byStage[d.Stage]
		if !ok {
			continue
		}
		row.DealCount++
		if d.EstimatedValue != nil {
			row.TotalValue += *d.EstimatedValue
		}
		days[d.Stage] += utils.DaysBetween(d.StageEnteredAt, now)
	}

	for stage, row := range byStage {
		if row.DealCount > 0 {
			row.AvgDaysInStage = float64(days[stage]) / float64(row.DealCount)
		}
	}
	return out
}

// closingSoon cuenta los deals abiertos con cierre esperado dentro de la ventana
func closingSoon(deals []domain.Deal, now time.Time) int64 {
	var n int64
	for _, d := range deals {
		if d.Stage.Active() && d.ExpectedCloseDate != nil && utils.IsUpcoming(*d.ExpectedCloseDate, now, UpcomingWindowDays) {
			n++
		}
	}
	return n
}

// upcomingEvents devuelve cumpleaños y aniversarios de los próximos días, el más cercano primero
func upcomingEvents(contacts []domain.Contact, now time.Time) []dto.UpcomingEvent {
	events := []dto.UpcomingEvent{}
	add := func(kind string, c domain.Contact, date *time.Time) {
		if date == nil {
			return
		}
		next, days := utils.NextAnniversary(*date, now)
		if days > UpcomingWindowDays {
			return
		}
		events = append(events, dto.UpcomingEvent{
			Kind:      kind,
			ContactID: c.ID,
			FullName:  c.FullName,
			Initials:  utils.Initials(c.FullName),
			Date:      next,
			DaysUntil: days,
		})
	}

	for _, c := range contacts {
		add("birthday", c, c.Birthday)
		add("anniversary", c, c.Anniversary)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].DaysUntil != events[j].DaysUntil {
			return events[i].DaysUntil < events[j].DaysUntil
		}
		return events[i].FullName < events[j].FullName
	})
	return events
}
