package dto

import "time"

// DashboardMetrics son los KPIs de la página principal
type DashboardMetrics struct {
	TotalContacts    int64   `json:"total_contacts"`
	ActiveDeals      int64   `json:"active_deals"`
	RevenueMonth     float64 `json:"revenue_month"`
	PendingFollowUps int64   `json:"pending_follow_ups"`
	ClosingSoon      int64   `json:"closing_soon"`
}

// PipelineSummary resume una etapa del pipeline
type PipelineSummary struct {
	Stage          string  `json:"stage"`
	DealCount      int     `json:"deal_count"`
	TotalValue     float64 `json:"total_value"`
	AvgDaysInStage float64 `json:"avg_days_in_stage"`
}

// UpcomingEvent es un cumpleaños o aniversario próximo
type UpcomingEvent struct {
	Kind      string    `json:"kind"` // "birthday", "anniversary"
	ContactID string    `json:"contact_id"`
	FullName  string    `json:"full_name"`
	Initials  string    `json:"initials"`
	Date      time.Time `json:"date"`
	DaysUntil int       `json:"days_until"`
}

// DashboardSummary es la respuesta completa del dashboard
type DashboardSummary struct {
	Metrics  DashboardMetrics  `json:"metrics"`
	Pipeline []PipelineSummary `json:"pipeline"`
	Upcoming []UpcomingEvent   `json:"upcoming"`
}
