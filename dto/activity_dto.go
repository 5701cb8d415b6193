package dto

import "time"

// ActivityRequest registra una actividad con un contacto
type ActivityRequest struct {
	ContactID    string     `json:"contact_id" binding:"required"`
	DealID       *string    `json:"deal_id"`
	Kind         string     `json:"kind" binding:"required"`
	Description  string     `json:"description" binding:"required"`
	Outcome      *string    `json:"outcome"`
	OccurredAt   *time.Time `json:"occurred_at"`
	NextFollowUp *time.Time `json:"next_follow_up"`
}

// ActivityFilter son los filtros del listado de actividades
type ActivityFilter struct {
	ContactID string     `form:"contact_id"`
	DealID    string     `form:"deal_id"`
	Kinds     []string   `form:"kind"`
	UserID    string     `form:"user_id"`
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Pagination
}
