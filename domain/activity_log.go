package domain

import "time"

// EntityEvent es el mensaje que viaja por la cola cuando cambia un registro
type EntityEvent struct {
	Action   string `json:"action"` // "create", "update", "delete"
	Entity   string `json:"entity"` // "property", "contact", "deal", "activity"
	EntityID string `json:"entity_id"`
	UserID   string `json:"user_id,omitempty"`
}

// ActivityLog es la entrada de auditoría guardada en Mongo
type ActivityLog struct {
	ID        string         `bson:"_id" json:"id"`
	UserID    string         `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Action    string         `bson:"action" json:"action"`
	Entity    string         `bson:"entity" json:"entity"`
	EntityID  string         `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	Details   map[string]any `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}
