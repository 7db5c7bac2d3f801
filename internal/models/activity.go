package model

import (
	"encoding/json"
	"time"
)

// ActivityLog est une entrée lisible du fil d'activité
type ActivityLog struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"userId,omitempty"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuditLog est une entrée structurée du journal d'audit avec
// instantané avant/après de l'état touché
type AuditLog struct {
	ID         string          `json:"id"`
	ActorID    *string         `json:"actorId,omitempty"`
	Action     string          `json:"action"`
	EntityType string          `json:"entityType"`
	EntityID   *string         `json:"entityId,omitempty"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}
