// Package models contains domain types for inspect-engine.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Home represents a property owned by an authenticated user.
type Home struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
