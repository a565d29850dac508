package models

import (
	"time"

	"github.com/google/uuid"
)

// Room represents a named space within a Home. ReferenceImages is the
// ordered "before" photo set captured at creation; the inspection flow
// treats it as ground truth and never mutates it.
type Room struct {
	ID              uuid.UUID `json:"id"`
	HomeID          uuid.UUID `json:"home_id"`
	Name            string    `json:"name"`
	ReferenceImages []string  `json:"reference_images"`
	InitialItemList string    `json:"initial_item_list,omitempty"`
	UserID          string    `json:"user_id"`
	CreatedAt       time.Time `json:"created_at"`
}
