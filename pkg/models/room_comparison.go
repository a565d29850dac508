package models

import (
	"time"

	"github.com/google/uuid"
)

// ComparisonEvent is one upload-and-AI-analysis attempt for a room within
// an inspection. Events are append-only; the UI surfaces the last element.
type ComparisonEvent struct {
	UploadedImageURLs  []string  `json:"uploaded_image_urls"`
	AIComparisonResult string    `json:"ai_comparison_result"`
	Timestamp          time.Time `json:"timestamp"`
}

// RoomComparison holds all comparison attempts for one room within one
// inspection. Keyed by (inspection, room); created on first write with
// merge semantics so revisiting a room appends rather than overwrites.
type RoomComparison struct {
	InspectionID       uuid.UUID         `json:"inspection_id"`
	RoomID             uuid.UUID         `json:"room_id"`
	RoomName           string            `json:"room_name"`
	ReferenceImageURLs []string          `json:"reference_image_urls"`
	ComparisonEvents   []ComparisonEvent `json:"comparison_events"`
}

// LatestEvent returns the most recently appended event, or nil if the room
// has never been compared.
func (rc *RoomComparison) LatestEvent() *ComparisonEvent {
	if len(rc.ComparisonEvents) == 0 {
		return nil
	}
	return &rc.ComparisonEvents[len(rc.ComparisonEvents)-1]
}
