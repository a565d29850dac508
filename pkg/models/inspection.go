package models

import (
	"time"

	"github.com/google/uuid"
)

// Inspection status values. Transitions only move forward:
// active -> completed (tenant submits) or active -> inactive (owner
// invalidates the link).
const (
	InspectionStatusActive    = "active"
	InspectionStatusCompleted = "completed"
	InspectionStatusInactive  = "inactive"
)

// Inspection is a tenant-facing walkthrough session scoped to one Home.
// Many inspections may exist per home; each shareable link is an
// independent session.
type Inspection struct {
	ID                  uuid.UUID  `json:"id"`
	HomeID              uuid.UUID  `json:"home_id"`
	OwnerUserID         string     `json:"owner_user_id"`
	Status              string     `json:"status"`
	TenantName          string     `json:"tenant_name,omitempty"`
	TenantEmail         string     `json:"tenant_email,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	StartedByTenantAt   *time.Time `json:"started_by_tenant_at,omitempty"`
	CompletedByTenantAt *time.Time `json:"completed_by_tenant_at,omitempty"`
}

// IsActive reports whether the inspection link can still be walked through.
func (i *Inspection) IsActive() bool {
	return i.Status == InspectionStatusActive
}
