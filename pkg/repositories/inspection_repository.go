package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
	"github.com/homewalk-hq/inspect-engine/pkg/database"
	"github.com/homewalk-hq/inspect-engine/pkg/models"
)

// InspectionRepository defines the interface for inspection data access.
type InspectionRepository interface {
	Create(ctx context.Context, inspection *models.Inspection) error
	Get(ctx context.Context, id uuid.UUID) (*models.Inspection, error)
	ListByHome(ctx context.Context, homeID uuid.UUID) ([]*models.Inspection, error)
	// MarkStarted stamps started_by_tenant_at once. Subsequent calls are
	// no-ops, so re-opening the walkthrough never moves the timestamp.
	MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error
	// Complete transitions active -> completed and stamps
	// completed_by_tenant_at. Returns ErrInvalidState if the inspection is
	// not currently active, which also rejects a second submission.
	Complete(ctx context.Context, id uuid.UUID, at time.Time) error
	// Deactivate transitions active -> inactive, invalidating the link.
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// inspectionRepository implements InspectionRepository using PostgreSQL.
type inspectionRepository struct {
	db *database.DB
}

// NewInspectionRepository creates a new inspection repository.
func NewInspectionRepository(db *database.DB) InspectionRepository {
	return &inspectionRepository{db: db}
}

// Create inserts a new inspection with status active unless set.
func (r *inspectionRepository) Create(ctx context.Context, inspection *models.Inspection) error {
	if inspection.ID == uuid.Nil {
		inspection.ID = uuid.New()
	}
	if inspection.CreatedAt.IsZero() {
		inspection.CreatedAt = time.Now()
	}
	if inspection.Status == "" {
		inspection.Status = models.InspectionStatusActive
	}

	query := `
		INSERT INTO inspections (id, home_id, owner_user_id, status, tenant_name, tenant_email, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		inspection.ID,
		inspection.HomeID,
		inspection.OwnerUserID,
		inspection.Status,
		inspection.TenantName,
		inspection.TenantEmail,
		inspection.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create inspection: %w", err)
	}

	return nil
}

// Get retrieves an inspection by ID.
func (r *inspectionRepository) Get(ctx context.Context, id uuid.UUID) (*models.Inspection, error) {
	query := `
		SELECT id, home_id, owner_user_id, status, tenant_name, tenant_email,
		       created_at, started_by_tenant_at, completed_by_tenant_at
		FROM inspections
		WHERE id = $1`

	var inspection models.Inspection
	err := r.db.QueryRow(ctx, query, id).Scan(
		&inspection.ID,
		&inspection.HomeID,
		&inspection.OwnerUserID,
		&inspection.Status,
		&inspection.TenantName,
		&inspection.TenantEmail,
		&inspection.CreatedAt,
		&inspection.StartedByTenantAt,
		&inspection.CompletedByTenantAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inspection: %w", err)
	}

	return &inspection, nil
}

// ListByHome retrieves all inspections issued for a home, newest first.
func (r *inspectionRepository) ListByHome(ctx context.Context, homeID uuid.UUID) ([]*models.Inspection, error) {
	query := `
		SELECT id, home_id, owner_user_id, status, tenant_name, tenant_email,
		       created_at, started_by_tenant_at, completed_by_tenant_at
		FROM inspections
		WHERE home_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, homeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	defer rows.Close()

	var inspections []*models.Inspection
	for rows.Next() {
		var inspection models.Inspection
		if err := rows.Scan(
			&inspection.ID,
			&inspection.HomeID,
			&inspection.OwnerUserID,
			&inspection.Status,
			&inspection.TenantName,
			&inspection.TenantEmail,
			&inspection.CreatedAt,
			&inspection.StartedByTenantAt,
			&inspection.CompletedByTenantAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", err)
		}
		inspections = append(inspections, &inspection)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read inspections: %w", err)
	}

	return inspections, nil
}

// MarkStarted stamps started_by_tenant_at if unset.
func (r *inspectionRepository) MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE inspections
		SET started_by_tenant_at = $2
		WHERE id = $1 AND started_by_tenant_at IS NULL`

	if _, err := r.db.Exec(ctx, query, id, at); err != nil {
		return fmt.Errorf("failed to mark inspection started: %w", err)
	}

	return nil
}

// Complete performs the guarded active -> completed transition.
func (r *inspectionRepository) Complete(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE inspections
		SET status = $2, completed_by_tenant_at = $3
		WHERE id = $1 AND status = $4`

	result, err := r.db.Exec(ctx, query, id,
		models.InspectionStatusCompleted, at, models.InspectionStatusActive)
	if err != nil {
		return fmt.Errorf("failed to complete inspection: %w", err)
	}

	if result.RowsAffected() == 0 {
		// Distinguish missing from already-terminal.
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return apperrors.ErrInvalidState
	}

	return nil
}

// Deactivate performs the guarded active -> inactive transition.
func (r *inspectionRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE inspections
		SET status = $2
		WHERE id = $1 AND status = $3`

	result, err := r.db.Exec(ctx, query, id,
		models.InspectionStatusInactive, models.InspectionStatusActive)
	if err != nil {
		return fmt.Errorf("failed to deactivate inspection: %w", err)
	}

	if result.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return apperrors.ErrInvalidState
	}

	return nil
}

// Ensure inspectionRepository implements InspectionRepository at compile time.
var _ InspectionRepository = (*inspectionRepository)(nil)
