package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
	"github.com/homewalk-hq/inspect-engine/pkg/database"
	"github.com/homewalk-hq/inspect-engine/pkg/models"
)

// RoomComparisonRepository defines the interface for per-room comparison
// documents within an inspection.
type RoomComparisonRepository interface {
	// AppendEvent appends one comparison event to the (inspection, room)
	// document, creating it on first write. Existing events are preserved:
	// the append is a single-statement jsonb concatenation, so prior
	// events are never removed or reordered.
	AppendEvent(ctx context.Context, comparison *models.RoomComparison, event *models.ComparisonEvent) error
	Get(ctx context.Context, inspectionID, roomID uuid.UUID) (*models.RoomComparison, error)
	// ListRoomIDs returns the ids of rooms that have at least one
	// comparison event for the inspection.
	ListRoomIDs(ctx context.Context, inspectionID uuid.UUID) ([]uuid.UUID, error)
	// CountByInspection returns how many rooms have been compared at least
	// once for the inspection.
	CountByInspection(ctx context.Context, inspectionID uuid.UUID) (int, error)
}

// roomComparisonRepository implements RoomComparisonRepository using PostgreSQL.
type roomComparisonRepository struct {
	db *database.DB
}

// NewRoomComparisonRepository creates a new room comparison repository.
func NewRoomComparisonRepository(db *database.DB) RoomComparisonRepository {
	return &roomComparisonRepository{db: db}
}

// AppendEvent upserts the document and appends the event atomically.
func (r *roomComparisonRepository) AppendEvent(ctx context.Context, comparison *models.RoomComparison, event *models.ComparisonEvent) error {
	refs := comparison.ReferenceImageURLs
	if refs == nil {
		refs = []string{}
	}
	refsJSON, err := json.Marshal(refs)
	if err != nil {
		return fmt.Errorf("failed to marshal reference image urls: %w", err)
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal comparison event: %w", err)
	}

	query := `
		INSERT INTO room_comparisons (inspection_id, room_id, room_name, reference_image_urls, comparison_events)
		VALUES ($1, $2, $3, $4, jsonb_build_array($5::jsonb))
		ON CONFLICT (inspection_id, room_id) DO UPDATE
		SET room_name = EXCLUDED.room_name,
		    reference_image_urls = EXCLUDED.reference_image_urls,
		    comparison_events = room_comparisons.comparison_events || $5::jsonb`

	_, err = r.db.Exec(ctx, query,
		comparison.InspectionID,
		comparison.RoomID,
		comparison.RoomName,
		refsJSON,
		eventJSON,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrPersistFailed, err)
	}

	return nil
}

// Get retrieves the comparison document for (inspection, room).
func (r *roomComparisonRepository) Get(ctx context.Context, inspectionID, roomID uuid.UUID) (*models.RoomComparison, error) {
	query := `
		SELECT inspection_id, room_id, room_name, reference_image_urls, comparison_events
		FROM room_comparisons
		WHERE inspection_id = $1 AND room_id = $2`

	var comparison models.RoomComparison
	var refs, events []byte

	err := r.db.QueryRow(ctx, query, inspectionID, roomID).Scan(
		&comparison.InspectionID,
		&comparison.RoomID,
		&comparison.RoomName,
		&refs,
		&events,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room comparison: %w", err)
	}

	if err := json.Unmarshal(refs, &comparison.ReferenceImageURLs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reference image urls: %w", err)
	}
	if err := json.Unmarshal(events, &comparison.ComparisonEvents); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comparison events: %w", err)
	}

	return &comparison, nil
}

// ListRoomIDs returns the ids of already-compared rooms for an inspection.
func (r *roomComparisonRepository) ListRoomIDs(ctx context.Context, inspectionID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT room_id
		FROM room_comparisons
		WHERE inspection_id = $1`

	rows, err := r.db.Query(ctx, query, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list compared rooms: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan room id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read compared rooms: %w", err)
	}

	return ids, nil
}

// CountByInspection returns the number of compared rooms for an inspection.
func (r *roomComparisonRepository) CountByInspection(ctx context.Context, inspectionID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM room_comparisons WHERE inspection_id = $1`,
		inspectionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count room comparisons: %w", err)
	}

	return count, nil
}

// Ensure roomComparisonRepository implements RoomComparisonRepository at compile time.
var _ RoomComparisonRepository = (*roomComparisonRepository)(nil)
