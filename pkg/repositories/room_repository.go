package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
	"github.com/homewalk-hq/inspect-engine/pkg/database"
	"github.com/homewalk-hq/inspect-engine/pkg/models"
)

// RoomRepository defines the interface for room data access.
type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	Get(ctx context.Context, id uuid.UUID) (*models.Room, error)
	// ListByHome returns the rooms for a home ordered by creation time
	// ascending with id as tie-break. This ordering defines the canonical
	// walkthrough sequence and the meaning of a room index, so it must be
	// stable across repeated calls.
	ListByHome(ctx context.Context, homeID uuid.UUID) ([]*models.Room, error)
	// ListByHomeNewestFirst returns the owner-facing room listing.
	ListByHomeNewestFirst(ctx context.Context, homeID uuid.UUID) ([]*models.Room, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// roomRepository implements RoomRepository using PostgreSQL.
type roomRepository struct {
	db *database.DB
}

// NewRoomRepository creates a new room repository.
func NewRoomRepository(db *database.DB) RoomRepository {
	return &roomRepository{db: db}
}

// Create inserts a new room with its reference image set.
func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	if room.ReferenceImages == nil {
		room.ReferenceImages = []string{}
	}

	images, err := json.Marshal(room.ReferenceImages)
	if err != nil {
		return fmt.Errorf("failed to marshal reference images: %w", err)
	}

	query := `
		INSERT INTO rooms (id, home_id, name, reference_images, initial_item_list, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.Exec(ctx, query,
		room.ID,
		room.HomeID,
		room.Name,
		images,
		room.InitialItemList,
		room.UserID,
		room.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	return nil
}

// Get retrieves a room by ID.
func (r *roomRepository) Get(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	query := `
		SELECT id, home_id, name, reference_images, initial_item_list, user_id, created_at
		FROM rooms
		WHERE id = $1`

	room, err := scanRoom(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// ListByHome retrieves rooms in canonical walkthrough order.
func (r *roomRepository) ListByHome(ctx context.Context, homeID uuid.UUID) ([]*models.Room, error) {
	return r.listByHome(ctx, homeID, "ASC")
}

// ListByHomeNewestFirst retrieves rooms newest first for management views.
func (r *roomRepository) ListByHomeNewestFirst(ctx context.Context, homeID uuid.UUID) ([]*models.Room, error) {
	return r.listByHome(ctx, homeID, "DESC")
}

func (r *roomRepository) listByHome(ctx context.Context, homeID uuid.UUID, direction string) ([]*models.Room, error) {
	query := fmt.Sprintf(`
		SELECT id, home_id, name, reference_images, initial_item_list, user_id, created_at
		FROM rooms
		WHERE home_id = $1
		ORDER BY created_at %s, id %s`, direction, direction)

	rows, err := r.db.Query(ctx, query, homeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rooms: %w", err)
	}

	return rooms, nil
}

// Delete removes a room by ID.
func (r *roomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// scanRoom reads one room row, decoding the reference image JSONB array.
func scanRoom(row pgx.Row) (*models.Room, error) {
	var room models.Room
	var images []byte

	if err := row.Scan(
		&room.ID,
		&room.HomeID,
		&room.Name,
		&images,
		&room.InitialItemList,
		&room.UserID,
		&room.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(images, &room.ReferenceImages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reference images: %w", err)
	}

	return &room, nil
}

// Ensure roomRepository implements RoomRepository at compile time.
var _ RoomRepository = (*roomRepository)(nil)
