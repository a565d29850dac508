// Package repositories provides PostgreSQL data access for the engine's
// domain documents.
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

// HomeRepository defines the interface for home data access.
type HomeRepository interface {
	Create(ctx context.Context, home *models.Home) error
	Get(ctx context.Context, id uuid.UUID) (*models.Home, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Home, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// homeRepository implements HomeRepository using PostgreSQL.
type homeRepository struct {
	db *database.DB
}

// NewHomeRepository creates a new home repository.
func NewHomeRepository(db *database.DB) HomeRepository {
	return &homeRepository{db: db}
}

// Create inserts a new home.
func (r *homeRepository) Create(ctx context.Context, home *models.Home) error {
	if home.ID == uuid.Nil {
		home.ID = uuid.New()
	}
	if home.CreatedAt.IsZero() {
		home.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO homes (id, name, address, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		home.ID,
		home.Name,
		home.Address,
		home.UserID,
		home.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create home: %w", err)
	}

	return nil
}

// Get retrieves a home by ID.
func (r *homeRepository) Get(ctx context.Context, id uuid.UUID) (*models.Home, error) {
	query := `
		SELECT id, name, address, user_id, created_at
		FROM homes
		WHERE id = $1`

	var home models.Home
	err := r.db.QueryRow(ctx, query, id).Scan(
		&home.ID,
		&home.Name,
		&home.Address,
		&home.UserID,
		&home.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get home: %w", err)
	}

	return &home, nil
}

// ListByUser retrieves all homes owned by a user, newest first.
func (r *homeRepository) ListByUser(ctx context.Context, userID string) ([]*models.Home, error) {
	query := `
		SELECT id, name, address, user_id, created_at
		FROM homes
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list homes: %w", err)
	}
	defer rows.Close()

	var homes []*models.Home
	for rows.Next() {
		var home models.Home
		if err := rows.Scan(
			&home.ID,
			&home.Name,
			&home.Address,
			&home.UserID,
			&home.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan home: %w", err)
		}
		homes = append(homes, &home)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read homes: %w", err)
	}

	return homes, nil
}

// Delete removes a home by ID. Rooms and inspections cascade.
func (r *homeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM homes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete home: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Ensure homeRepository implements HomeRepository at compile time.
var _ HomeRepository = (*homeRepository)(nil)
