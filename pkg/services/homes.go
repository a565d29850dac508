// Package services implements the engine's domain operations on top of
// the repositories and the upload/vision/notify clients.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
	"github.com/homewalk-hq/inspect-engine/pkg/models"
	"github.com/homewalk-hq/inspect-engine/pkg/repositories"
)

// HomeService defines the interface for home management.
type HomeService interface {
	Create(ctx context.Context, userID, name, address string) (*models.Home, error)
	Get(ctx context.Context, userID string, homeID uuid.UUID) (*models.Home, error)
	List(ctx context.Context, userID string) ([]*models.Home, error)
	Delete(ctx context.Context, userID string, homeID uuid.UUID) error
}

// homeService implements HomeService.
type homeService struct {
	homeRepo repositories.HomeRepository
	logger   *zap.Logger
}

// NewHomeService creates a new home service with dependencies.
func NewHomeService(homeRepo repositories.HomeRepository, logger *zap.Logger) HomeService {
	return &homeService{
		homeRepo: homeRepo,
		logger:   logger,
	}
}

// Create registers a new home for the user. Name is required, address is
// optional.
func (s *homeService) Create(ctx context.Context, userID, name, address string) (*models.Home, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: home name cannot be empty", apperrors.ErrInvalidInput)
	}

	home := &models.Home{
		Name:    name,
		Address: strings.TrimSpace(address),
		UserID:  userID,
	}

	if err := s.homeRepo.Create(ctx, home); err != nil {
		return nil, err
	}

	s.logger.Info("Home created",
		zap.String("home_id", home.ID.String()),
		zap.String("user_id", userID))

	return home, nil
}

// Get retrieves a home, verifying ownership. A home owned by another user
// is reported as not found rather than forbidden.
func (s *homeService) Get(ctx context.Context, userID string, homeID uuid.UUID) (*models.Home, error) {
	home, err := s.homeRepo.Get(ctx, homeID)
	if err != nil {
		return nil, err
	}
	if home.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	return home, nil
}

// List retrieves all homes owned by the user.
func (s *homeService) List(ctx context.Context, userID string) ([]*models.Home, error) {
	return s.homeRepo.ListByUser(ctx, userID)
}

// Delete removes a home and, via cascade, its rooms and inspections.
func (s *homeService) Delete(ctx context.Context, userID string, homeID uuid.UUID) error {
	if _, err := s.Get(ctx, userID, homeID); err != nil {
		return err
	}

	if err := s.homeRepo.Delete(ctx, homeID); err != nil {
		return err
	}

	s.logger.Info("Home deleted",
		zap.String("home_id", homeID.String()),
		zap.String("user_id", userID))

	return nil
}

// Ensure homeService implements HomeService at compile time.
var _ HomeService = (*homeService)(nil)
