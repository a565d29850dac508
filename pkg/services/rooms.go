package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
	"github.com/homewalk-hq/inspect-engine/pkg/media"
	"github.com/homewalk-hq/inspect-engine/pkg/models"
	"github.com/homewalk-hq/inspect-engine/pkg/repositories"
	"github.com/homewalk-hq/inspect-engine/pkg/vision"
)

// CompareResult is the outcome of an owner's ad-hoc comparison. Nothing
// is persisted for ad-hoc comparisons.
type CompareResult struct {
	UploadedImageURLs []string `json:"uploaded_image_urls"`
	Result            string   `json:"result"`
}

// RoomService defines the interface for room management.
type RoomService interface {
	// Create uploads the reference images, runs the initial item
	// inventory analysis, and persists the room only after analysis
	// succeeds. Any sub-step failure aborts with no partial room.
	Create(ctx context.Context, userID string, homeID uuid.UUID, name string, files []*media.File) (*models.Room, error)
	ListByHome(ctx context.Context, userID string, homeID uuid.UUID) ([]*models.Room, error)
	// Compare runs an ad-hoc before/after comparison against the room's
	// reference images.
	Compare(ctx context.Context, userID string, roomID uuid.UUID, files []*media.File) (*CompareResult, error)
	Delete(ctx context.Context, userID string, roomID uuid.UUID) error
}

// roomService implements RoomService.
type roomService struct {
	roomRepo repositories.RoomRepository
	homeRepo repositories.HomeRepository
	uploader media.Uploader
	comparer vision.Comparer
	logger   *zap.Logger
}

// NewRoomService creates a new room service with dependencies.
func NewRoomService(
	roomRepo repositories.RoomRepository,
	homeRepo repositories.HomeRepository,
	uploader media.Uploader,
	comparer vision.Comparer,
	logger *zap.Logger,
) RoomService {
	return &roomService{
		roomRepo: roomRepo,
		homeRepo: homeRepo,
		uploader: uploader,
		comparer: comparer,
		logger:   logger,
	}
}

// validateImageFiles rejects empty batches and non-image files before any
// network call is made.
func validateImageFiles(files []*media.File) error {
	if len(files) == 0 {
		return fmt.Errorf("%w: at least one image is required", apperrors.ErrInvalidInput)
	}
	for _, file := range files {
		if !file.IsImage() {
			return fmt.Errorf("%w: %q is not an image", apperrors.ErrInvalidInput, file.Name)
		}
	}
	return nil
}

// Create runs the strict creation pipeline: validate, upload, analyze,
// persist.
func (s *roomService) Create(ctx context.Context, userID string, homeID uuid.UUID, name string, files []*media.File) (*models.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name cannot be empty", apperrors.ErrInvalidInput)
	}
	if err := validateImageFiles(files); err != nil {
		return nil, err
	}

	home, err := s.homeRepo.Get(ctx, homeID)
	if err != nil {
		return nil, err
	}
	if home.UserID != userID {
		return nil, apperrors.ErrNotFound
	}

	urls, err := s.uploader.UploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	itemList, err := s.comparer.ItemInventory(ctx, urls)
	if err != nil {
		return nil, err
	}

	room := &models.Room{
		HomeID:          homeID,
		Name:            name,
		ReferenceImages: urls,
		InitialItemList: itemList,
		UserID:          userID,
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("home_id", homeID.String()),
		zap.Int("reference_images", len(urls)))

	return room, nil
}

// ListByHome retrieves the owner's rooms for a home, newest first.
func (s *roomService) ListByHome(ctx context.Context, userID string, homeID uuid.UUID) ([]*models.Room, error) {
	home, err := s.homeRepo.Get(ctx, homeID)
	if err != nil {
		return nil, err
	}
	if home.UserID != userID {
		return nil, apperrors.ErrNotFound
	}

	return s.roomRepo.ListByHomeNewestFirst(ctx, homeID)
}

// Compare uploads the "after" set and asks the vision model to describe
// differences against the room's reference images.
func (s *roomService) Compare(ctx context.Context, userID string, roomID uuid.UUID, files []*media.File) (*CompareResult, error) {
	if err := validateImageFiles(files); err != nil {
		return nil, err
	}

	room, err := s.roomRepo.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.UserID != userID {
		return nil, apperrors.ErrNotFound
	}
	if len(room.ReferenceImages) == 0 {
		return nil, apperrors.ErrNoReferenceImages
	}

	urls, err := s.uploader.UploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	result, err := s.comparer.CompareRooms(ctx, room.ReferenceImages, urls)
	if err != nil {
		return nil, err
	}

	return &CompareResult{
		UploadedImageURLs: urls,
		Result:            result,
	}, nil
}

// Delete removes a room after verifying ownership.
func (s *roomService) Delete(ctx context.Context, userID string, roomID uuid.UUID) error {
	room, err := s.roomRepo.Get(ctx, roomID)
	if err != nil {
		return err
	}
	if room.UserID != userID {
		return apperrors.ErrNotFound
	}

	return s.roomRepo.Delete(ctx, roomID)
}

// Ensure roomService implements RoomService at compile time.
var _ RoomService = (*roomService)(nil)
