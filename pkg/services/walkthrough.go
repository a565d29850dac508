package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
	"github.com/homewalk-hq/inspect-engine/pkg/media"
	"github.com/homewalk-hq/inspect-engine/pkg/models"
	"github.com/homewalk-hq/inspect-engine/pkg/notify"
	"github.com/homewalk-hq/inspect-engine/pkg/repositories"
	"github.com/homewalk-hq/inspect-engine/pkg/vision"
)

// WalkthroughSession is the tenant-facing view of an inspection on open.
type WalkthroughSession struct {
	Inspection       *models.Inspection `json:"inspection"`
	HomeName         string             `json:"home_name"`
	Rooms            []*models.Room     `json:"rooms"`
	ComparedRoomIDs  []uuid.UUID        `json:"compared_room_ids"`
	HasAnyComparison bool               `json:"has_any_comparison"`
}

// WalkthroughRoom is one index-addressed room within the walkthrough,
// together with the latest comparison event if the tenant already
// compared it in this session.
type WalkthroughRoom struct {
	Room        *models.Room            `json:"room"`
	Index       int                     `json:"index"`
	TotalRooms  int                     `json:"total_rooms"`
	LatestEvent *models.ComparisonEvent `json:"latest_event,omitempty"`
}

// WalkthroughService defines the unauthenticated tenant walkthrough
// operations. All methods key off the inspection id carried in the
// shareable link; there is no user identity on this path.
type WalkthroughService interface {
	// Start opens the walkthrough session. Fails with ErrInvalidState if the
	// link has been completed or deactivated. Stamps the first-open time.
	Start(ctx context.Context, inspectionID uuid.UUID) (*WalkthroughSession, error)
	// RoomAt returns the room at the given position in the canonical
	// walkthrough order, resuming from its latest comparison event if any.
	RoomAt(ctx context.Context, inspectionID uuid.UUID, index int) (*WalkthroughRoom, error)
	// Compare uploads the tenant's photos for the room at index, runs the
	// before/after analysis against the room's reference images and appends
	// the result to the room's comparison history.
	Compare(ctx context.Context, inspectionID uuid.UUID, index int, files []*media.File) (*models.ComparisonEvent, error)
	// Submit finalizes the inspection. Requires at least one compared room.
	Submit(ctx context.Context, inspectionID uuid.UUID) (*models.Inspection, error)
}

// walkthroughService implements WalkthroughService.
type walkthroughService struct {
	inspectionRepo repositories.InspectionRepository
	homeRepo       repositories.HomeRepository
	roomRepo       repositories.RoomRepository
	comparisonRepo repositories.RoomComparisonRepository
	uploader       media.Uploader
	comparer       vision.Comparer
	reporter       notify.ReportTrigger
	logger         *zap.Logger
}

// NewWalkthroughService creates a new walkthrough service with dependencies.
func NewWalkthroughService(
	inspectionRepo repositories.InspectionRepository,
	homeRepo repositories.HomeRepository,
	roomRepo repositories.RoomRepository,
	comparisonRepo repositories.RoomComparisonRepository,
	uploader media.Uploader,
	comparer vision.Comparer,
	reporter notify.ReportTrigger,
	logger *zap.Logger,
) WalkthroughService {
	return &walkthroughService{
		inspectionRepo: inspectionRepo,
		homeRepo:       homeRepo,
		roomRepo:       roomRepo,
		comparisonRepo: comparisonRepo,
		uploader:       uploader,
		comparer:       comparer,
		reporter:       reporter,
		logger:         logger,
	}
}

// activeInspection loads the inspection and rejects non-active links.
func (s *walkthroughService) activeInspection(ctx context.Context, inspectionID uuid.UUID) (*models.Inspection, error) {
	inspection, err := s.inspectionRepo.Get(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if !inspection.IsActive() {
		return nil, apperrors.ErrInvalidState
	}
	return inspection, nil
}

// Start opens the session and stamps the first-open time.
func (s *walkthroughService) Start(ctx context.Context, inspectionID uuid.UUID) (*WalkthroughSession, error) {
	inspection, err := s.activeInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	if inspection.StartedByTenantAt == nil {
		now := time.Now()
		if err := s.inspectionRepo.MarkStarted(ctx, inspectionID, now); err != nil {
			return nil, err
		}
		inspection.StartedByTenantAt = &now
	}

	home, err := s.homeRepo.Get(ctx, inspection.HomeID)
	if err != nil {
		return nil, err
	}

	rooms, err := s.roomRepo.ListByHome(ctx, inspection.HomeID)
	if err != nil {
		return nil, err
	}

	comparedIDs, err := s.comparisonRepo.ListRoomIDs(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	return &WalkthroughSession{
		Inspection:       inspection,
		HomeName:         home.Name,
		Rooms:            rooms,
		ComparedRoomIDs:  comparedIDs,
		HasAnyComparison: len(comparedIDs) > 0,
	}, nil
}

// roomAt resolves the room at a walkthrough position. The room list is
// re-read on every call so the index always resolves against the same
// stable ordering the session was opened with.
func (s *walkthroughService) roomAt(ctx context.Context, homeID uuid.UUID, index int) (*models.Room, int, error) {
	rooms, err := s.roomRepo.ListByHome(ctx, homeID)
	if err != nil {
		return nil, 0, err
	}
	if index < 0 || index >= len(rooms) {
		return nil, len(rooms), apperrors.ErrIndexOutOfRange
	}
	return rooms[index], len(rooms), nil
}

// RoomAt returns the index-addressed room with its latest comparison event.
func (s *walkthroughService) RoomAt(ctx context.Context, inspectionID uuid.UUID, index int) (*WalkthroughRoom, error) {
	inspection, err := s.activeInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	room, total, err := s.roomAt(ctx, inspection.HomeID, index)
	if err != nil {
		return nil, err
	}

	result := &WalkthroughRoom{
		Room:       room,
		Index:      index,
		TotalRooms: total,
	}

	comparison, err := s.comparisonRepo.Get(ctx, inspectionID, room.ID)
	switch {
	case err == nil:
		result.LatestEvent = comparison.LatestEvent()
	case errors.Is(err, apperrors.ErrNotFound):
		// Never compared in this session; nothing to resume.
	default:
		return nil, err
	}

	return result, nil
}

// Compare runs the full upload-analyze-append pipeline for one room.
func (s *walkthroughService) Compare(ctx context.Context, inspectionID uuid.UUID, index int, files []*media.File) (*models.ComparisonEvent, error) {
	if err := validateImageFiles(files); err != nil {
		return nil, err
	}

	inspection, err := s.activeInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	room, _, err := s.roomAt(ctx, inspection.HomeID, index)
	if err != nil {
		return nil, err
	}
	if len(room.ReferenceImages) == 0 {
		return nil, fmt.Errorf("%w: room %q has no reference images", apperrors.ErrNoReferenceImages, room.Name)
	}

	uploadedURLs, err := s.uploader.UploadAll(ctx, files)
	if err != nil {
		return nil, err
	}

	result, err := s.comparer.CompareRooms(ctx, room.ReferenceImages, uploadedURLs)
	if err != nil {
		return nil, err
	}

	event := &models.ComparisonEvent{
		UploadedImageURLs:  uploadedURLs,
		AIComparisonResult: result,
		Timestamp:          time.Now(),
	}

	comparison := &models.RoomComparison{
		InspectionID:       inspectionID,
		RoomID:             room.ID,
		RoomName:           room.Name,
		ReferenceImageURLs: room.ReferenceImages,
	}

	if err := s.comparisonRepo.AppendEvent(ctx, comparison, event); err != nil {
		return nil, err
	}

	s.logger.Info("Room comparison recorded",
		zap.String("inspection_id", inspectionID.String()),
		zap.String("room_id", room.ID.String()),
		zap.Int("uploaded_images", len(uploadedURLs)))

	return event, nil
}

// Submit finalizes the inspection and triggers report generation.
func (s *walkthroughService) Submit(ctx context.Context, inspectionID uuid.UUID) (*models.Inspection, error) {
	inspection, err := s.activeInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}

	count, err := s.comparisonRepo.CountByInspection(ctx, inspectionID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: no rooms have been compared", apperrors.ErrInvalidState)
	}

	now := time.Now()
	if err := s.inspectionRepo.Complete(ctx, inspectionID, now); err != nil {
		return nil, err
	}

	inspection.Status = models.InspectionStatusCompleted
	inspection.CompletedByTenantAt = &now

	s.logger.Info("Inspection submitted",
		zap.String("inspection_id", inspectionID.String()),
		zap.Int("compared_rooms", count))

	go s.triggerReport(inspectionID)

	return inspection, nil
}

// triggerReport fires the report pipeline in the background. Failures are
// logged only; the submission already succeeded.
func (s *walkthroughService) triggerReport(inspectionID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), notify.DefaultTimeout)
	defer cancel()

	if err := s.reporter.StartReport(ctx, inspectionID); err != nil {
		s.logger.Error("Failed to trigger inspection report",
			zap.String("inspection_id", inspectionID.String()),
			zap.Error(err))
	}
}

var _ WalkthroughService = (*walkthroughService)(nil)
