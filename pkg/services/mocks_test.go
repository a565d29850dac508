package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
	"github.com/homewalk-hq/inspect-engine/pkg/media"
	"github.com/homewalk-hq/inspect-engine/pkg/models"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockHomeRepo struct {
	homes     map[uuid.UUID]*models.Home
	createErr error
	getErr    error
	listErr   error
	deleteErr error
}

func newMockHomeRepo() *mockHomeRepo {
	return &mockHomeRepo{homes: make(map[uuid.UUID]*models.Home)}
}

func (m *mockHomeRepo) Create(ctx context.Context, home *models.Home) error {
	if m.createErr != nil {
		return m.createErr
	}
	if home.ID == uuid.Nil {
		home.ID = uuid.New()
	}
	m.homes[home.ID] = home
	return nil
}

func (m *mockHomeRepo) Get(ctx context.Context, id uuid.UUID) (*models.Home, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	home, exists := m.homes[id]
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	return home, nil
}

func (m *mockHomeRepo) ListByUser(ctx context.Context, userID string) ([]*models.Home, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*models.Home
	for _, home := range m.homes {
		if home.UserID == userID {
			result = append(result, home)
		}
	}
	return result, nil
}

func (m *mockHomeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, exists := m.homes[id]; !exists {
		return apperrors.ErrNotFound
	}
	delete(m.homes, id)
	return nil
}

// addHome seeds a home and returns it.
func (m *mockHomeRepo) addHome(userID, name string) *models.Home {
	home := &models.Home{
		ID:        uuid.New(),
		Name:      name,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	m.homes[home.ID] = home
	return home
}

type mockRoomRepo struct {
	rooms     []*models.Room
	createErr error
	getErr    error
	listErr   error
	deleteErr error
}

func (m *mockRoomRepo) Create(ctx context.Context, room *models.Room) error {
	if m.createErr != nil {
		return m.createErr
	}
	if room.ID == uuid.Nil {
		room.ID = uuid.New()
	}
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now()
	}
	m.rooms = append(m.rooms, room)
	return nil
}

func (m *mockRoomRepo) Get(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, room := range m.rooms {
		if room.ID == id {
			return room, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockRoomRepo) ListByHome(ctx context.Context, homeID uuid.UUID) ([]*models.Room, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*models.Room
	for _, room := range m.rooms {
		if room.HomeID == homeID {
			result = append(result, room)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID.String() < result[j].ID.String()
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockRoomRepo) ListByHomeNewestFirst(ctx context.Context, homeID uuid.UUID) ([]*models.Room, error) {
	rooms, err := m.ListByHome(ctx, homeID)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(rooms)-1; i < j; i, j = i+1, j-1 {
		rooms[i], rooms[j] = rooms[j], rooms[i]
	}
	return rooms, nil
}

func (m *mockRoomRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for i, room := range m.rooms {
		if room.ID == id {
			m.rooms = append(m.rooms[:i], m.rooms[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

// addRoom seeds a room with a strictly increasing creation time.
func (m *mockRoomRepo) addRoom(homeID uuid.UUID, userID, name string, refs []string) *models.Room {
	room := &models.Room{
		ID:              uuid.New(),
		HomeID:          homeID,
		Name:            name,
		ReferenceImages: refs,
		UserID:          userID,
		CreatedAt:       time.Now().Add(time.Duration(len(m.rooms)) * time.Second),
	}
	m.rooms = append(m.rooms, room)
	return room
}

type mockInspectionRepo struct {
	inspections map[uuid.UUID]*models.Inspection
	createErr   error
	getErr      error
	markErr     error
	completeErr error
}

func newMockInspectionRepo() *mockInspectionRepo {
	return &mockInspectionRepo{inspections: make(map[uuid.UUID]*models.Inspection)}
}

func (m *mockInspectionRepo) Create(ctx context.Context, inspection *models.Inspection) error {
	if m.createErr != nil {
		return m.createErr
	}
	if inspection.ID == uuid.Nil {
		inspection.ID = uuid.New()
	}
	if inspection.Status == "" {
		inspection.Status = models.InspectionStatusActive
	}
	m.inspections[inspection.ID] = inspection
	return nil
}

func (m *mockInspectionRepo) Get(ctx context.Context, id uuid.UUID) (*models.Inspection, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	inspection, exists := m.inspections[id]
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	return inspection, nil
}

func (m *mockInspectionRepo) ListByHome(ctx context.Context, homeID uuid.UUID) ([]*models.Inspection, error) {
	var result []*models.Inspection
	for _, inspection := range m.inspections {
		if inspection.HomeID == homeID {
			result = append(result, inspection)
		}
	}
	return result, nil
}

func (m *mockInspectionRepo) MarkStarted(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.markErr != nil {
		return m.markErr
	}
	inspection, exists := m.inspections[id]
	if !exists {
		return apperrors.ErrNotFound
	}
	if inspection.StartedByTenantAt == nil {
		inspection.StartedByTenantAt = &at
	}
	return nil
}

func (m *mockInspectionRepo) Complete(ctx context.Context, id uuid.UUID, at time.Time) error {
	if m.completeErr != nil {
		return m.completeErr
	}
	inspection, exists := m.inspections[id]
	if !exists {
		return apperrors.ErrNotFound
	}
	if inspection.Status != models.InspectionStatusActive {
		return apperrors.ErrInvalidState
	}
	inspection.Status = models.InspectionStatusCompleted
	inspection.CompletedByTenantAt = &at
	return nil
}

func (m *mockInspectionRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	inspection, exists := m.inspections[id]
	if !exists {
		return apperrors.ErrNotFound
	}
	if inspection.Status != models.InspectionStatusActive {
		return apperrors.ErrInvalidState
	}
	inspection.Status = models.InspectionStatusInactive
	return nil
}

// addInspection seeds an active inspection for a home.
func (m *mockInspectionRepo) addInspection(homeID uuid.UUID, ownerID string) *models.Inspection {
	inspection := &models.Inspection{
		ID:          uuid.New(),
		HomeID:      homeID,
		OwnerUserID: ownerID,
		Status:      models.InspectionStatusActive,
		CreatedAt:   time.Now(),
	}
	m.inspections[inspection.ID] = inspection
	return inspection
}

type comparisonKey struct {
	inspectionID uuid.UUID
	roomID       uuid.UUID
}

type mockComparisonRepo struct {
	comparisons map[comparisonKey]*models.RoomComparison
	appendErr   error
	getErr      error
	countErr    error
}

func newMockComparisonRepo() *mockComparisonRepo {
	return &mockComparisonRepo{comparisons: make(map[comparisonKey]*models.RoomComparison)}
}

func (m *mockComparisonRepo) AppendEvent(ctx context.Context, comparison *models.RoomComparison, event *models.ComparisonEvent) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	key := comparisonKey{comparison.InspectionID, comparison.RoomID}
	existing, exists := m.comparisons[key]
	if !exists {
		existing = &models.RoomComparison{
			InspectionID:       comparison.InspectionID,
			RoomID:             comparison.RoomID,
			RoomName:           comparison.RoomName,
			ReferenceImageURLs: comparison.ReferenceImageURLs,
		}
		m.comparisons[key] = existing
	}
	existing.ComparisonEvents = append(existing.ComparisonEvents, *event)
	return nil
}

func (m *mockComparisonRepo) Get(ctx context.Context, inspectionID, roomID uuid.UUID) (*models.RoomComparison, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	comparison, exists := m.comparisons[comparisonKey{inspectionID, roomID}]
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	return comparison, nil
}

func (m *mockComparisonRepo) ListRoomIDs(ctx context.Context, inspectionID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for key := range m.comparisons {
		if key.inspectionID == inspectionID {
			ids = append(ids, key.roomID)
		}
	}
	return ids, nil
}

func (m *mockComparisonRepo) CountByInspection(ctx context.Context, inspectionID uuid.UUID) (int, error) {
	if m.countErr != nil {
		return 0, m.countErr
	}
	count := 0
	for key := range m.comparisons {
		if key.inspectionID == inspectionID {
			count++
		}
	}
	return count, nil
}

// ============================================================================
// Mock External Clients
// ============================================================================

type mockUploader struct {
	uploadErr error
	calls     int
}

func (m *mockUploader) Upload(ctx context.Context, file *media.File) (string, error) {
	if m.uploadErr != nil {
		return "", m.uploadErr
	}
	m.calls++
	return "https://images.test/" + file.Name, nil
}

func (m *mockUploader) UploadAll(ctx context.Context, files []*media.File) ([]string, error) {
	if m.uploadErr != nil {
		return nil, m.uploadErr
	}
	m.calls++
	urls := make([]string, len(files))
	for i, file := range files {
		urls[i] = "https://images.test/" + file.Name
	}
	return urls, nil
}

type mockComparer struct {
	compareResult string
	inventory     string
	compareErr    error
	inventoryErr  error
	calls         int
	lastBefore    []string
	lastAfter     []string
}

func (m *mockComparer) CompareRooms(ctx context.Context, before, after []string) (string, error) {
	m.calls++
	m.lastBefore = before
	m.lastAfter = after
	if m.compareErr != nil {
		return "", m.compareErr
	}
	return m.compareResult, nil
}

func (m *mockComparer) ItemInventory(ctx context.Context, imageURLs []string) (string, error) {
	m.calls++
	if m.inventoryErr != nil {
		return "", m.inventoryErr
	}
	return m.inventory, nil
}

type mockReporter struct {
	mu       sync.Mutex
	started  []uuid.UUID
	startErr error
	done     chan struct{}
}

func newMockReporter() *mockReporter {
	return &mockReporter{done: make(chan struct{}, 1)}
}

func (m *mockReporter) StartReport(ctx context.Context, inspectionID uuid.UUID) error {
	m.mu.Lock()
	m.started = append(m.started, inspectionID)
	m.mu.Unlock()
	select {
	case m.done <- struct{}{}:
	default:
	}
	return m.startErr
}

func (m *mockReporter) startedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.started)
}

type mockEmailSender struct {
	mu      sync.Mutex
	sent    []string
	sendErr error
	done    chan struct{}
}

func newMockEmailSender() *mockEmailSender {
	return &mockEmailSender{done: make(chan struct{}, 1)}
}

func (m *mockEmailSender) SendInvite(ctx context.Context, email, subject, emailContent string) error {
	m.mu.Lock()
	m.sent = append(m.sent, email)
	m.mu.Unlock()
	select {
	case m.done <- struct{}{}:
	default:
	}
	return m.sendErr
}

func (m *mockEmailSender) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
