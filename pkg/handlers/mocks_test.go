package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/homewalk-hq/inspect-engine/pkg/auth"
	"github.com/homewalk-hq/inspect-engine/pkg/media"
	"github.com/homewalk-hq/inspect-engine/pkg/models"
	"github.com/homewalk-hq/inspect-engine/pkg/services"
)

// ============================================================================
// Mock Services
// ============================================================================

type mockHomeService struct {
	homes     []*models.Home
	home      *models.Home
	createErr error
	getErr    error
	listErr   error
	deleteErr error
}

func (m *mockHomeService) Create(ctx context.Context, userID, name, address string) (*models.Home, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return &models.Home{ID: uuid.New(), Name: name, Address: address, UserID: userID}, nil
}

func (m *mockHomeService) Get(ctx context.Context, userID string, homeID uuid.UUID) (*models.Home, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.home, nil
}

func (m *mockHomeService) List(ctx context.Context, userID string) ([]*models.Home, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.homes, nil
}

func (m *mockHomeService) Delete(ctx context.Context, userID string, homeID uuid.UUID) error {
	return m.deleteErr
}

type mockRoomService struct {
	room       *models.Room
	rooms      []*models.Room
	compare    *services.CompareResult
	createErr  error
	listErr    error
	compareErr error
	deleteErr  error

	lastName  string
	lastFiles []*media.File
}

func (m *mockRoomService) Create(ctx context.Context, userID string, homeID uuid.UUID, name string, files []*media.File) (*models.Room, error) {
	m.lastName = name
	m.lastFiles = files
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.room, nil
}

func (m *mockRoomService) ListByHome(ctx context.Context, userID string, homeID uuid.UUID) ([]*models.Room, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.rooms, nil
}

func (m *mockRoomService) Compare(ctx context.Context, userID string, roomID uuid.UUID, files []*media.File) (*services.CompareResult, error) {
	m.lastFiles = files
	if m.compareErr != nil {
		return nil, m.compareErr
	}
	return m.compare, nil
}

func (m *mockRoomService) Delete(ctx context.Context, userID string, roomID uuid.UUID) error {
	return m.deleteErr
}

type mockInspectionService struct {
	issued        *services.IssuedInspection
	inspections   []*models.Inspection
	issueErr      error
	listErr       error
	deactivateErr error
}

func (m *mockInspectionService) Issue(ctx context.Context, userID string, homeID uuid.UUID, tenantName, tenantEmail string) (*services.IssuedInspection, error) {
	if m.issueErr != nil {
		return nil, m.issueErr
	}
	return m.issued, nil
}

func (m *mockInspectionService) ListByHome(ctx context.Context, userID string, homeID uuid.UUID) ([]*models.Inspection, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.inspections, nil
}

func (m *mockInspectionService) Deactivate(ctx context.Context, userID string, inspectionID uuid.UUID) error {
	return m.deactivateErr
}

type mockWalkthroughService struct {
	session    *services.WalkthroughSession
	room       *services.WalkthroughRoom
	event      *models.ComparisonEvent
	inspection *models.Inspection
	startErr   error
	roomErr    error
	compareErr error
	submitErr  error

	lastIndex int
	lastFiles []*media.File
}

func (m *mockWalkthroughService) Start(ctx context.Context, inspectionID uuid.UUID) (*services.WalkthroughSession, error) {
	if m.startErr != nil {
		return nil, m.startErr
	}
	return m.session, nil
}

func (m *mockWalkthroughService) RoomAt(ctx context.Context, inspectionID uuid.UUID, index int) (*services.WalkthroughRoom, error) {
	m.lastIndex = index
	if m.roomErr != nil {
		return nil, m.roomErr
	}
	return m.room, nil
}

func (m *mockWalkthroughService) Compare(ctx context.Context, inspectionID uuid.UUID, index int, files []*media.File) (*models.ComparisonEvent, error) {
	m.lastIndex = index
	m.lastFiles = files
	if m.compareErr != nil {
		return nil, m.compareErr
	}
	return m.event, nil
}

func (m *mockWalkthroughService) Submit(ctx context.Context, inspectionID uuid.UUID) (*models.Inspection, error) {
	if m.submitErr != nil {
		return nil, m.submitErr
	}
	return m.inspection, nil
}

// ============================================================================
// Request Helpers
// ============================================================================

// withUser attaches authenticated claims the way the auth middleware does.
func withUser(req *http.Request, userID string) *http.Request {
	claims := &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID}}
	ctx := context.WithValue(req.Context(), auth.ClaimsKey, claims)
	return req.WithContext(ctx)
}

// multipartRequest builds a multipart request with the given fields and one
// JPEG file per name under the "images" field.
func multipartRequest(t *testing.T, method, target string, fields map[string]string, imageNames []string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, name := range imageNames {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = io.Copy(part, bytes.NewReader([]byte("jpeg-bytes")))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
