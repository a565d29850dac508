package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
	"github.com/homewalk-hq/inspect-engine/pkg/models"
	"github.com/homewalk-hq/inspect-engine/pkg/services"
)

func TestRoomHandler_Create(t *testing.T) {
	homeID := uuid.New()
	mockService := &mockRoomService{
		room: &models.Room{
			ID:              uuid.New(),
			HomeID:          homeID,
			Name:            "Living Room",
			ReferenceImages: []string{"https://images.test/a.jpg"},
		},
	}
	handler := NewRoomHandler(mockService, zap.NewNop())

	req := multipartRequest(t, http.MethodPost, "/api/homes/"+homeID.String()+"/rooms",
		map[string]string{"name": "Living Room"}, []string{"a.jpg", "b.jpg"})
	req = withUser(req, "user-1")
	req.SetPathValue("homeID", homeID.String())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Living Room", mockService.lastName)
	assert.Len(t, mockService.lastFiles, 2)
	assert.Equal(t, "a.jpg", mockService.lastFiles[0].Name)
}

func TestRoomHandler_Create_UploadFailure(t *testing.T) {
	homeID := uuid.New()
	mockService := &mockRoomService{createErr: apperrors.ErrUploadFailed}
	handler := NewRoomHandler(mockService, zap.NewNop())

	req := multipartRequest(t, http.MethodPost, "/api/homes/"+homeID.String()+"/rooms",
		map[string]string{"name": "Living Room"}, []string{"a.jpg"})
	req = withUser(req, "user-1")
	req.SetPathValue("homeID", homeID.String())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRoomHandler_Create_AnalysisFailure(t *testing.T) {
	homeID := uuid.New()
	mockService := &mockRoomService{createErr: apperrors.ErrProvider}
	handler := NewRoomHandler(mockService, zap.NewNop())

	req := multipartRequest(t, http.MethodPost, "/api/homes/"+homeID.String()+"/rooms",
		map[string]string{"name": "Living Room"}, []string{"a.jpg"})
	req = withUser(req, "user-1")
	req.SetPathValue("homeID", homeID.String())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRoomHandler_Create_NotMultipart(t *testing.T) {
	homeID := uuid.New()
	handler := NewRoomHandler(&mockRoomService{}, zap.NewNop())

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/homes/"+homeID.String()+"/rooms", nil), "user-1")
	req.SetPathValue("homeID", homeID.String())
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoomHandler_List(t *testing.T) {
	homeID := uuid.New()
	mockService := &mockRoomService{
		rooms: []*models.Room{
			{ID: uuid.New(), HomeID: homeID, Name: "Kitchen"},
		},
	}
	handler := NewRoomHandler(mockService, zap.NewNop())

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/homes/"+homeID.String()+"/rooms", nil), "user-1")
	req.SetPathValue("homeID", homeID.String())
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response ApiResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.True(t, response.Success)
}

func TestRoomHandler_Compare(t *testing.T) {
	roomID := uuid.New()
	mockService := &mockRoomService{
		compare: &services.CompareResult{
			UploadedImageURLs: []string{"https://images.test/after.jpg"},
			Result:            "No differences detected.",
		},
	}
	handler := NewRoomHandler(mockService, zap.NewNop())

	req := multipartRequest(t, http.MethodPost, "/api/rooms/"+roomID.String()+"/compare",
		nil, []string{"after.jpg"})
	req = withUser(req, "user-1")
	req.SetPathValue("roomID", roomID.String())
	rec := httptest.NewRecorder()

	handler.Compare(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response ApiResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.True(t, response.Success)
}

func TestRoomHandler_Compare_NoReferenceImages(t *testing.T) {
	roomID := uuid.New()
	mockService := &mockRoomService{compareErr: apperrors.ErrNoReferenceImages}
	handler := NewRoomHandler(mockService, zap.NewNop())

	req := multipartRequest(t, http.MethodPost, "/api/rooms/"+roomID.String()+"/compare",
		nil, []string{"after.jpg"})
	req = withUser(req, "user-1")
	req.SetPathValue("roomID", roomID.String())
	rec := httptest.NewRecorder()

	handler.Compare(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoomHandler_Delete_NotFound(t *testing.T) {
	roomID := uuid.New()
	mockService := &mockRoomService{deleteErr: apperrors.ErrNotFound}
	handler := NewRoomHandler(mockService, zap.NewNop())

	req := withUser(httptest.NewRequest(http.MethodDelete, "/api/rooms/"+roomID.String(), nil), "user-1")
	req.SetPathValue("roomID", roomID.String())
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
