package handlers

import (
	"bytes"
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

func TestInspectionHandler_Issue(t *testing.T) {
	homeID := uuid.New()
	inspection := &models.Inspection{
		ID:     uuid.New(),
		HomeID: homeID,
		Status: models.InspectionStatusActive,
	}
	mockService := &mockInspectionService{
		issued: &services.IssuedInspection{
			Inspection: inspection,
			Link:       "https://inspect.test/inspect/" + inspection.ID.String(),
		},
	}
	handler := NewInspectionHandler(mockService, zap.NewNop())

	body, err := json.Marshal(IssueInspectionRequest{TenantName: "Alex Tenant"})
	require.NoError(t, err)

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/homes/"+homeID.String()+"/inspections", bytes.NewReader(body)), "user-1")
	req.SetPathValue("homeID", homeID.String())
	rec := httptest.NewRecorder()

	handler.Issue(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var response ApiResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.True(t, response.Success)

	dataBytes, err := json.Marshal(response.Data)
	require.NoError(t, err)

	var issued services.IssuedInspection
	require.NoError(t, json.Unmarshal(dataBytes, &issued))
	assert.Contains(t, issued.Link, "/inspect/"+inspection.ID.String())
}

func TestInspectionHandler_Issue_HomeNotFound(t *testing.T) {
	homeID := uuid.New()
	mockService := &mockInspectionService{issueErr: apperrors.ErrNotFound}
	handler := NewInspectionHandler(mockService, zap.NewNop())

	body, err := json.Marshal(IssueInspectionRequest{})
	require.NoError(t, err)

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/homes/"+homeID.String()+"/inspections", bytes.NewReader(body)), "user-1")
	req.SetPathValue("homeID", homeID.String())
	rec := httptest.NewRecorder()

	handler.Issue(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInspectionHandler_List(t *testing.T) {
	homeID := uuid.New()
	mockService := &mockInspectionService{
		inspections: []*models.Inspection{
			{ID: uuid.New(), HomeID: homeID, Status: models.InspectionStatusActive},
			{ID: uuid.New(), HomeID: homeID, Status: models.InspectionStatusCompleted},
		},
	}
	handler := NewInspectionHandler(mockService, zap.NewNop())

	req := withUser(httptest.NewRequest(http.MethodGet, "/api/homes/"+homeID.String()+"/inspections", nil), "user-1")
	req.SetPathValue("homeID", homeID.String())
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var response ApiResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

	dataBytes, err := json.Marshal(response.Data)
	require.NoError(t, err)

	var listResponse InspectionListResponse
	require.NoError(t, json.Unmarshal(dataBytes, &listResponse))
	assert.Equal(t, 2, listResponse.Total)
}

func TestInspectionHandler_Deactivate(t *testing.T) {
	inspectionID := uuid.New()
	handler := NewInspectionHandler(&mockInspectionService{}, zap.NewNop())

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/inspections/"+inspectionID.String()+"/deactivate", nil), "user-1")
	req.SetPathValue("inspectionID", inspectionID.String())
	rec := httptest.NewRecorder()

	handler.Deactivate(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInspectionHandler_Deactivate_AlreadyFinalized(t *testing.T) {
	inspectionID := uuid.New()
	mockService := &mockInspectionService{deactivateErr: apperrors.ErrInvalidState}
	handler := NewInspectionHandler(mockService, zap.NewNop())

	req := withUser(httptest.NewRequest(http.MethodPost, "/api/inspections/"+inspectionID.String()+"/deactivate", nil), "user-1")
	req.SetPathValue("inspectionID", inspectionID.String())
	rec := httptest.NewRecorder()

	handler.Deactivate(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
