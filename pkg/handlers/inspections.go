package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
	"github.com/homewalk-hq/inspect-engine/pkg/auth"
	"github.com/homewalk-hq/inspect-engine/pkg/models"
	"github.com/homewalk-hq/inspect-engine/pkg/services"
)

// IssueInspectionRequest for POST /homes/{homeID}/inspections
type IssueInspectionRequest struct {
	TenantName  string `json:"tenant_name,omitempty"`
	TenantEmail string `json:"tenant_email,omitempty"`
}

// InspectionListResponse for GET /homes/{homeID}/inspections
type InspectionListResponse struct {
	Inspections []*models.Inspection `json:"inspections"`
	Total       int                  `json:"total"`
}

// InspectionHandler handles owner-facing inspection link HTTP requests.
type InspectionHandler struct {
	inspectionService services.InspectionService
	logger            *zap.Logger
}

// NewInspectionHandler creates a new inspection handler.
func NewInspectionHandler(inspectionService services.InspectionService, logger *zap.Logger) *InspectionHandler {
	return &InspectionHandler{
		inspectionService: inspectionService,
		logger:            logger,
	}
}

// RegisterRoutes registers the inspection handler's routes on the given mux.
func (h *InspectionHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("POST /api/homes/{homeID}/inspections", authMiddleware.RequireAuth(h.Issue))
	mux.HandleFunc("GET /api/homes/{homeID}/inspections", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/inspections/{inspectionID}/deactivate", authMiddleware.RequireAuth(h.Deactivate))
}

// Issue handles POST /api/homes/{homeID}/inspections
func (h *InspectionHandler) Issue(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r, h.logger)
	if !ok {
		return
	}

	homeID, ok := ParseHomeID(w, r, h.logger)
	if !ok {
		return
	}

	var req IssueInspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	issued, err := h.inspectionService.Issue(r.Context(), userID, homeID, req.TenantName, req.TenantEmail)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "home_not_found", "Home not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}

		h.logger.Error("Failed to issue inspection",
			zap.String("home_id", homeID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "issue_inspection_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: issued}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/homes/{homeID}/inspections
func (h *InspectionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r, h.logger)
	if !ok {
		return
	}

	homeID, ok := ParseHomeID(w, r, h.logger)
	if !ok {
		return
	}

	inspections, err := h.inspectionService.ListByHome(r.Context(), userID, homeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "home_not_found", "Home not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}

		h.logger.Error("Failed to list inspections",
			zap.String("home_id", homeID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_inspections_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := InspectionListResponse{
		Inspections: inspections,
		Total:       len(inspections),
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Deactivate handles POST /api/inspections/{inspectionID}/deactivate
func (h *InspectionHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r, h.logger)
	if !ok {
		return
	}

	inspectionID, ok := ParseInspectionID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.inspectionService.Deactivate(r.Context(), userID, inspectionID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			if err := ErrorResponse(w, http.StatusNotFound, "inspection_not_found", "Inspection not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrInvalidState):
			if err := ErrorResponse(w, http.StatusConflict, "inspection_not_active", "Inspection is not active"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Failed to deactivate inspection",
				zap.String("inspection_id", inspectionID.String()),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "deactivate_inspection_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "inactive"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
