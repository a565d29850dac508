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

// ============================================================================
// Request/Response Types
// ============================================================================

// CreateHomeRequest for POST /homes
type CreateHomeRequest struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// HomeListResponse for GET /homes
type HomeListResponse struct {
	Homes []*models.Home `json:"homes"`
	Total int            `json:"total"`
}

// ============================================================================
// Handler
// ============================================================================

// HomeHandler handles home HTTP requests.
type HomeHandler struct {
	homeService services.HomeService
	logger      *zap.Logger
}

// NewHomeHandler creates a new home handler.
func NewHomeHandler(homeService services.HomeService, logger *zap.Logger) *HomeHandler {
	return &HomeHandler{
		homeService: homeService,
		logger:      logger,
	}
}

// RegisterRoutes registers the home handler's routes on the given mux.
func (h *HomeHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/homes", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/homes", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("GET /api/homes/{homeID}", authMiddleware.RequireAuth(h.Get))
	mux.HandleFunc("DELETE /api/homes/{homeID}", authMiddleware.RequireAuth(h.Delete))
}

// List handles GET /api/homes
func (h *HomeHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r, h.logger)
	if !ok {
		return
	}

	homes, err := h.homeService.List(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list homes",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_homes_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := HomeListResponse{
		Homes: homes,
		Total: len(homes),
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/homes
func (h *HomeHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r, h.logger)
	if !ok {
		return
	}

	var req CreateHomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	home, err := h.homeService.Create(r.Context(), userID, req.Name, req.Address)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidInput) {
			if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}

		h.logger.Error("Failed to create home",
			zap.String("user_id", userID),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "create_home_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: home}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/homes/{homeID}
func (h *HomeHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r, h.logger)
	if !ok {
		return
	}

	homeID, ok := ParseHomeID(w, r, h.logger)
	if !ok {
		return
	}

	home, err := h.homeService.Get(r.Context(), userID, homeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "home_not_found", "Home not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}

		h.logger.Error("Failed to get home",
			zap.String("home_id", homeID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "get_home_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: home}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/homes/{homeID}
func (h *HomeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r, h.logger)
	if !ok {
		return
	}

	homeID, ok := ParseHomeID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.homeService.Delete(r.Context(), userID, homeID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "home_not_found", "Home not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}

		h.logger.Error("Failed to delete home",
			zap.String("home_id", homeID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "delete_home_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
