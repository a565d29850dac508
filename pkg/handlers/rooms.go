package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
	"github.com/homewalk-hq/inspect-engine/pkg/auth"
	"github.com/homewalk-hq/inspect-engine/pkg/models"
	"github.com/homewalk-hq/inspect-engine/pkg/services"
)

// imagesFormField is the multipart field carrying uploaded photos.
const imagesFormField = "images"

// RoomListResponse for GET /homes/{homeID}/rooms
type RoomListResponse struct {
	Rooms []*models.Room `json:"rooms"`
	Total int            `json:"total"`
}

// RoomHandler handles room HTTP requests.
type RoomHandler struct {
	roomService services.RoomService
	logger      *zap.Logger
}

// NewRoomHandler creates a new room handler.
func NewRoomHandler(roomService services.RoomService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		logger:      logger,
	}
}

// RegisterRoutes registers the room handler's routes on the given mux.
func (h *RoomHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/homes/{homeID}/rooms", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/homes/{homeID}/rooms", authMiddleware.RequireAuth(h.Create))
	mux.HandleFunc("POST /api/rooms/{roomID}/compare", authMiddleware.RequireAuth(h.Compare))
	mux.HandleFunc("DELETE /api/rooms/{roomID}", authMiddleware.RequireAuth(h.Delete))
}

// List handles GET /api/homes/{homeID}/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r, h.logger)
	if !ok {
		return
	}

	homeID, ok := ParseHomeID(w, r, h.logger)
	if !ok {
		return
	}

	rooms, err := h.roomService.ListByHome(r.Context(), userID, homeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "home_not_found", "Home not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}

		h.logger.Error("Failed to list rooms",
			zap.String("home_id", homeID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "list_rooms_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := RoomListResponse{
		Rooms: rooms,
		Total: len(rooms),
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/homes/{homeID}/rooms
// Accepts a multipart form with a "name" field and one or more files under
// "images". Room creation is all-or-nothing: if the upload or the initial
// analysis fails, no room is persisted.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r, h.logger)
	if !ok {
		return
	}

	homeID, ok := ParseHomeID(w, r, h.logger)
	if !ok {
		return
	}

	files, err := readImageFiles(r, imagesFormField)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}
	name := r.FormValue("name")

	room, err := h.roomService.Create(r.Context(), userID, homeID, name, files)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidInput):
			if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrNotFound):
			if err := ErrorResponse(w, http.StatusNotFound, "home_not_found", "Home not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrUploadFailed):
			h.logger.Error("Room image upload failed",
				zap.String("home_id", homeID.String()),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusBadGateway, "upload_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrProvider), errors.Is(err, apperrors.ErrEmptyResult):
			h.logger.Error("Room analysis failed",
				zap.String("home_id", homeID.String()),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusBadGateway, "analysis_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Failed to create room",
				zap.String("home_id", homeID.String()),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "create_room_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: room}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Compare handles POST /api/rooms/{roomID}/compare
// Runs an owner-initiated comparison of freshly uploaded photos against the
// room's reference images. The result is returned but not stored.
func (h *RoomHandler) Compare(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r, h.logger)
	if !ok {
		return
	}

	roomID, ok := ParseRoomID(w, r, h.logger)
	if !ok {
		return
	}

	files, err := readImageFiles(r, imagesFormField)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	result, err := h.roomService.Compare(r.Context(), userID, roomID, files)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrNoReferenceImages):
			if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrNotFound):
			if err := ErrorResponse(w, http.StatusNotFound, "room_not_found", "Room not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrUploadFailed), errors.Is(err, apperrors.ErrProvider), errors.Is(err, apperrors.ErrEmptyResult):
			h.logger.Error("Room comparison failed",
				zap.String("room_id", roomID.String()),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusBadGateway, "comparison_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Failed to compare room",
				zap.String("room_id", roomID.String()),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "compare_room_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/rooms/{roomID}
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequireUser(w, r, h.logger)
	if !ok {
		return
	}

	roomID, ok := ParseRoomID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.roomService.Delete(r.Context(), userID, roomID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if err := ErrorResponse(w, http.StatusNotFound, "room_not_found", "Room not found"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
			return
		}

		h.logger.Error("Failed to delete room",
			zap.String("room_id", roomID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "delete_room_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"status": "deleted"}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
