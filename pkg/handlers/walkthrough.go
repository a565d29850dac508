package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/homewalk-hq/inspect-engine/pkg/apperrors"
	"github.com/homewalk-hq/inspect-engine/pkg/services"
)

// WalkthroughHandler handles the tenant-facing walkthrough HTTP requests.
// These routes are unauthenticated: possession of the inspection link is
// the credential, and every operation re-checks that the inspection is
// still active.
type WalkthroughHandler struct {
	walkthroughService services.WalkthroughService
	logger             *zap.Logger
}

// NewWalkthroughHandler creates a new walkthrough handler.
func NewWalkthroughHandler(walkthroughService services.WalkthroughService, logger *zap.Logger) *WalkthroughHandler {
	return &WalkthroughHandler{
		walkthroughService: walkthroughService,
		logger:             logger,
	}
}

// RegisterRoutes registers the walkthrough handler's routes on the given mux.
func (h *WalkthroughHandler) RegisterRoutes(mux *http.ServeMux) {
	base := "/api/inspect/{inspectionID}"

	mux.HandleFunc("GET "+base, h.Start)
	mux.HandleFunc("GET "+base+"/rooms/{index}", h.Room)
	mux.HandleFunc("POST "+base+"/rooms/{index}/compare", h.Compare)
	mux.HandleFunc("POST "+base+"/submit", h.Submit)
}

// writeWalkthroughError maps the walkthrough error set to HTTP responses.
// Missing and invalid links intentionally produce the same 404 shape so a
// guessed URL learns nothing about whether an inspection exists.
func (h *WalkthroughHandler) writeWalkthroughError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrInvalidState):
		if err := ErrorResponse(w, http.StatusNotFound, "inspection_unavailable", "This inspection link is no longer available"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return true
	case errors.Is(err, apperrors.ErrIndexOutOfRange):
		if err := ErrorResponse(w, http.StatusNotFound, "room_index_out_of_range", "No room at this position"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return true
	}
	return false
}

// Start handles GET /api/inspect/{inspectionID}
func (h *WalkthroughHandler) Start(w http.ResponseWriter, r *http.Request) {
	inspectionID, ok := ParseInspectionID(w, r, h.logger)
	if !ok {
		return
	}

	session, err := h.walkthroughService.Start(r.Context(), inspectionID)
	if err != nil {
		if h.writeWalkthroughError(w, err) {
			return
		}

		h.logger.Error("Failed to start walkthrough",
			zap.String("inspection_id", inspectionID.String()),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "start_walkthrough_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: session}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Room handles GET /api/inspect/{inspectionID}/rooms/{index}
func (h *WalkthroughHandler) Room(w http.ResponseWriter, r *http.Request) {
	inspectionID, ok := ParseInspectionID(w, r, h.logger)
	if !ok {
		return
	}

	index, ok := ParseRoomIndex(w, r, h.logger)
	if !ok {
		return
	}

	room, err := h.walkthroughService.RoomAt(r.Context(), inspectionID, index)
	if err != nil {
		if h.writeWalkthroughError(w, err) {
			return
		}

		h.logger.Error("Failed to load walkthrough room",
			zap.String("inspection_id", inspectionID.String()),
			zap.Int("index", index),
			zap.Error(err))
		if err := ErrorResponse(w, http.StatusInternalServerError, "get_walkthrough_room_failed", err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: room}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Compare handles POST /api/inspect/{inspectionID}/rooms/{index}/compare
// Accepts a multipart form with one or more files under "images".
func (h *WalkthroughHandler) Compare(w http.ResponseWriter, r *http.Request) {
	inspectionID, ok := ParseInspectionID(w, r, h.logger)
	if !ok {
		return
	}

	index, ok := ParseRoomIndex(w, r, h.logger)
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

	event, err := h.walkthroughService.Compare(r.Context(), inspectionID, index, files)
	if err != nil {
		if h.writeWalkthroughError(w, err) {
			return
		}

		switch {
		case errors.Is(err, apperrors.ErrInvalidInput), errors.Is(err, apperrors.ErrNoReferenceImages):
			if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrUploadFailed), errors.Is(err, apperrors.ErrProvider), errors.Is(err, apperrors.ErrEmptyResult):
			h.logger.Error("Walkthrough comparison failed",
				zap.String("inspection_id", inspectionID.String()),
				zap.Int("index", index),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusBadGateway, "comparison_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Failed to compare walkthrough room",
				zap.String("inspection_id", inspectionID.String()),
				zap.Int("index", index),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "compare_walkthrough_room_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: event}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Submit handles POST /api/inspect/{inspectionID}/submit
func (h *WalkthroughHandler) Submit(w http.ResponseWriter, r *http.Request) {
	inspectionID, ok := ParseInspectionID(w, r, h.logger)
	if !ok {
		return
	}

	inspection, err := h.walkthroughService.Submit(r.Context(), inspectionID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			if err := ErrorResponse(w, http.StatusNotFound, "inspection_unavailable", "This inspection link is no longer available"); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		case errors.Is(err, apperrors.ErrInvalidState):
			// Covers both an already-finalized link and a submission with
			// zero compared rooms.
			if err := ErrorResponse(w, http.StatusConflict, "submit_rejected", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		default:
			h.logger.Error("Failed to submit inspection",
				zap.String("inspection_id", inspectionID.String()),
				zap.Error(err))
			if err := ErrorResponse(w, http.StatusInternalServerError, "submit_inspection_failed", err.Error()); err != nil {
				h.logger.Error("Failed to write error response", zap.Error(err))
			}
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: inspection}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
