package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/homewalk-hq/inspect-engine/pkg/auth"
)

// RequireUser extracts the authenticated user ID from the request context.
// Returns the user ID and true on success, or "" and false on error (after
// writing an error response). Routes behind the auth middleware always have
// the ID; a miss here means the route was wired without it.
func RequireUser(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (string, bool) {
	userID, err := auth.UserIDFromContext(r.Context())
	if err != nil {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Missing user identity"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return "", false
	}
	return userID, true
}

// ParseHomeID extracts and validates the home ID from the request path.
// Returns the parsed UUID and true on success, or uuid.Nil and false on error
// (after writing an error response).
// Expects path parameter: homeID
func ParseHomeID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "homeID", "invalid_home_id", "Invalid home ID format", logger)
}

// ParseRoomID extracts and validates the room ID from the request path.
// Returns the parsed UUID and true on success, or uuid.Nil and false on error
// (after writing an error response).
// Expects path parameter: roomID
func ParseRoomID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "roomID", "invalid_room_id", "Invalid room ID format", logger)
}

// ParseInspectionID extracts and validates the inspection ID from the request path.
// Returns the parsed UUID and true on success, or uuid.Nil and false on error
// (after writing an error response).
// Expects path parameter: inspectionID
func ParseInspectionID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	return parseUUID(w, r, "inspectionID", "invalid_inspection_id", "Invalid inspection ID format", logger)
}

// ParseRoomIndex extracts the zero-based room position from the request path.
// Returns the index and true on success, or 0 and false on error (after
// writing an error response).
// Expects path parameter: index
func ParseRoomIndex(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int, bool) {
	indexStr := r.PathValue("index")
	index, err := strconv.Atoi(indexStr)
	if err != nil || index < 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_room_index", "Invalid room index format"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return index, true
}

// parseUUID is the internal helper that does the actual parsing work.
func parseUUID(w http.ResponseWriter, r *http.Request, pathParam, errorCode, errorMessage string, logger *zap.Logger) (uuid.UUID, bool) {
	idStr := r.PathValue(pathParam)
	id, err := uuid.Parse(idStr)
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, errorCode, errorMessage); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return id, true
}
