// Package handlers contains the HTTP handlers for every route.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	apperrors "mtp-backend/pkg/errors"
)

// respondJSON writes a JSON response body
func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondMessage writes a {"message": ...} body
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// respondError maps an error onto its HTTP status and message. Errors
// outside the taxonomy surface as 500 with the error string; this API's
// trust boundary tolerates that.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	if appErr := apperrors.GetAppError(err); appErr != nil {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logger.Error("Request failed", zap.Error(err))
		}
		respondMessage(w, appErr.HTTPStatus, appErr.Message)
		return
	}

	logger.Error("Request failed", zap.Error(err))
	respondMessage(w, http.StatusInternalServerError, "Internal server error: "+err.Error())
}

// parseLimit reads the limit query parameter with a route default
func parseLimit(r *http.Request, defaultLimit int32) int32 {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultLimit
	}
	limit, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || limit <= 0 {
		return defaultLimit
	}
	return int32(limit)
}
