package api

import (
	"encoding/json"
	"net/http"
	"task-store/errors"
	"task-store/logger"
)

const maxBodySize = 1024 * 1024 // 1 MB

// errorResponse defines the JSON structure for error responses
type errorResponse struct {
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// respondWithJSON writes body as JSON with the given status code
func respondWithJSON(w http.ResponseWriter, status int, body any, lg *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Headers are already out, nothing left to tell the client
		lg.Error("failed to encode response", map[string]any{
			"status_code": status,
			"error":       err.Error(),
		})
	}
}

// respondWithError sends a structured error response
func respondWithError(w http.ResponseWriter, taskErr *errors.TaskError, lg *logger.Logger) {
	fields := map[string]any{
		"error_type":    string(taskErr.Type),
		"error_message": taskErr.Message,
		"status_code":   taskErr.Code,
		"error_details": taskErr.Details,
	}
	if taskErr.Code >= http.StatusInternalServerError {
		lg.Error("HTTP error response", fields)
	} else {
		lg.Warn("HTTP error response", fields)
	}

	respondWithJSON(w, taskErr.Code, errorResponse{
		Error:   taskErr.Message,
		Details: taskErr.Details,
	}, lg)
}

// respondWithServiceError maps any service error onto a response
func respondWithServiceError(w http.ResponseWriter, err error, lg *logger.Logger) {
	if taskErr, ok := errors.IsTaskError(err); ok {
		respondWithError(w, taskErr, lg)
		return
	}
	respondWithError(w, errors.NewInternalError(err.Error()), lg)
}
