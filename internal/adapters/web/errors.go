package web

import (
	"encoding/json"
	"net/http"

	"insurance-dashboard/internal/app"
	"insurance-dashboard/internal/presentation"

	"github.com/pkg/errors"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeServiceError maps application errors onto the JSON error envelope.
// Errors that end the session also clear the session cookie.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case presentation.IsConfigurationOrder(err):
		h.clearSessionCookie(w)
		writeError(w, r, err.Error(), "CONFIGURATION_ORDER", http.StatusConflict)
	case errors.Is(err, app.ErrSessionNotFound):
		h.clearSessionCookie(w)
		writeError(w, r, "session not found or expired", "SESSION_NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, presentation.ErrInvalidConfig):
		writeError(w, r, err.Error(), "INVALID_CONFIG", http.StatusBadRequest)
	case errors.Is(err, presentation.ErrInvalidElement):
		writeError(w, r, err.Error(), "INVALID_ELEMENT", http.StatusBadRequest)
	default:
		h.log.WithError(err).Error("unhandled service error")
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
