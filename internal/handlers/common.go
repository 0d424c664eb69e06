package handlers

import (
	"encoding/json"
	"net/http"

	"swipe-match-backend/internal/apperr"
)

// maxBodyBytes bounds every request body read by the handlers
const maxBodyBytes = 1 << 20

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, ErrorResponse{Error: message}, statusCode)
}

// respondJSON sends body as JSON with statusCode
func respondJSON(w http.ResponseWriter, body interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// statusFor maps a classified error to its HTTP status
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.ValidationKind, apperr.InvalidPayloadKind, apperr.InvalidBodyKind:
		return http.StatusUnprocessableEntity
	case apperr.DuplicateLikeKind:
		return http.StatusConflict
	case apperr.NotFoundKind:
		return http.StatusNotFound
	case apperr.TimeoutKind:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "healthy"}, http.StatusOK)
}
