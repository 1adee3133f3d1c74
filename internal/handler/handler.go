package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"mini-shop/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError maps a business failure to its HTTP status. It returns
// false when err carries no domain code, leaving the caller to write a
// generic response.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) bool {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		return false
	}

	status := http.StatusBadRequest
	switch domainErr.Code {
	case model.ErrCodeProductNotFound, model.ErrCodeOrderNotFound:
		status = http.StatusNotFound
	case model.ErrCodeUnauthorised:
		status = http.StatusUnauthorized
	case model.ErrCodeInsufficientStock:
		status = http.StatusConflict
	case model.ErrCodeInternalError:
		status = http.StatusInternalServerError
	}

	logger.Warn().
		Str("code", domainErr.Code).
		Str("error", domainErr.Message).
		Int("status", status).
		Msg("domain error")

	writeJSON(w, status, ErrorResponse{Error: domainErr.Message, Code: domainErr.Code})
	return true
}
