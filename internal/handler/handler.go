package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"waw-esim/internal/model"

	"github.com/rs/zerolog"
)

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
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeDomainError maps a domain error to its HTTP status.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	status := http.StatusInternalServerError

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case model.ErrCodeValidation:
			status = http.StatusBadRequest
		case model.ErrCodeNotFound:
			status = http.StatusNotFound
		case model.ErrCodeInvalidState:
			status = http.StatusConflict
		case model.ErrCodeNetwork:
			status = http.StatusBadGateway
		}
	}

	writeError(w, status, err.Error(), logger)
}
