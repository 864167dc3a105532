// Package rest serves the HTTP API: auth, game state, building purchases,
// income collection and health probes.
package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/greenrush/tycoon-backend/internal/domain"
)

// errorResponse is the body of every non-2xx response. Code is a stable
// machine-readable identifier; clients branch on it, not on the message.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// handleError maps domain errors to HTTP status + stable code. Anything
// unmapped is a 500 and gets logged with its full chain; the client sees
// only a generic message.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error(), "VALIDATION")
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusBadRequest, "insufficient funds", "INSUFFICIENT_FUNDS")
	case errors.Is(err, domain.ErrCellOccupied):
		writeError(w, http.StatusConflict, "cell is already occupied", "CELL_OCCUPIED")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists", "ALREADY_EXISTS")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", "UNAUTHORIZED")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "NOT_FOUND")
	case errors.Is(err, domain.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable", "STORAGE_UNAVAILABLE")
	case errors.Is(err, domain.ErrIntegrity):
		log.ErrorContext(r.Context(), "integrity fault", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error", "INTEGRITY")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error", "INTERNAL")
	}
}
