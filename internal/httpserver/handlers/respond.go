package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/assistantai/hub/internal/domain"
	"github.com/assistantai/hub/internal/httpserver/deps"
	"github.com/assistantai/hub/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the registry's error taxonomy onto HTTP statuses:
// validation → 400, unknown id → 404, allocator exhaustion → 507, anything
// else (persistence included) → 500. Nothing here is retried server-side.
func writeError(w http.ResponseWriter, d deps.Deps, err error) {
	status := http.StatusInternalServerError
	switch {
	case domain.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrPortExhausted):
		status = http.StatusInsufficientStorage
	}

	if status >= 500 {
		d.Logger.Error("request failed", logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
