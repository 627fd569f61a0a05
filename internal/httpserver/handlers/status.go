package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assistantai/hub/internal/domain"
	"github.com/assistantai/hub/internal/httpserver/deps"
	"github.com/assistantai/hub/internal/logger"
)

type statusRequest struct {
	Status string `json:"status"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// SetStatus records a reported process state. Reporting about an unknown id
// is answered with 200 and discarded: probes race removals all the time and
// the reporter can't do anything useful with an error.
func SetStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, d, &domain.ValidationError{Field: "body", Reason: "malformed json"})
			return
		}

		status := domain.Status(req.Status)
		if err := d.Registry.UpdateAppStatus(id, status); err != nil {
			writeError(w, d, err)
			return
		}

		if d.Stats != nil {
			if err := d.Stats.RecordStatus(r.Context(), id, status); err != nil {
				d.Logger.Debug("failed to record status in stats mirror",
					logger.String("app_id", id),
					logger.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, statusResponse{Status: req.Status})
	}
}
