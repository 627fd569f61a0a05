package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assistantai/hub/internal/domain"
	"github.com/assistantai/hub/internal/httpserver/deps"
	"github.com/assistantai/hub/internal/logger"
)

type livenessResponse struct {
	Status string `json:"status"`
}

// Liveness probes the app's assigned port and reports running or stopped
// without touching the registry. Observing and recording are separate calls
// on purpose: recording is SetStatus, driven by whoever supervises the
// process.
func Liveness(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		app, err := d.Registry.GetApp(id)
		if err != nil {
			writeError(w, d, err)
			return
		}

		alive := domain.IsAppReachable(r.Context(), app, d.ProbeTimeout)

		if d.Stats != nil {
			if err := d.Stats.RecordProbe(r.Context(), id, alive); err != nil {
				d.Logger.Debug("failed to record probe in stats mirror",
					logger.String("app_id", id),
					logger.Error(err))
			}
		}

		status := domain.StatusStopped
		if alive {
			status = domain.StatusRunning
		}
		writeJSON(w, http.StatusOK, livenessResponse{Status: string(status)})
	}
}
