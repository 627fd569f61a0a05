package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assistantai/hub/internal/httpserver/deps"
	"github.com/assistantai/hub/internal/logger"
)

type removeResponse struct {
	Removed string `json:"removed"`
}

// Remove deletes an app permanently. Removal is idempotent: deleting an
// unknown id still answers 200.
func Remove(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if err := d.Registry.RemoveApp(id); err != nil {
			writeError(w, d, err)
			return
		}

		if d.Stats != nil {
			if err := d.Stats.Forget(r.Context(), id); err != nil {
				d.Logger.Debug("failed to drop stats for removed app",
					logger.String("app_id", id),
					logger.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, removeResponse{Removed: id})
	}
}
