package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assistantai/hub/internal/httpserver/deps"
)

// Stats returns the recorded activity counters for one app from the Redis
// mirror. When the mirror is disabled the endpoint answers 503 rather than
// pretending there are no stats.
func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Stats == nil {
			writeJSON(w, http.StatusServiceUnavailable,
				errorResponse{Error: "stats mirror disabled"})
			return
		}

		id := chi.URLParam(r, "id")
		stats, err := d.Stats.GetStats(r.Context(), id)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
