package handlers

import (
	"net/http"

	"github.com/assistantai/hub/internal/httpserver/deps"
)

// List returns registered apps in insertion order. Disabled entries are
// hidden unless ?all=true is passed.
func List(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all := r.URL.Query().Get("all") == "true"
		apps := d.Registry.ListApps(!all)
		writeJSON(w, http.StatusOK, apps)
	}
}
