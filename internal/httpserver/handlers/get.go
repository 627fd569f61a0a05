package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assistantai/hub/internal/httpserver/deps"
)

// Get returns one app by id, 404 when unknown.
func Get(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		app, err := d.Registry.GetApp(id)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, app)
	}
}

type portResponse struct {
	Port int `json:"port"`
}

// GetPort returns just the assigned port for an app, 404 when unknown.
func GetPort(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		port, err := d.Registry.GetPort(id)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, portResponse{Port: port})
	}
}
