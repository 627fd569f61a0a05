package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/assistantai/hub/internal/domain"
	"github.com/assistantai/hub/internal/httpserver/deps"
	"github.com/assistantai/hub/internal/registry"
)

// updateRequest accepts a full or partial app object. Only the mutable
// fields are mapped into the patch; id and port, if present, are parsed and
// then deliberately dropped so clients can echo a whole entry back.
type updateRequest struct {
	ID          *string `json:"id,omitempty"`
	Port        *int    `json:"port,omitempty"`
	Name        *string `json:"name,omitempty"`
	Type        *string `json:"type,omitempty"`
	Description *string `json:"description,omitempty"`
	Enabled     *bool   `json:"enabled,omitempty"`
}

// Update merge-patches the mutable fields of an app.
func Update(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req updateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, d, &domain.ValidationError{Field: "body", Reason: "malformed json"})
			return
		}

		patch := registry.Patch{
			Name:        req.Name,
			Description: req.Description,
			Enabled:     req.Enabled,
		}
		if req.Type != nil {
			t := domain.AppType(*req.Type)
			patch.Type = &t
		}

		if err := d.Registry.UpdateApp(id, patch); err != nil {
			writeError(w, d, err)
			return
		}

		app, err := d.Registry.GetApp(id)
		if err != nil {
			writeError(w, d, err)
			return
		}
		writeJSON(w, http.StatusOK, app)
	}
}
