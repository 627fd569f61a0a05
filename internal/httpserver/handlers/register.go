package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/assistantai/hub/internal/domain"
	"github.com/assistantai/hub/internal/httpserver/deps"
	"github.com/assistantai/hub/internal/logger"
)

type registerRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

type registerResponse struct {
	Port int `json:"port"`
}

// Register assigns a port to a new app. Re-registering an existing id
// returns its current port, so callers can treat this as "ensure registered".
func Register(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, d, &domain.ValidationError{Field: "body", Reason: "malformed json"})
			return
		}

		port, err := d.Registry.RegisterApp(req.ID, req.Name, domain.AppType(req.Type), req.Description)
		if err != nil {
			writeError(w, d, err)
			return
		}

		if d.Stats != nil {
			if err := d.Stats.RecordRegistration(r.Context(), req.ID, port); err != nil {
				d.Logger.Debug("failed to record registration in stats mirror",
					logger.String("app_id", req.ID),
					logger.Error(err))
			}
		}

		writeJSON(w, http.StatusCreated, registerResponse{Port: port})
	}
}
