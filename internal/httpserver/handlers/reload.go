package handlers

import (
	"net/http"

	"github.com/assistantai/hub/internal/httpserver/deps"
	"github.com/assistantai/hub/internal/logger"
)

type reloadResponse struct {
	Manifest bool `json:"manifest_triggered"`
	Sweep    bool `json:"sweep_triggered"`
}

// Reload triggers an immediate manifest re-read and liveness sweep. Each
// trigger channel holds one pending request; if a reload is already in
// flight the trigger is dropped and reported as not triggered.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		manifestTriggered := false
		if d.ReloadTrigger != nil {
			select {
			case d.ReloadTrigger <- struct{}{}:
				manifestTriggered = true
				d.Logger.Info("manual manifest reload triggered via endpoint",
					logger.String("remote_ip", r.RemoteAddr))
			default:
				d.Logger.Warn("manifest reload already in progress",
					logger.String("remote_ip", r.RemoteAddr))
			}
		}

		sweepTriggered := false
		if d.SweepTrigger != nil {
			select {
			case d.SweepTrigger <- struct{}{}:
				sweepTriggered = true
				d.Logger.Info("manual liveness sweep triggered via endpoint",
					logger.String("remote_ip", r.RemoteAddr))
			default:
				d.Logger.Warn("liveness sweep already in progress",
					logger.String("remote_ip", r.RemoteAddr))
			}
		}

		status := http.StatusAccepted
		if !manifestTriggered && !sweepTriggered {
			status = http.StatusTooManyRequests
		}
		writeJSON(w, status, reloadResponse{
			Manifest: manifestTriggered,
			Sweep:    sweepTriggered,
		})
	}
}
