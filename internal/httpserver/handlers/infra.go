package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/assistantai/hub/internal/httpserver/deps"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Apps   *int   `json:"apps,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
	Path   string `json:"path,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the health of the hub's own moving parts: the registry
// file, the optional manifest seed and the optional Redis stats mirror.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		appCount := d.Registry.Count()

		components := map[string]componentStatus{
			"registry": {
				OK:   true,
				Apps: &appCount,
				Path: d.RegistryFile,
			},
			"manifest": checkManifest(d),
			"redis":    checkRedis(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func checkManifest(d deps.Deps) componentStatus {
	if d.ManifestFile == "" {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "no-declarative-seed",
		}
	}
	return componentStatus{
		OK:   true,
		Mode: "enabled",
		Path: d.ManifestFile,
	}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     true,
			Mode:   "disabled",
			Impact: "stats-disabled",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "stats-unavailable",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:   true,
		Mode: "enabled",
	}
}

// determineMode summarizes the component table. The registry alone is
// load-bearing; a dead stats mirror only degrades observability.
func determineMode(components map[string]componentStatus) string {
	if reg, exists := components["registry"]; exists && !reg.OK {
		return "critical"
	}
	if rds, exists := components["redis"]; exists && !rds.OK {
		return "degraded"
	}
	return "nominal"
}
