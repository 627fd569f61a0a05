package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/assistantai/hub/internal/httpserver/deps"
	"github.com/assistantai/hub/internal/httpserver/handlers"
	"github.com/assistantai/hub/internal/httpserver/mw"
)

func init() { Register(registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	probes := mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
	r.With(probes).Get("/healthz", handlers.Healthz(d))
	r.With(probes).Get("/readyz", handlers.Readyz(d))
	r.With(probes).Get("/infra", handlers.Infra(d))
}
