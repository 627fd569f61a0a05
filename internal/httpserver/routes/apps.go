package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/assistantai/hub/internal/httpserver/deps"
	"github.com/assistantai/hub/internal/httpserver/handlers"
	"github.com/assistantai/hub/internal/httpserver/mw"
)

func init() { Register(registerApps) }

// The whole /apps surface is host-enforced; mutations are additionally
// gated on the CIDR allow-list. Both act as passthrough when unconfigured.
func registerApps(r chi.Router, d deps.Deps) {
	guard := mw.EnforceHost(d.AllowedHosts, d.Logger)
	mutGuard := mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)

	r.With(guard).Route("/apps", func(r chi.Router) {
		r.Get("/", handlers.List(d))
		r.Get("/{id}", handlers.Get(d))
		r.Get("/{id}/port", handlers.GetPort(d))
		r.Get("/{id}/liveness", handlers.Liveness(d))
		r.Get("/{id}/stats", handlers.Stats(d))

		r.With(mutGuard).Post("/", handlers.Register(d))
		r.With(mutGuard).Post("/{id}/status", handlers.SetStatus(d))
		r.With(mutGuard).Patch("/{id}", handlers.Update(d))
		r.With(mutGuard).Delete("/{id}", handlers.Remove(d))
	})
}
