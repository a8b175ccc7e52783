package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/inventory/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inventory/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/inventory/internal/httpserver/mw"
)

func init() { Register(registerHealth) }

func registerHealth(r chi.Router, d deps.Deps) {
	r.Get("/healthz", handlers.Healthz(d))

	admin := r.With(mw.AllowOnlyCIDRS(d.AdminCIDRS, d.TrustProxy, d.Logger))
	admin.Get("/readyz", handlers.Readyz(d))
	admin.Get("/api/infra", handlers.Infra(d))
}
