package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/inventory/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inventory/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/inventory/internal/httpserver/mw"
)

func init() { Register(registerSnapshot) }

func registerSnapshot(r chi.Router, d deps.Deps) {
	r.With(mw.AllowOnlyCIDRS(d.AdminCIDRS, d.TrustProxy, d.Logger)).Post("/api/snapshot", handlers.Snapshot(d))
}
