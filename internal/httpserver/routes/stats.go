package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/inventory/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inventory/internal/httpserver/handlers"
)

func init() { Register(registerStats) }

func registerStats(r chi.Router, d deps.Deps) {
	r.Get("/api/stats", handlers.Stats(d))
	r.Get("/api/labels", handlers.Labels())
}
