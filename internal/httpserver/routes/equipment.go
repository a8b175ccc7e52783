package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/inventory/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inventory/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/inventory/internal/httpserver/mw"
)

func init() { Register(registerEquipment) }

func registerEquipment(r chi.Router, d deps.Deps) {
	// One limiter shared by every write route.
	limit := mw.RateLimit(mw.RateLimitConfig{
		Burst:        d.RateLimitBurst,
		RefillPerMin: d.RateLimitPerMin,
		TrustProxy:   d.TrustProxy,
	})

	r.Route("/api/equipment", func(r chi.Router) {
		r.Get("/", handlers.ListEquipment(d))
		r.Get("/export.csv", handlers.ExportCSV(d))
		r.Get("/export.xlsx", handlers.ExportXLSX(d))

		r.With(limit).Post("/", handlers.CreateEquipment(d))
		r.With(limit).Post("/import", handlers.ImportEquipment(d))
		r.With(limit).Patch("/{id}", handlers.UpdateEquipment(d))
		r.With(limit).Delete("/{id}", handlers.DeleteEquipment(d))
	})
}
