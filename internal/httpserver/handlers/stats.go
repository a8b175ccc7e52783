package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/inventory/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inventory/internal/logger"
)

// Stats returns the dashboard figures for the whole collection.
func Stats(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Inventory.Stats(r.Context())
		if err != nil {
			d.Logger.Error("failed to compute stats", logger.Error(err))
			writeError(w, errorStatus(err), "failed to compute stats")
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}
