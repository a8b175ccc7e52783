package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/inventory/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inventory/internal/logger"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Store string `json:"store"`
}

// Readyz reports whether the storage backend answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := true
		if d.Store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := d.Store.Ping(ctx); err != nil {
				d.Logger.Warn("store not ready",
					logger.String("store", d.StoreKind),
					logger.Error(err))
				ready = false
			}
		}

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: ready, Store: d.StoreKind})
	}
}
