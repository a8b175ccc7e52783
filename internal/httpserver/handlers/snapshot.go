package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/inventory/internal/httpserver/deps"
	"github.com/MrSnakeDoc/inventory/internal/logger"
)

type snapshotResponse struct {
	Status string `json:"status"`
}

// Snapshot triggers a manual CSV snapshot
func Snapshot(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.SnapshotTrigger == nil {
			writeError(w, http.StatusNotFound, "snapshots are disabled")
			return
		}

		select {
		case d.SnapshotTrigger <- struct{}{}:
			d.Logger.Info("manual snapshot triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, snapshotResponse{Status: "triggered"})
		default:
			d.Logger.Warn("snapshot already pending",
				logger.String("remote_ip", r.RemoteAddr))
			writeError(w, http.StatusTooManyRequests, "snapshot already in progress, please wait")
		}
	}
}
