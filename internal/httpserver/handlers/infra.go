package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/inventory/internal/httpserver/deps"
)

type componentStatus struct {
	OK      bool   `json:"ok"`
	Kind    string `json:"kind,omitempty"`
	Records *int   `json:"records,omitempty"`
	// LastWrite is the time of the last save, RFC 3339 UTC.
	LastWrite string `json:"lastWrite,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Error   string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the store and the snapshot writer.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"store":     checkStore(r.Context(), d),
			"snapshots": {OK: true, Mode: snapshotMode(d)},
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

// determineMode only looks at the store: snapshots switched off in the
// config are not a fault.
func determineMode(components map[string]componentStatus) string {
	if store, ok := components["store"]; ok && !store.OK {
		return "critical"
	}
	return "optimal"
}

func snapshotMode(d deps.Deps) string {
	if d.SnapshotTrigger == nil {
		return "disabled"
	}
	return "enabled"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var lastWrite string
	if d.Store != nil {
		if err := d.Store.Ping(ctx); err != nil {
			return componentStatus{OK: false, Kind: d.StoreKind, Error: err.Error()}
		}
		lw, err := d.Store.LastWrite(ctx)
		if err != nil {
			return componentStatus{OK: false, Kind: d.StoreKind, Error: err.Error()}
		}
		if !lw.IsZero() {
			lastWrite = lw.UTC().Format(time.RFC3339)
		}
	}

	records, err := d.Inventory.GetAll(ctx)
	if err != nil {
		return componentStatus{OK: false, Kind: d.StoreKind, Error: err.Error()}
	}
	count := len(records)
	return componentStatus{OK: true, Kind: d.StoreKind, Records: &count, LastWrite: lastWrite}
}
