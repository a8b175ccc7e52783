package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/inventory/internal/inventory"
	"github.com/MrSnakeDoc/inventory/internal/logger"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreStatus is the view of the storage backend used by health endpoints.
type StoreStatus interface {
	Pinger
	LastWrite(ctx context.Context) (time.Time, error)
}

type Deps struct {
	Logger          logger.Logger
	StartTime       time.Time
	Version         string
	Commit          string
	BuildDate       string
	GoVersion       string
	TimeNow         func() time.Time   // for testing, defaults to time.Now
	Inventory       *inventory.Service // owner of the equipment collection
	Store           StoreStatus        // backend behind Inventory, used by readiness checks
	StoreKind       string             // "memory" | "redis" | "sqlite"
	MaxImportBytes  int64              // upper bound of an import request body
	SnapshotTrigger chan struct{}      // Channel to trigger a manual snapshot (nil if snapshots disabled)
	AdminCIDRS      []string           // IPs allowed to access readyz/infra/snapshot endpoints
	TrustProxy      bool               // true if running behind a trusted reverse proxy
	RateLimitBurst  int                // write requests allowed in a burst per client
	RateLimitPerMin int                // write requests refilled per client per minute
}

// Now returns the current time, honoring TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
