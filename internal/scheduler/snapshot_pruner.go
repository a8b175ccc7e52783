package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MrSnakeDoc/inventory/internal/logger"
)

const (
	// DefaultRetention is the age after which snapshot files are deleted
	DefaultRetention = 30 * 24 * time.Hour // 30 days
)

// SnapshotPruner handles cleanup of old snapshot files
type SnapshotPruner struct {
	dir       string
	logger    logger.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
}

// NewSnapshotPruner creates a new pruner
func NewSnapshotPruner(
	dir string,
	log logger.Logger,
	interval time.Duration,
	retention time.Duration,
) *SnapshotPruner {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if retention <= 0 {
		retention = DefaultRetention
	}

	return &SnapshotPruner{
		dir:       dir,
		logger:    log,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic pruning process
func (sp *SnapshotPruner) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := sp.Prune(ctx); err != nil {
		sp.logger.Warn("initial snapshot pruning failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(sp.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := sp.Prune(ctx); err != nil {
					sp.logger.Error("snapshot pruning failed",
						logger.Error(err))
				}
			case <-sp.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the pruner
func (sp *SnapshotPruner) Stop() {
	close(sp.stopCh)
}

// Prune removes snapshot files older than the retention and returns how
// many were deleted. Other files in the directory are left alone.
func (sp *SnapshotPruner) Prune(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(sp.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to list snapshots: %w", err)
	}

	now := sp.now()
	deleted := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return deleted, ctx.Err()
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, SnapshotPrefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		age := now.Sub(info.ModTime())
		if age < sp.retention {
			continue
		}

		if err := os.Remove(filepath.Join(sp.dir, name)); err != nil {
			sp.logger.Warn("failed to delete snapshot",
				logger.String("file", name),
				logger.Error(err))
			continue
		}

		sp.logger.Info("deleted old snapshot",
			logger.String("file", name),
			logger.String("age", age.String()))
		deleted++
	}

	if deleted == 0 {
		sp.logger.Debug("no snapshots to prune")
	}
	return deleted, nil
}
