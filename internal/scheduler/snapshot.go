package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MrSnakeDoc/inventory/internal/domain"
	"github.com/MrSnakeDoc/inventory/internal/export"
	"github.com/MrSnakeDoc/inventory/internal/logger"
)

const (
	// SnapshotPrefix starts every snapshot file name.
	SnapshotPrefix = "inventory_snapshot_"
	// DefaultInterval is used when no positive interval is given.
	DefaultInterval = 24 * time.Hour
)

// Lister is the part of the inventory the snapshot writer reads.
type Lister interface {
	GetAll(ctx context.Context) ([]*domain.Equipment, error)
}

// SnapshotWriter periodically dumps the full collection as CSV into a directory
type SnapshotWriter struct {
	source        Lister
	dir           string
	logger        logger.Logger
	interval      time.Duration
	now           func() time.Time
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewSnapshotWriter creates a new snapshot writer
func NewSnapshotWriter(
	source Lister,
	dir string,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SnapshotWriter {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &SnapshotWriter{
		source:        source,
		dir:           dir,
		logger:        log,
		interval:      interval,
		now:           time.Now,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start creates the snapshot directory and begins the periodic loop
func (sw *SnapshotWriter) Start(ctx context.Context) error {
	if err := os.MkdirAll(sw.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	ticker := time.NewTicker(sw.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := sw.Snapshot(ctx); err != nil {
					sw.logger.Error("failed to write snapshot",
						logger.Error(err))
				}
			case <-sw.manualTrigger:
				sw.logger.Info("manual snapshot triggered")
				if _, err := sw.Snapshot(ctx); err != nil {
					sw.logger.Error("failed to write snapshot",
						logger.Error(err))
				}
			case <-sw.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the writer
func (sw *SnapshotWriter) Stop() {
	close(sw.stopCh)
}

// Snapshot writes one CSV file and returns its path. The file appears
// under its final name only once fully written.
func (sw *SnapshotWriter) Snapshot(ctx context.Context) (string, error) {
	records, err := sw.source.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read equipment: %w", err)
	}

	tmp, err := os.CreateTemp(sw.dir, ".snapshot-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := export.WriteCSV(tmp, records); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	path := filepath.Join(sw.dir, SnapshotName(sw.now()))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to publish snapshot: %w", err)
	}

	sw.logger.Info("snapshot written",
		logger.String("path", path),
		logger.Int("count", len(records)))
	return path, nil
}

// SnapshotName returns the file name of a snapshot taken at t.
func SnapshotName(t time.Time) string {
	return SnapshotPrefix + t.UTC().Format("20060102T150405Z") + ".csv"
}
