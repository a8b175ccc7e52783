package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/inventory/internal/domain"
	"github.com/MrSnakeDoc/inventory/internal/logger"
)

type staticLister struct {
	records []*domain.Equipment
	err     error
}

func (s staticLister) GetAll(context.Context) ([]*domain.Equipment, error) {
	return s.records, s.err
}

func TestSnapshotWriter_Snapshot(t *testing.T) {
	dir := t.TempDir()
	source := staticLister{records: []*domain.Equipment{
		{Type: "Marine", Status: "Available", Name: `Crane "big"`},
	}}

	sw := NewSnapshotWriter(source, dir, logger.New("error", false), time.Hour, nil)
	sw.now = func() time.Time { return time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC) }

	path, err := sw.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}

	if filepath.Base(path) != "inventory_snapshot_20250510T120000Z.csv" {
		t.Errorf("unexpected snapshot name %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read snapshot: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Type,Service,Dept,Status") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], `"Crane ""big"""`) {
		t.Errorf("row not quoted as expected: %q", lines[1])
	}

	// No temp files are left behind
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the snapshot in dir, got %d entries", len(entries))
	}
}

func TestSnapshotWriter_SourceError(t *testing.T) {
	dir := t.TempDir()
	sw := NewSnapshotWriter(staticLister{err: errors.New("store down")}, dir, logger.New("error", false), time.Hour, nil)

	if _, err := sw.Snapshot(context.Background()); err == nil {
		t.Fatal("Expected error when the source fails")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected empty dir after failure, got %d entries", len(entries))
	}
}

func TestSnapshotWriter_ManualTrigger(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	trigger := make(chan struct{}, 1)
	sw := NewSnapshotWriter(staticLister{}, dir, logger.New("error", false), time.Hour, trigger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sw.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer sw.Stop()

	trigger <- struct{}{}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		matches, _ := filepath.Glob(filepath.Join(dir, SnapshotPrefix+"*.csv"))
		if len(matches) == 1 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("manual trigger did not produce a snapshot")
}

func TestSnapshotPruner_Prune(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()

	files := map[string]time.Time{
		SnapshotName(now.Add(-35 * 24 * time.Hour)): now.Add(-35 * 24 * time.Hour), // old
		SnapshotName(now.Add(-10 * 24 * time.Hour)): now.Add(-10 * 24 * time.Hour), // recent
		"notes.txt": now.Add(-90 * 24 * time.Hour),                                  // not a snapshot
	}
	for name, mtime := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatalf("failed to set mtime: %v", err)
		}
	}

	sp := NewSnapshotPruner(dir, logger.New("error", false), 24*time.Hour, 30*24*time.Hour)
	sp.now = func() time.Time { return now }

	deleted, err := sp.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Expected 1 deleted snapshot, got %d", deleted)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("Expected 2 files left, got %d", len(entries))
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.txt")); err != nil {
		t.Error("non-snapshot file was removed")
	}
}

func TestNonPositiveIntervalsUseDefaults(t *testing.T) {
	log := logger.New("error", false)

	sw := NewSnapshotWriter(nil, t.TempDir(), log, 0, nil)
	if sw.interval != DefaultInterval {
		t.Errorf("writer interval = %v, want %v", sw.interval, DefaultInterval)
	}

	sp := NewSnapshotPruner(t.TempDir(), log, -time.Minute, -time.Hour)
	if sp.interval != DefaultInterval {
		t.Errorf("pruner interval = %v, want %v", sp.interval, DefaultInterval)
	}
	if sp.retention != DefaultRetention {
		t.Errorf("pruner retention = %v, want %v", sp.retention, DefaultRetention)
	}
}

func TestSnapshotPruner_MissingDir(t *testing.T) {
	sp := NewSnapshotPruner(filepath.Join(t.TempDir(), "absent"), logger.New("error", false), time.Hour, 0)
	if sp.retention != DefaultRetention {
		t.Errorf("retention = %v, want default", sp.retention)
	}
	if n, err := sp.Prune(context.Background()); err != nil || n != 0 {
		t.Errorf("Prune() = %d, %v on a missing dir", n, err)
	}
}
