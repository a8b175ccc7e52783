// Package stats derives dashboard figures from the full record set.
package stats

import (
	"strings"
	"time"

	"github.com/MrSnakeDoc/inventory/internal/domain"
	"github.com/MrSnakeDoc/inventory/internal/normalize"
)

// Stats are recomputed on every read; nothing here is persisted.
type Stats struct {
	Total       int            `json:"total"`
	ByType      map[string]int `json:"byType"`
	Breakdown   int            `json:"breakdown"`
	Maintenance int            `json:"maintenance"`
	// Expired counts due dates up to now+window, overdue ones included.
	Expired int `json:"expired"`
}

// Compute folds records into Stats using the default 30 day window.
func Compute(records []*domain.Equipment, now time.Time) Stats {
	return ComputeWindow(records, now, domain.DueWindow)
}

// ComputeWindow is Compute with an explicit due-date window.
func ComputeWindow(records []*domain.Equipment, now time.Time, window time.Duration) Stats {
	horizon := now.Add(window)
	s := Stats{
		Total:  len(records),
		ByType: make(map[string]int),
	}

	for _, e := range records {
		if e == nil {
			continue
		}

		// Same case folding as ingestion, so "marine" and "MARINE" share a bucket.
		s.ByType[normalize.Enum(e.Type, domain.DefaultType)]++

		switch {
		case strings.EqualFold(e.Status, domain.StatusBreakdown):
			s.Breakdown++
		case strings.EqualFold(e.Status, domain.StatusMaintenance):
			s.Maintenance++
		}

		if due, ok := normalize.ParseDate(e.DueDate); ok && !due.After(horizon) {
			s.Expired++
		}
	}

	return s
}
