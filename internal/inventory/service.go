// Package inventory owns the persisted equipment collection.
//
// Every operation reads the whole collection from the backend, changes it in
// memory and writes it back, under a single mutex. Two callers never
// interleave a read-modify-write.
package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/inventory/internal/domain"
	"github.com/MrSnakeDoc/inventory/internal/logger"
	"github.com/MrSnakeDoc/inventory/internal/normalize"
	"github.com/MrSnakeDoc/inventory/internal/sources/importfile"
	"github.com/MrSnakeDoc/inventory/internal/stats"
)

// ErrNotFound is returned by Update and Delete for an unknown id.
var ErrNotFound = errors.New("equipment not found")

// Backend persists the serialized collection as one document.
// Load returns nil data when nothing has been stored yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Service is the single owner of the equipment collection.
type Service struct {
	mu        sync.Mutex
	backend   Backend
	mapper    *importfile.Mapper
	logger    logger.Logger
	now       func() time.Time
	newID     func() string
	dueWindow time.Duration
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the wall clock (creation times and stats).
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDs overrides identifier generation.
func WithIDs(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// WithDueWindow sets how far ahead a due date counts as expiring.
func WithDueWindow(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.dueWindow = d
		}
	}
}

// NewService creates the collection owner on top of backend.
func NewService(backend Backend, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		backend:   backend,
		logger:    log,
		now:       time.Now,
		newID:     normalize.GenerateID,
		dueWindow: domain.DueWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mapper = importfile.NewMapper().WithClock(s.now).WithIDs(s.newID)
	return s
}

// GetAll returns every stored record, in insertion order.
func (s *Service) GetAll(ctx context.Context) ([]*domain.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

// Filter returns the records selected by f.
func (s *Service) Filter(ctx context.Context, f domain.Filter) ([]*domain.Equipment, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(records), nil
}

// Add stores a new record built from in. Omitted fields get the same
// defaults an import would give them.
func (s *Service) Add(ctx context.Context, in domain.EquipmentInput) (*domain.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	e := &domain.Equipment{
		ID:           s.newID(),
		CreatedAt:    s.now().UTC().Format(normalize.ISOLayout),
		Type:         normalize.Enum(in.Type, domain.DefaultType),
		Status:       normalize.Enum(in.Status, domain.DefaultStatus),
		Service:      in.Service,
		Department:   in.Department,
		Name:         orDefault(in.Name, domain.DefaultName),
		SerialNumber: orDefault(in.SerialNumber, domain.DefaultSerialNumber),
		DueDate:      normalize.SafeDate(in.DueDate),
		IssueDate:    normalize.SafeDate(in.IssueDate),
		EmpID:        in.EmpID,
		AssigneeName: in.AssigneeName,
		Location:     in.Location,
		Remarks:      in.Remarks,
	}

	if err := s.save(ctx, append(records, e)); err != nil {
		return nil, err
	}

	s.logger.Debug("equipment added",
		logger.String("id", e.ID),
		logger.String("name", e.Name))
	return e.Clone(), nil
}

// Update overwrites the fields set in patch on the record with the given
// id. ID and CreatedAt never change. An unknown id leaves the store as is.
func (s *Service) Update(ctx context.Context, id string, patch domain.EquipmentPatch) (*domain.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var target *domain.Equipment
	for _, e := range records {
		if e.ID == id {
			target = e
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}

	applyPatch(target, patch)

	if err := s.save(ctx, records); err != nil {
		return nil, err
	}

	s.logger.Debug("equipment updated", logger.String("id", id))
	return target.Clone(), nil
}

// Delete removes every record carrying id.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, e := range records {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	removed := len(records) - len(kept)
	if removed == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}

	if err := s.save(ctx, kept); err != nil {
		return err
	}

	s.logger.Debug("equipment deleted",
		logger.String("id", id),
		logger.Int("removed", removed))
	return nil
}

// ImportBulk maps every item and appends the whole batch in one write.
// Records are never dropped or merged: re-importing the same ids stores
// duplicates.
func (s *Service) ImportBulk(ctx context.Context, items []any) (int, error) {
	mapped := s.mapper.MapRecords(items)

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	if err := s.save(ctx, append(records, mapped...)); err != nil {
		return 0, err
	}

	s.logger.Info("equipment imported",
		logger.Int("count", len(mapped)),
		logger.Int("total", len(records)+len(mapped)))
	return len(mapped), nil
}

// Seed imports items only when the collection is empty, so restarting
// with the same seed file does not duplicate records. It returns the
// number of records written.
func (s *Service) Seed(ctx context.Context, items []any) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load(ctx)
	if err != nil {
		return 0, err
	}
	if len(records) > 0 {
		s.logger.Info("store not empty, seed skipped", logger.Int("total", len(records)))
		return 0, nil
	}

	mapped := s.mapper.MapRecords(items)
	if err := s.save(ctx, mapped); err != nil {
		return 0, err
	}
	s.logger.Info("equipment seeded", logger.Int("count", len(mapped)))
	return len(mapped), nil
}

// Import parses an import payload and stores it. A format or parse error
// aborts the import before anything is written.
func (s *Service) Import(ctx context.Context, data []byte, format importfile.Format) (int, error) {
	items, err := importfile.Parse(data, format)
	if err != nil {
		return 0, err
	}
	return s.ImportBulk(ctx, items)
}

// Stats recomputes the dashboard figures from the full collection.
func (s *Service) Stats(ctx context.Context) (stats.Stats, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return stats.Stats{}, err
	}
	return stats.ComputeWindow(records, s.now(), s.dueWindow), nil
}

// load decodes the stored document. Undecodable content counts as an
// empty collection.
func (s *Service) load(ctx context.Context) ([]*domain.Equipment, error) {
	data, err := s.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load equipment: %w", err)
	}
	if len(data) == 0 {
		return []*domain.Equipment{}, nil
	}

	var records []*domain.Equipment
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("stored equipment is unreadable, treating as empty",
			logger.Error(err))
		return []*domain.Equipment{}, nil
	}

	out := records[:0]
	for _, e := range records {
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Service) save(ctx context.Context, records []*domain.Equipment) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal equipment: %w", err)
	}
	if err := s.backend.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to save equipment: %w", err)
	}
	return nil
}

func applyPatch(e *domain.Equipment, p domain.EquipmentPatch) {
	if p.Type != nil {
		e.Type = normalize.Enum(*p.Type, domain.DefaultType)
	}
	if p.Status != nil {
		e.Status = normalize.Enum(*p.Status, domain.DefaultStatus)
	}
	if p.DueDate != nil {
		e.DueDate = normalize.SafeDate(*p.DueDate)
	}
	if p.IssueDate != nil {
		e.IssueDate = normalize.SafeDate(*p.IssueDate)
	}
	setString(&e.Service, p.Service)
	setString(&e.Department, p.Department)
	setString(&e.Name, p.Name)
	setString(&e.SerialNumber, p.SerialNumber)
	setString(&e.EmpID, p.EmpID)
	setString(&e.AssigneeName, p.AssigneeName)
	setString(&e.Location, p.Location)
	setString(&e.Remarks, p.Remarks)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
