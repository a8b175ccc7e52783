package inventory

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MrSnakeDoc/inventory/internal/domain"
	"github.com/MrSnakeDoc/inventory/internal/logger"
	"github.com/MrSnakeDoc/inventory/internal/sources/importfile"
	"github.com/MrSnakeDoc/inventory/internal/store/memory"
)

var testNow = time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	n := 0
	svc := NewService(store, logger.New("error", false),
		WithClock(func() time.Time { return testNow }),
		WithIDs(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	return svc, store
}

func strPtr(s string) *string { return &s }

func TestAddFillsDefaults(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	e, err := svc.Add(ctx, domain.EquipmentInput{Status: "assigned", DueDate: "2025-06-01"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if e.ID != "id-1" {
		t.Errorf("ID = %q, want id-1", e.ID)
	}
	if e.CreatedAt != "2025-05-10T12:00:00.000Z" {
		t.Errorf("CreatedAt = %q", e.CreatedAt)
	}
	if e.Status != domain.StatusAssigned || e.Type != domain.TypeOther {
		t.Errorf("Status, Type = %q, %q", e.Status, e.Type)
	}
	if e.Name != domain.DefaultName || e.SerialNumber != domain.DefaultSerialNumber {
		t.Errorf("Name, SerialNumber = %q, %q", e.Name, e.SerialNumber)
	}
	if e.DueDate != "2025-06-01T00:00:00.000Z" {
		t.Errorf("DueDate = %q", e.DueDate)
	}

	all, err := svc.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(all) != 1 || all[0].ID != "id-1" {
		t.Errorf("GetAll() = %v, want the added record", all)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, domain.EquipmentInput{Name: "Winch", Location: "Yard A", Remarks: "new"})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	updated, err := svc.Update(ctx, added.ID, domain.EquipmentPatch{
		Status:  strPtr("BREAKDOWN"),
		Remarks: strPtr(""),
		DueDate: strPtr("garbage"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.Status != domain.StatusBreakdown {
		t.Errorf("Status = %q, want Breakdown", updated.Status)
	}
	if updated.Remarks != "" {
		t.Errorf("Remarks = %q, want cleared", updated.Remarks)
	}
	if updated.DueDate != "" {
		t.Errorf("DueDate = %q, want empty for garbage", updated.DueDate)
	}
	if updated.Name != "Winch" || updated.Location != "Yard A" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.CreatedAt != added.CreatedAt || updated.ID != added.ID {
		t.Errorf("identity changed: %+v vs %+v", updated, added)
	}
}

func TestUpdateUnknownIDLeavesStoreUnchanged(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, domain.EquipmentInput{Name: "Torch"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	before, _ := store.Load(ctx)

	_, err := svc.Update(ctx, "missing", domain.EquipmentPatch{Name: strPtr("x")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}

	after, _ := store.Load(ctx)
	if !bytes.Equal(before, after) {
		t.Errorf("store changed after failed update:\n%s\n%s", before, after)
	}
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ImportBulk(ctx, []any{
		map[string]any{"id": "a"},
		map[string]any{"id": "b"},
		map[string]any{"id": "a"},
	}); err != nil {
		t.Fatalf("ImportBulk() error = %v", err)
	}

	if err := svc.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	all, _ := svc.GetAll(ctx)
	if len(all) != 1 || all[0].ID != "b" {
		t.Errorf("GetAll() after delete = %v, want only b", all)
	}

	if err := svc.Delete(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() of missing id error = %v, want ErrNotFound", err)
	}
}

func TestImportBulkKeepsDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	n, err := svc.ImportBulk(ctx, []any{
		map[string]any{"id": 1.0},
		map[string]any{"id": 1.0},
	})
	if err != nil {
		t.Fatalf("ImportBulk() error = %v", err)
	}
	if n != 2 {
		t.Errorf("ImportBulk() = %d, want 2", n)
	}

	all, _ := svc.GetAll(ctx)
	if len(all) != 2 {
		t.Fatalf("GetAll() returned %d records, want 2", len(all))
	}
	for _, e := range all {
		if e.ID != "1" {
			t.Errorf("ID = %q, want \"1\"", e.ID)
		}
	}

	if _, err := svc.ImportBulk(ctx, []any{map[string]any{"id": 1.0}, map[string]any{"id": 1.0}}); err != nil {
		t.Fatalf("second ImportBulk() error = %v", err)
	}
	all, _ = svc.GetAll(ctx)
	if len(all) != 4 {
		t.Errorf("GetAll() after re-import returned %d records, want 4", len(all))
	}
}

func TestImportAppendsToExisting(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Add(ctx, domain.EquipmentInput{Name: "Existing"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	payload := []byte(`[{"id": 42, "due_date": "2024-01-01", "equipment_name": "Drill", "name": "Alice", "vendor": "ACME"}]`)
	n, err := svc.Import(ctx, payload, importfile.FormatJSON)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Import() = %d, want 1", n)
	}

	all, _ := svc.GetAll(ctx)
	if len(all) != 2 {
		t.Fatalf("GetAll() returned %d records, want 2", len(all))
	}
	imported := all[1]
	if imported.ID != "42" || imported.Name != "Drill" || imported.AssigneeName != "Alice" {
		t.Errorf("imported = %+v", imported)
	}
	if imported.Extra["vendor"] != "ACME" {
		t.Errorf("Extra[vendor] = %v, want ACME to survive storage", imported.Extra["vendor"])
	}
}

func TestImportNumericIDsShareStringForm(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	payload := []byte(`[{"id": 42}, {"id": 42.0}, {"id": 4.20e1}, {"id": 1e3}]`)
	if _, err := svc.Import(ctx, payload, importfile.FormatJSON); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	all, _ := svc.GetAll(ctx)
	var ids []string
	for _, e := range all {
		ids = append(ids, e.ID)
	}
	want := []string{"42", "42", "42", "1000"}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}

	if err := svc.Delete(ctx, "42"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	all, _ = svc.GetAll(ctx)
	if len(all) != 1 || all[0].ID != "1000" {
		t.Errorf("after Delete(42) = %v, want only id 1000", all)
	}
}

func TestImportYAMLNonFiniteFloats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	payload := []byte("- name: Drill\n  weight: .nan\n  depth: .inf\n- name: Winch\n")
	n, err := svc.Import(ctx, payload, importfile.FormatYAML)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Import() = %d, want 2", n)
	}

	all, _ := svc.GetAll(ctx)
	if len(all) != 2 {
		t.Fatalf("GetAll() returned %d records, want 2", len(all))
	}
	if v, ok := all[0].Extra["weight"]; ok && v != nil {
		t.Errorf("Extra[weight] = %v, want nil", v)
	}
}

func TestSeedOnlyFillsEmptyStore(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	items := []any{map[string]any{"equipment_name": "Drill"}}
	n, err := svc.Seed(ctx, items)
	if err != nil || n != 1 {
		t.Fatalf("Seed() = %d, %v, want 1, nil", n, err)
	}

	n, err = svc.Seed(ctx, items)
	if err != nil || n != 0 {
		t.Fatalf("second Seed() = %d, %v, want 0, nil", n, err)
	}
	all, _ := svc.GetAll(ctx)
	if len(all) != 1 || all[0].Name != "Drill" {
		t.Errorf("GetAll() = %v, want the single seeded record", all)
	}
}

func TestImportRejectsBadPayloadWithoutWriting(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		payload string
		wantErr error
	}{
		{name: "object root", payload: `{"id": 1}`, wantErr: importfile.ErrInvalidFormat},
		{name: "syntax error", payload: `[{"id": 1},`, wantErr: importfile.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Import(ctx, []byte(tt.payload), importfile.FormatJSON)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Import() error = %v, want %v", err, tt.wantErr)
			}
			if lw, _ := store.LastWrite(ctx); !lw.IsZero() {
				t.Error("Import() wrote to the store on a rejected payload")
			}
		})
	}
}

func TestCorruptStateIsEmpty(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	if err := store.Save(ctx, []byte(`{not json`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	all, err := svc.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll() error = %v, corrupt state should read as empty", err)
	}
	if len(all) != 0 {
		t.Errorf("GetAll() returned %d records, want 0", len(all))
	}

	if _, err := svc.Add(ctx, domain.EquipmentInput{Name: "Fresh"}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	all, _ = svc.GetAll(ctx)
	if len(all) != 1 {
		t.Errorf("GetAll() after add returned %d records, want 1", len(all))
	}
}

type failingBackend struct{}

func (failingBackend) Load(context.Context) ([]byte, error) { return nil, errors.New("backend down") }
func (failingBackend) Save(context.Context, []byte) error   { return errors.New("backend down") }

func TestBackendErrorsSurface(t *testing.T) {
	svc := NewService(failingBackend{}, logger.NewNop())
	if _, err := svc.GetAll(context.Background()); err == nil {
		t.Error("GetAll() should fail when the backend fails")
	}
	if _, err := svc.ImportBulk(context.Background(), []any{map[string]any{}}); err == nil {
		t.Error("ImportBulk() should fail when the backend fails")
	}
}

func TestFilterAndStats(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	day := 24 * time.Hour
	_, err := svc.ImportBulk(ctx, []any{
		map[string]any{"type": "marine", "status": "breakdown", "dueDate": testNow.Add(-day).Format(time.RFC3339)},
		map[string]any{"type": "MARINE", "status": "Breakdown", "dueDate": testNow.Add(31 * day).Format(time.RFC3339)},
		map[string]any{"type": "accessory", "status": "maintenance", "name": "Torch", "dueDate": testNow.Add(30 * day).Format(time.RFC3339)},
	})
	if err != nil {
		t.Fatalf("ImportBulk() error = %v", err)
	}

	s, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if s.Total != 3 || s.Breakdown != 2 || s.Maintenance != 1 || s.Expired != 2 {
		t.Errorf("Stats() = %+v", s)
	}
	if s.ByType["Marine"] != 2 || s.ByType["Accessory"] != 1 {
		t.Errorf("ByType = %v", s.ByType)
	}

	got, err := svc.Filter(ctx, domain.Filter{Query: "torch"})
	if err != nil {
		t.Fatalf("Filter() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Torch" {
		t.Errorf("Filter() = %v, want Torch", got)
	}
}
