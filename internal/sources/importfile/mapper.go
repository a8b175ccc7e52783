package importfile

import (
	"time"

	"github.com/MrSnakeDoc/inventory/internal/domain"
	"github.com/MrSnakeDoc/inventory/internal/normalize"
)

// Source key aliases, first truthy value wins.
var (
	serialKeys   = []string{"serialNumber", "serial_number", "SerialNumber"}
	dueDateKeys  = []string{"dueDate", "due_date"}
	issueKeys    = []string{"issueDate", "issue_date"}
	empIDKeys    = []string{"empId", "emp_id", "employee_id"}
	assigneeKeys = []string{"assigneeName", "assignee_name"}
	serviceKeys  = []string{"service", "services"}
)

// Mapper converts loosely-typed external records into domain.Equipment.
type Mapper struct {
	now   func() time.Time
	newID func() string
}

// NewMapper creates a mapper using the wall clock and random ids.
func NewMapper() *Mapper {
	return &Mapper{
		now:   time.Now,
		newID: normalize.GenerateID,
	}
}

// WithClock returns a copy of m reading the creation time from now.
func (m *Mapper) WithClock(now func() time.Time) *Mapper {
	c := *m
	c.now = now
	return &c
}

// WithIDs returns a copy of m drawing new identifiers from newID.
func (m *Mapper) WithIDs(newID func() string) *Mapper {
	c := *m
	c.newID = newID
	return &c
}

// MapRecords maps a batch. Elements that are not objects are mapped as
// empty objects, so the output always has one record per input element.
func (m *Mapper) MapRecords(items []any) []*domain.Equipment {
	out := make([]*domain.Equipment, 0, len(items))
	for _, item := range items {
		raw, _ := item.(map[string]any)
		out = append(out, m.MapRecord(raw))
	}
	return out
}

// MapRecord maps one external record. Every schema field gets a value;
// keys outside the schema are carried over unchanged in Extra.
func (m *Mapper) MapRecord(raw map[string]any) *domain.Equipment {
	e := &domain.Equipment{
		SerialNumber: firstString(raw, serialKeys...),
		DueDate:      normalize.SafeDate(first(raw, dueDateKeys...)),
		IssueDate:    normalize.SafeDate(first(raw, issueKeys...)),
		EmpID:        firstString(raw, empIDKeys...),
		Service:      firstString(raw, serviceKeys...),
		Status:       normalize.Enum(raw["status"], domain.DefaultStatus),
		Type:         normalize.Enum(raw["type"], domain.DefaultType),
		Location:     normalize.String(raw["location"]),
		Remarks:      normalize.String(raw["remarks"]),
		Department:   normalize.String(raw["department"]),
	}
	if e.SerialNumber == "" {
		e.SerialNumber = domain.DefaultSerialNumber
	}

	e.Name, e.AssigneeName = resolveNames(raw)

	if id := normalize.String(raw["id"]); id != "" {
		e.ID = id
	} else {
		e.ID = m.newID()
	}

	if created := normalize.String(raw["createdAt"]); created != "" {
		e.CreatedAt = created
	} else {
		e.CreatedAt = m.now().UTC().Format(normalize.ISOLayout)
	}

	for k, v := range raw {
		if domain.IsSchemaField(k) {
			continue
		}
		if e.Extra == nil {
			e.Extra = make(map[string]any, len(raw))
		}
		e.Extra[k] = v
	}

	return e
}

// resolveNames decides what a generic "name" key means.
// With equipment_name present, equipment_name names the asset and "name"
// names the person holding it, unless an explicit assignee key exists.
// Without it, "name" is the asset name.
func resolveNames(raw map[string]any) (name, assignee string) {
	assignee = firstString(raw, assigneeKeys...)

	if equipment := normalize.String(raw["equipment_name"]); equipment != "" {
		name = equipment
		if assignee == "" {
			assignee = normalize.String(raw["name"])
		}
	} else {
		name = normalize.String(raw["name"])
	}

	if name == "" {
		name = domain.DefaultName
	}
	return name, assignee
}

func first(raw map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && !normalize.IsFalsy(v) {
			return v
		}
	}
	return nil
}

func firstString(raw map[string]any, keys ...string) string {
	return normalize.String(first(raw, keys...))
}
