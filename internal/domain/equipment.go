package domain

import (
	"bytes"
	"encoding/json"
)

// Equipment is the canonical record of one tracked asset.
//
// It is NOT tied to an import format or a storage backend.
// Every source (manual entry, bulk import) is mapped into this structure
// before it is persisted.
type Equipment struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is an opaque identifier. Always a string, even when the
	// import source supplied a number.
	ID string `json:"id"`

	// CreatedAt is the ISO-8601 creation instant.
	// Set once, never touched by updates.
	CreatedAt string `json:"createdAt"`

	// ─────────────────────────────
	// Classification
	// ─────────────────────────────

	Type       string `json:"type"`
	Status     string `json:"status"`
	Service    string `json:"service"`
	Department string `json:"department"`

	// ─────────────────────────────
	// Asset description
	// ─────────────────────────────

	// Name is the asset's model or display name.
	Name         string `json:"name"`
	SerialNumber string `json:"serialNumber"`

	// DueDate and IssueDate are either "" or an ISO-8601 instant.
	DueDate   string `json:"dueDate"`
	IssueDate string `json:"issueDate"`

	// ─────────────────────────────
	// Assignment
	// ─────────────────────────────

	EmpID        string `json:"empId"`
	AssigneeName string `json:"assigneeName"`
	Location     string `json:"location"`
	Remarks      string `json:"remarks"`

	// Extra holds source keys outside the schema. They are stored and
	// returned as-is but never validated.
	Extra map[string]any `json:"-"`
}

// schemaFields lists the JSON keys owned by Equipment.
var schemaFields = map[string]bool{
	"id":           true,
	"createdAt":    true,
	"type":         true,
	"status":       true,
	"service":      true,
	"department":   true,
	"name":         true,
	"serialNumber": true,
	"dueDate":      true,
	"issueDate":    true,
	"empId":        true,
	"assigneeName": true,
	"location":     true,
	"remarks":      true,
}

// IsSchemaField reports whether key is one of Equipment's own JSON keys.
func IsSchemaField(key string) bool {
	return schemaFields[key]
}

// equipmentFields has Equipment's layout without its JSON methods.
type equipmentFields Equipment

// MarshalJSON flattens Extra into the record object. Schema fields win
// over extra keys with the same name.
func (e Equipment) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(equipmentFields(e))
	if err != nil {
		return nil, err
	}
	if len(e.Extra) == 0 {
		return base, nil
	}

	var known map[string]json.RawMessage
	if err := json.Unmarshal(base, &known); err != nil {
		return nil, err
	}

	merged := make(map[string]json.RawMessage, len(known)+len(e.Extra))
	for k, v := range e.Extra {
		if schemaFields[k] {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	for k, v := range known {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// UnmarshalJSON reads schema fields and collects every other key into Extra.
func (e *Equipment) UnmarshalJSON(data []byte) error {
	var fields equipmentFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var raw map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	for k := range raw {
		if schemaFields[k] {
			delete(raw, k)
		}
	}
	if len(raw) > 0 {
		fields.Extra = raw
	}

	*e = Equipment(fields)
	return nil
}

// Clone returns a copy of e. Extra is copied one level deep.
func (e *Equipment) Clone() *Equipment {
	if e == nil {
		return nil
	}
	c := *e
	if e.Extra != nil {
		c.Extra = make(map[string]any, len(e.Extra))
		for k, v := range e.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}
