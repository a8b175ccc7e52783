package domain

import "strings"

// EquipmentInput carries the fields of a manual add.
// Identity and creation time are assigned by the store.
type EquipmentInput struct {
	Type         string `json:"type"`
	Status       string `json:"status"`
	Service      string `json:"service"`
	Department   string `json:"department"`
	Name         string `json:"name"`
	SerialNumber string `json:"serialNumber"`
	DueDate      string `json:"dueDate"`
	IssueDate    string `json:"issueDate"`
	EmpID        string `json:"empId"`
	AssigneeName string `json:"assigneeName"`
	Location     string `json:"location"`
	Remarks      string `json:"remarks"`
}

// EquipmentPatch is a partial update. Nil fields are left untouched;
// a non-nil field overwrites the stored value, even with "".
type EquipmentPatch struct {
	Type         *string `json:"type,omitempty"`
	Status       *string `json:"status,omitempty"`
	Service      *string `json:"service,omitempty"`
	Department   *string `json:"department,omitempty"`
	Name         *string `json:"name,omitempty"`
	SerialNumber *string `json:"serialNumber,omitempty"`
	DueDate      *string `json:"dueDate,omitempty"`
	IssueDate    *string `json:"issueDate,omitempty"`
	EmpID        *string `json:"empId,omitempty"`
	AssigneeName *string `json:"assigneeName,omitempty"`
	Location     *string `json:"location,omitempty"`
	Remarks      *string `json:"remarks,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p EquipmentPatch) IsEmpty() bool {
	return p.Type == nil && p.Status == nil && p.Service == nil &&
		p.Department == nil && p.Name == nil && p.SerialNumber == nil &&
		p.DueDate == nil && p.IssueDate == nil && p.EmpID == nil &&
		p.AssigneeName == nil && p.Location == nil && p.Remarks == nil
}

// Filter is the list view selection. Empty fields match everything.
type Filter struct {
	// Query is a case-insensitive substring searched in the free-text fields.
	Query string
	// Type and Status match case-insensitively.
	Type   string
	Status string
}

// Match reports whether e is selected by f.
func (f Filter) Match(e *Equipment) bool {
	if e == nil {
		return false
	}
	if f.Type != "" && !strings.EqualFold(e.Type, f.Type) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(e.Status, f.Status) {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	for _, field := range []string{
		e.Name, e.SerialNumber, e.AssigneeName, e.EmpID,
		e.Location, e.Department, e.Service, e.Remarks,
	} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Apply selects the records matching f, keeping their order.
func (f Filter) Apply(records []*Equipment) []*Equipment {
	out := make([]*Equipment, 0, len(records))
	for _, e := range records {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
