package domain

import "time"

// Type labels.
const (
	TypeANDT      = "ANDT"
	TypeNA        = "NA"
	TypeOCTG      = "OCTG"
	TypeMarine    = "MARINE"
	TypeAccessory = "Accessory"
	TypeOther     = "Other"
)

// Status labels.
const (
	StatusAvailable   = "Available"
	StatusAssigned    = "Assigned"
	StatusMaintenance = "Maintenance"
	StatusBreakdown   = "Breakdown"
	StatusDisposed    = "Disposed"
)

// Defaults applied when a source omits a field.
const (
	DefaultType         = TypeOther
	DefaultStatus       = StatusAvailable
	DefaultName         = "Unknown Equipment"
	DefaultSerialNumber = "N/A"
)

// DueWindow is how far ahead a due date counts as expiring.
const DueWindow = 30 * 24 * time.Hour

// Types returns the type labels in display order.
func Types() []string {
	return []string{TypeANDT, TypeNA, TypeOCTG, TypeMarine, TypeAccessory, TypeOther}
}

// Statuses returns the status labels in display order.
func Statuses() []string {
	return []string{StatusAvailable, StatusAssigned, StatusMaintenance, StatusBreakdown, StatusDisposed}
}
