package redis

import "strings"

const (
	// KeyPrefix namespaces every key written by the inventory service
	KeyPrefix = "inventory:"
	// KeyEquipment holds the JSON document of all equipment records
	KeyEquipment = KeyPrefix + "equipment"
	// KeySavedAt holds the RFC 3339 time of the last write
	KeySavedAt = KeyPrefix + "saved_at"
)

// DocumentKey returns the key for a named collection document.
// An empty name gives the default equipment key.
func DocumentKey(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return KeyEquipment
	}
	if strings.HasPrefix(name, KeyPrefix) {
		return name
	}
	return KeyPrefix + name
}

// SavedAtKey returns the key tracking the last write of document key.
func SavedAtKey(documentKey string) string {
	if documentKey == KeyEquipment {
		return KeySavedAt
	}
	return documentKey + ":saved_at"
}
