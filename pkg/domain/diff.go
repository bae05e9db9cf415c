package domain

import (
	"reflect"
)

// StateDiff represents the changes of one state tree between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// Path identifies the state tree (e.g. root/todos).
	Path string `json:"path"`

	// Changes contains only changed, added or deleted top-level keys.
	// For deletions, the key is present with a nil value.
	Changes map[string]any `json:"changes,omitempty"`
}

// Diff calculates the difference between two snapshots of the tree at path.
// If old is nil, every key of new is reported (initial load). It returns nil when nothing changed.
func Diff(path string, old, new map[string]any) *StateDiff {
	delta := make(map[string]any)

	// Check for Added or Modified
	for k, newVal := range new {
		oldVal, exists := old[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}

	// Check for Deletions
	for k := range old {
		if _, exists := new[k]; !exists {
			delta[k] = nil
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return &StateDiff{Path: path, Changes: delta}
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d == nil || len(d.Changes) == 0
}
