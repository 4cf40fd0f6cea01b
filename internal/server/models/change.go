package models

import (
	"sort"
	"time"
)

// Change targets.
const (
	TargetProfile = "profile"
	TargetResume  = "resume"
)

// ChangeRecord is one audited field change. Records are append-only.
type ChangeRecord struct {
	ID        int64
	AccountID string
	Target    string
	TargetID  string
	Field     string
	OldValue  string
	NewValue  string
	ChangedAt time.Time
}

// Fields is a set of stringified column values keyed by field name.
type Fields map[string]string

// Keys returns the field names in sorted order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
