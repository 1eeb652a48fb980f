package store

import (
	"github.com/a3tai/mcp-form-export/internal/med"
)

// LastSummary keeps the metadata of the most recent M.E.D
type LastSummary struct {
	store *Store
}

// NewLastSummary wraps s
func NewLastSummary(s *Store) *LastSummary {
	return &LastSummary{store: s}
}

// Save replaces the last summary
func (l *LastSummary) Save(meta med.Meta) error {
	return l.store.Put(med.StoreKey, meta)
}

// Load returns the last summary, or ErrNotFound
func (l *LastSummary) Load() (med.Meta, error) {
	var meta med.Meta
	err := l.store.Get(med.StoreKey, &meta)
	return meta, err
}
