package session

import (
	"context"
	"sync"

	"github.com/jonathan/talentfit/internal/progress"
	"github.com/jonathan/talentfit/internal/types"
)

// MemoryStore is an in-process Store. Records are deep-copied in and out.
type MemoryStore struct {
	mu    sync.Mutex
	rec   *types.SessionRecord
	saves int
	// SaveErr, when set, is returned by Save without storing anything.
	SaveErr error
}

// NewMemoryStore returns a store holding rec, which may be nil.
func NewMemoryStore(rec *types.SessionRecord) *MemoryStore {
	m := &MemoryStore{}
	if rec != nil {
		m.rec = rec.Clone()
	}
	return m
}

// Load returns a copy of the held record.
func (m *MemoryStore) Load(_ context.Context) *types.SessionRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.rec == nil {
		return nil
	}
	return m.rec.Clone()
}

// Save replaces the held record.
func (m *MemoryStore) Save(_ context.Context, rec *types.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	rec.State.Normalize()
	rec.ProgressHint = progress.Compute(rec.State).Percent
	m.rec = rec.Clone()
	m.saves++
	return nil
}

// Clear drops the held record.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}

// Saves reports how many successful saves happened.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
