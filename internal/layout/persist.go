package layout

import (
	"context"
	"sync"
)

// Persister reads and writes the full snapshot under one fixed key.
type Persister interface {
	// Load returns the stored snapshot. found is false when nothing has been
	// stored yet.
	Load(ctx context.Context) (snap Snapshot, found bool, err error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap Snapshot) error
}

var _ Persister = (*MemoryPersister)(nil)

// MemoryPersister keeps the snapshot in process memory. Useful for tests and
// for running the dashboard without durable state.
type MemoryPersister struct {
	mu    sync.Mutex
	snap  Snapshot
	found bool
	saves int
	err   error
}

func NewMemoryPersister() *MemoryPersister { return &MemoryPersister{} }

// Seed stores snap as if it had been saved earlier.
func (m *MemoryPersister) Seed(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap, m.found = snap.Clone(), true
}

// FailWith makes every later Save return err; nil clears the failure.
func (m *MemoryPersister) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryPersister) Load(_ context.Context) (Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.found {
		return Snapshot{}, false, nil
	}
	return m.snap.Clone(), true, nil
}

func (m *MemoryPersister) Save(_ context.Context, snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.snap, m.found = snap.Clone(), true
	m.saves++
	return nil
}

// Saves counts successful writes.
func (m *MemoryPersister) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
