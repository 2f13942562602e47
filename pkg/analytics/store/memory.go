package store

import "sync"

// MemoryStore is an in-memory state store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	state  State
	saved  bool
	closed bool
}

// NewMemoryStore creates a new in-memory state store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (m *MemoryStore) Load() (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return State{}, ErrStoreClosed
	}
	if !m.saved {
		return State{}, ErrNotFound
	}
	return clone(m.state), nil
}

// Save implements Store.
func (m *MemoryStore) Save(state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	m.state = clone(state)
	m.saved = true
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}
