package analytics

import (
	"sync"

	"github.com/randalmurphal/analytics/pkg/analytics/event"
)

// contextStore holds the ambient context merged into every outgoing message.
// Reads hand out deep copies, so a snapshot taken at send time is decoupled
// from concurrent mutation.
type contextStore struct {
	mu     sync.RWMutex
	values map[string]any
}

func newContextStore() *contextStore {
	return &contextStore{values: make(map[string]any)}
}

// insert stores value under key, returning the previous value if any.
// Last write wins on collision.
func (s *contextStore) insert(key string, value any) (previous any, replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, replaced = s.values[key]
	s.values[key] = value
	return previous, replaced
}

// remove deletes key, returning the removed value if it was present.
func (s *contextStore) remove(key string) (value any, removed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, removed = s.values[key]
	delete(s.values, key)
	return value, removed
}

// clear removes all entries.
func (s *contextStore) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]any)
}

// snapshot returns a deep copy of the current context.
func (s *contextStore) snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return event.CloneMap(s.values)
}
