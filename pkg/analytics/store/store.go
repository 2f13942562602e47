// Package store persists the client's identity state across runs.
package store

import "errors"

// State is the serializable identity record persisted between runs.
type State struct {
	// AnonymousID is the stable per-installation identifier.
	AnonymousID string `json:"anonymous_id"`

	// UserID is the active user, empty when no user is identified.
	UserID string `json:"user_id,omitempty"`

	// ConnectedIDs maps each user id ever identified to the anonymous id
	// that was active when it was first seen. Entries are never overwritten.
	ConnectedIDs map[string]string `json:"connected_ids"`
}

// Store persists identity state.
// Implementations must be safe for concurrent use.
type Store interface {
	// Load retrieves the persisted state.
	// Returns ErrNotFound if no state has been saved yet.
	Load() (State, error)

	// Save stores the state, replacing any previous state.
	Save(state State) error

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates no state has been persisted yet.
	ErrNotFound = errors.New("state not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("state store closed")
)

// clone returns a copy of s that shares no mutable data with the original.
func clone(s State) State {
	out := s
	if s.ConnectedIDs != nil {
		out.ConnectedIDs = make(map[string]string, len(s.ConnectedIDs))
		for k, v := range s.ConnectedIDs {
			out.ConnectedIDs[k] = v
		}
	}
	return out
}
