package analytics

import (
	"sync"

	"github.com/google/uuid"

	"github.com/randalmurphal/analytics/pkg/analytics/store"
)

// identity holds the engine-owned identity state: the anonymous id, the
// active user id, and the set-once map from user id to the anonymous id that
// was active when that user was first identified.
type identity struct {
	mu          sync.Mutex
	anonymousID string
	userID      string
	connected   map[string]string
}

// newIdentity builds identity state from a persisted record. A missing
// anonymous id is generated, so the invariant "anonymous id always present"
// holds from construction on.
func newIdentity(st store.State) *identity {
	id := &identity{
		anonymousID: st.AnonymousID,
		userID:      st.UserID,
		connected:   st.ConnectedIDs,
	}
	if id.anonymousID == "" {
		id.anonymousID = uuid.NewString()
	}
	if id.connected == nil {
		id.connected = make(map[string]string)
	}
	return id
}

// snapshot returns a consistent view of the anonymous and user id.
func (i *identity) snapshot() (anonymousID, userID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.anonymousID, i.userID
}

// setAnonymousID overwrites the anonymous id. Existing connected-id entries
// are left untouched: they record the anonymous id at first identification.
func (i *identity) setAnonymousID(id string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.anonymousID = id
}

// setUserID records id as the active user. The first time a user id is seen
// it is linked to the current anonymous id permanently; already reports
// whether that link existed before this call.
func (i *identity) setUserID(id string) (already bool) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.userID = id
	if _, ok := i.connected[id]; ok {
		return true
	}
	i.connected[id] = i.anonymousID
	return false
}

// clearUserID removes the active user. Connected-id entries are permanent
// and survive clearing.
func (i *identity) clearUserID() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.userID = ""
}

// state returns a consistent, detached snapshot for persistence.
func (i *identity) state() store.State {
	i.mu.Lock()
	defer i.mu.Unlock()

	connected := make(map[string]string, len(i.connected))
	for k, v := range i.connected {
		connected[k] = v
	}
	return store.State{
		AnonymousID:  i.anonymousID,
		UserID:       i.userID,
		ConnectedIDs: connected,
	}
}
