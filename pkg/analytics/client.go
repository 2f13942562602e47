package analytics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/randalmurphal/analytics/pkg/analytics/event"
	"github.com/randalmurphal/analytics/pkg/analytics/observability"
	"github.com/randalmurphal/analytics/pkg/analytics/ratelimit"
	"github.com/randalmurphal/analytics/pkg/analytics/store"
	"github.com/randalmurphal/analytics/pkg/analytics/transport"
)

// Client enriches analytics messages and dispatches them to a Transport
// without blocking the caller.
//
// All methods are safe for concurrent use. Identity state, the context
// store, and the active rate limiter are each guarded independently, so
// unrelated operations never serialize on one another, and no critical
// section spans a network call.
type Client struct {
	transport transport.Transport
	store     store.Store
	logger    *slog.Logger
	metrics   observability.MetricsRecorder

	identity *identity
	context  *contextStore

	limiterMu sync.RWMutex
	limiter   ratelimit.Limiter

	wg sync.WaitGroup
}

// New creates a client sending through t.
//
// Identity state is loaded from the configured store; any load failure is
// logged and replaced with fresh defaults (a new anonymous id and an empty
// link map), never surfaced. The possibly-freshened state is persisted
// immediately so a first run writes its generated anonymous id.
func New(t transport.Transport, opts ...Option) (*Client, error) {
	if t == nil {
		return nil, fmt.Errorf("transport is required")
	}

	cfg := defaultClientConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	st, err := cfg.store.Load()
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			observability.LogStateLoadError(cfg.logger, err)
		}
		st = store.State{}
	}
	if cfg.anonymousID != "" {
		st.AnonymousID = cfg.anonymousID
	}

	c := &Client{
		transport: t,
		store:     cfg.store,
		logger:    cfg.logger,
		metrics:   cfg.metrics,
		identity:  newIdentity(st),
		context:   newContextStore(),
		limiter:   cfg.limiter,
	}
	c.saveState()
	return c, nil
}

// Send enriches msg and hands it to the transport on a separate goroutine.
//
// The rate limiter is consulted before anything else: a denied message is
// dropped without reading state or touching the transport. Otherwise the
// message is stamped with a consistent snapshot of identity and context and
// dispatched; the returned Outcome's Handle resolves to the transport result.
//
// Send blocks only for the limiter check and the in-memory snapshots, never
// for network I/O.
func (c *Client) Send(msg event.Message) Outcome {
	c.limiterMu.RLock()
	limiter := c.limiter
	c.limiterMu.RUnlock()

	if limiter != nil && !limiter.LetPass(msg) {
		observability.LogDrop(c.logger, msg.Type(), ratelimit.Key(msg))
		c.metrics.RecordDrop(context.Background(), msg.Type())
		return Outcome{Dropped: true}
	}

	anonymousID, userID := c.identity.snapshot()
	stamped := stamp(msg, anonymousID, userID, c.context.snapshot())

	h := newHandle()
	observability.LogDispatch(c.logger, stamped.Type())
	c.wg.Add(1)
	go c.dispatch(stamped, h)
	return Outcome{Handle: h}
}

// dispatch runs the blocking transport call and resolves the handle.
func (c *Client) dispatch(msg event.Message, h *Handle) {
	defer c.wg.Done()

	start := time.Now()
	err := c.transport.Send(context.Background(), msg)
	duration := time.Since(start)

	if err != nil {
		observability.LogTransportError(c.logger, msg.Type(), duration, err)
	}
	c.metrics.RecordDispatch(context.Background(), msg.Type(), duration, err)
	h.finish(err)
}

// SetUserID records id as the active user and persists identity state.
//
// The first time a user id is ever seen (across the lifetime of the
// persisted state) it is linked to the current anonymous id and a synthetic
// Identify message is sent through the normal Send path, rate limiting
// included, to establish the linkage server-side. identified reports whether
// that happened; for an already-linked user the returned Outcome is zero and
// nothing is sent.
//
// An empty id is a no-op; use ClearUserID to clear the active user.
func (c *Client) SetUserID(id string) (out Outcome, identified bool) {
	if id == "" {
		return Outcome{}, false
	}

	already := c.identity.setUserID(id)
	c.saveState()
	if already {
		return Outcome{}, false
	}

	observability.LogUserLinked(c.logger, id)
	return c.Send(&event.Identify{UserID: id}), true
}

// ClearUserID clears the active user. The user-to-anonymous-id links are
// permanent and survive clearing.
func (c *Client) ClearUserID() {
	c.identity.clearUserID()
	c.saveState()
}

// SetAnonymousID overwrites the anonymous id, including the persisted one.
// All subsequent messages carry the new id.
func (c *Client) SetAnonymousID(id string) {
	c.identity.setAnonymousID(id)
	c.saveState()
}

// AnonymousID returns the anonymous id stamped on outgoing messages.
func (c *Client) AnonymousID() string {
	anonymousID, _ := c.identity.snapshot()
	return anonymousID
}

// UserID returns the active user id, if one is set.
func (c *Client) UserID() (string, bool) {
	_, userID := c.identity.snapshot()
	return userID, userID != ""
}

// AddContext stores value under key in the ambient context merged into every
// outgoing message. Returns the previous value if the key existed.
func (c *Client) AddContext(key string, value any) (previous any, replaced bool) {
	return c.context.insert(key, value)
}

// RemoveContext deletes key from the ambient context.
func (c *Client) RemoveContext(key string) (value any, removed bool) {
	return c.context.remove(key)
}

// ClearContext removes all ambient context entries.
func (c *Client) ClearContext() {
	c.context.clear()
}

// Context returns a copy of the current ambient context for introspection.
func (c *Client) Context() map[string]any {
	return c.context.snapshot()
}

// SetRateLimiter installs l as the active rate limiter, replacing any
// previous one. Pass nil to remove rate limiting. The swap is atomic: an
// in-flight Send sees either the old or the new limiter, never a mix.
func (c *Client) SetRateLimiter(l ratelimit.Limiter) {
	c.limiterMu.Lock()
	c.limiter = l
	c.limiterMu.Unlock()
}

// Close waits for in-flight dispatches to finish and persists identity
// state. ctx bounds the wait. Close does not close the state store; its
// lifetime belongs to whoever created it.
func (c *Client) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := c.store.Save(c.identity.state()); err != nil {
		return fmt.Errorf("save identity state: %w", err)
	}
	return nil
}

// saveState persists identity state, logging failures. Persistence problems
// never block or fail the operation that triggered them.
func (c *Client) saveState() {
	if err := c.store.Save(c.identity.state()); err != nil {
		observability.LogStateSaveError(c.logger, err)
	}
}
