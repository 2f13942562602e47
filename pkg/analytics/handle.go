package analytics

import "context"

// Outcome is the result of Send: either the rate limiter dropped the message
// or it was handed to the transport and Handle resolves to the delivery result.
type Outcome struct {
	// Dropped reports that the rate limiter rejected the message. Nothing was
	// dispatched and Handle is nil. Dropping is a normal outcome, not an error.
	Dropped bool

	// Handle resolves to the transport result once delivery completes.
	// Nil when Dropped.
	Handle *Handle
}

// Handle tracks one asynchronous dispatch. The transport runs on its own
// goroutine; the handle is how callers observe the eventual result without
// blocking on network I/O.
type Handle struct {
	done chan struct{}
	err  error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// finish records the transport result and releases waiters.
// Called exactly once, by the dispatching goroutine.
func (h *Handle) finish(err error) {
	h.err = err
	close(h.done)
}

// Done returns a channel closed when the dispatch completes.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err blocks until the dispatch completes and returns the transport error,
// or nil on success.
func (h *Handle) Err() error {
	<-h.done
	return h.err
}

// Wait blocks until the dispatch completes or ctx is done. The dispatch
// itself is not cancelable; ctx only bounds the wait.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
