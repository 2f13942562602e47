// Package transport delivers stamped messages to the collection endpoint.
//
// The client treats a Transport as a blocking collaborator: Send is invoked
// off the caller's goroutine and its result is surfaced through the dispatch
// handle. Retries and backoff belong to the Transport implementation, not to
// the client.
package transport

import (
	"context"
	"fmt"

	"github.com/randalmurphal/analytics/pkg/analytics/event"
)

// Transport sends one wire message to the collection endpoint.
// Implementations must be safe for concurrent use.
type Transport interface {
	// Send delivers the message, blocking until it is accepted or fails.
	Send(ctx context.Context, msg event.Message) error
}

// Error represents a delivery failure with the endpoint's HTTP status.
type Error struct {
	StatusCode int
	Message    string
	Endpoint   string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("HTTP %d at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
