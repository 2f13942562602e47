// Package ratelimit provides pluggable rate limiting for outgoing analytics
// messages.
//
// A Limiter decides, per message, whether the client may dispatch it. Any
// value implementing the single-method interface can be installed on the
// client; Func adapts a plain function. PerEventCap is the built-in strategy:
// a per-event-type cap evaluated over rolling 60-second windows.
package ratelimit

import (
	"github.com/randalmurphal/analytics/pkg/analytics/event"
)

// Limiter gates outgoing messages. Implementations must be safe for
// concurrent use: the client may consult the limiter from many goroutines.
type Limiter interface {
	// LetPass reports whether the message may be dispatched. A false return
	// drops the message; dropping is a normal outcome, not an error.
	LetPass(msg event.Message) bool
}

// Func adapts a plain function to the Limiter interface.
type Func func(msg event.Message) bool

// LetPass implements Limiter.
func (f Func) LetPass(msg event.Message) bool { return f(msg) }

// Key derives the rate-limiting key for a message. Track messages are keyed
// by event name, Page and Screen by their name; the remaining variants fold
// into one key per variant.
func Key(msg event.Message) string {
	switch m := msg.(type) {
	case *event.Track:
		return m.Event
	case *event.Page:
		return m.Name
	case *event.Screen:
		return m.Name
	default:
		return msg.Type()
	}
}
