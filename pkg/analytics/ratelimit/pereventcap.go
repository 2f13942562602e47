package ratelimit

import (
	"sync"
	"time"

	"github.com/randalmurphal/analytics/pkg/analytics/event"
)

// window is the length of the rolling interval a cap applies to.
const window = 60 * time.Second

// PerEventCap caps the number of messages per minute for each event type.
//
// Every event type (see Key) is tracked independently: exhausting one type's
// budget never affects another's. Windows are evaluated lazily, on access
// rather than on a timer, so a key with no traffic keeps its last count in
// Stats until the next check or stats read touches it.
type PerEventCap struct {
	eventsPerMinute uint32
	counters        sync.Map // key string -> *counter
}

// counter tracks one event type. Its mutex makes the window check and the
// compare-and-increment a single critical section per key.
type counter struct {
	mu          sync.Mutex
	count       uint32
	windowStart time.Time
}

// resetIfExpired restarts the window when it has elapsed.
// Callers must hold c.mu.
func (c *counter) resetIfExpired(now time.Time) {
	if now.Sub(c.windowStart) >= window {
		c.count = 0
		c.windowStart = now
	}
}

// NewPerEventCap creates a limiter allowing at most eventsPerMinute messages
// per rolling 60-second window for each event type.
func NewPerEventCap(eventsPerMinute uint32) *PerEventCap {
	return &PerEventCap{eventsPerMinute: eventsPerMinute}
}

// LetPass implements Limiter.
func (p *PerEventCap) LetPass(msg event.Message) bool {
	return p.Allow(Key(msg))
}

// Allow checks the cap for key, counting the call when it is allowed.
func (p *PerEventCap) Allow(key string) bool {
	c := p.counterFor(key)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetIfExpired(time.Now())
	if c.count < p.eventsPerMinute {
		c.count++
		return true
	}
	return false
}

// Stats returns the current count per event type. Each counter is lazily
// reset before it is read, so expired windows report zero.
func (p *PerEventCap) Stats() map[string]uint32 {
	now := time.Now()
	stats := make(map[string]uint32)
	p.counters.Range(func(k, v any) bool {
		c := v.(*counter)
		c.mu.Lock()
		c.resetIfExpired(now)
		stats[k.(string)] = c.count
		c.mu.Unlock()
		return true
	})
	return stats
}

// Reset clears all counters immediately.
func (p *PerEventCap) Reset() {
	p.counters.Clear()
}

func (p *PerEventCap) counterFor(key string) *counter {
	if v, ok := p.counters.Load(key); ok {
		return v.(*counter)
	}
	v, _ := p.counters.LoadOrStore(key, &counter{windowStart: time.Now()})
	return v.(*counter)
}
