package analytics

import (
	"fmt"

	"github.com/randalmurphal/analytics/pkg/analytics/config"
	"github.com/randalmurphal/analytics/pkg/analytics/ratelimit"
	"github.com/randalmurphal/analytics/pkg/analytics/store"
	"github.com/randalmurphal/analytics/pkg/analytics/transport"
)

// Open builds a client from settings: an HTTP transport for the configured
// data plane, a file-backed state store when StatePath is set (in-memory
// otherwise), and a per-event-type cap when EventsPerMinute is positive.
//
// Additional options are applied after the settings-derived ones, so they
// can override any of them.
func Open(cfg config.Settings, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	t, err := transport.NewHTTP(transport.HTTPConfig{
		DataPlaneURL: cfg.DataPlaneURL,
		WriteKey:     cfg.WriteKey,
		Timeout:      cfg.Timeout.Std(),
	})
	if err != nil {
		return nil, fmt.Errorf("build transport: %w", err)
	}

	var base []Option
	if cfg.StatePath != "" {
		base = append(base, WithStore(store.NewFileStore(cfg.StatePath)))
	}
	if cfg.AnonymousID != "" {
		base = append(base, WithAnonymousID(cfg.AnonymousID))
	}
	if cfg.EventsPerMinute > 0 {
		base = append(base, WithRateLimiter(ratelimit.NewPerEventCap(cfg.EventsPerMinute)))
	}

	return New(t, append(base, opts...)...)
}
