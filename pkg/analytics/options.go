package analytics

import (
	"log/slog"

	"github.com/randalmurphal/analytics/pkg/analytics/observability"
	"github.com/randalmurphal/analytics/pkg/analytics/ratelimit"
	"github.com/randalmurphal/analytics/pkg/analytics/store"
)

// clientConfig holds configuration for client construction.
type clientConfig struct {
	store       store.Store
	logger      *slog.Logger
	metrics     observability.MetricsRecorder
	limiter     ratelimit.Limiter
	anonymousID string
}

// defaultClientConfig returns the default client configuration.
func defaultClientConfig() clientConfig {
	return clientConfig{
		store:   store.NewMemoryStore(),
		metrics: observability.NoopMetrics{},
	}
}

// Option configures client construction.
type Option func(*clientConfig)

// WithStore sets the identity state store.
// Default: an in-memory store (state lost on exit).
//
// The store's lifetime belongs to the caller; the client never closes it.
func WithStore(s store.Store) Option {
	return func(c *clientConfig) {
		if s != nil {
			c.store = s
		}
	}
}

// WithLogger sets the structured logger.
// Default: nil (logging disabled).
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: a no-op recorder.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *clientConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithRateLimiter installs a rate limiter at construction.
// Default: none (unrestricted). The limiter can be swapped later with
// Client.SetRateLimiter.
func WithRateLimiter(l ratelimit.Limiter) Option {
	return func(c *clientConfig) {
		c.limiter = l
	}
}

// WithAnonymousID overrides the anonymous id, replacing any persisted one.
// Provide the same value on subsequent runs to keep identifying the same
// installation.
func WithAnonymousID(id string) Option {
	return func(c *clientConfig) {
		c.anonymousID = id
	}
}
