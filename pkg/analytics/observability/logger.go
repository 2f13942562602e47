// Package observability provides structured logging and metrics for the
// analytics client.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
// Every helper tolerates a nil logger.
package observability

import (
	"log/slog"
	"time"
)

// LogDispatch logs a message handed to the transport.
func LogDispatch(logger *slog.Logger, msgType string) {
	if logger == nil {
		return
	}
	logger.Debug("dispatching message",
		slog.String("type", msgType),
	)
}

// LogDrop logs a message rejected by the rate limiter.
func LogDrop(logger *slog.Logger, msgType, key string) {
	if logger == nil {
		return
	}
	logger.Debug("message dropped by rate limiter",
		slog.String("type", msgType),
		slog.String("key", key),
	)
}

// LogTransportError logs a failed delivery (surfaced to the caller via the
// dispatch handle as well).
func LogTransportError(logger *slog.Logger, msgType string, duration time.Duration, err error) {
	if logger == nil {
		return
	}
	logger.Warn("transport send failed",
		slog.String("type", msgType),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
		slog.String("error", err.Error()),
	)
}

// LogStateLoadError logs a state load failure (non-fatal, defaults are used).
func LogStateLoadError(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Warn("identity state load failed, starting fresh",
		slog.String("error", err.Error()),
	)
}

// LogStateSaveError logs a state save failure (non-fatal).
func LogStateSaveError(logger *slog.Logger, err error) {
	if logger == nil {
		return
	}
	logger.Warn("identity state save failed",
		slog.String("error", err.Error()),
	)
}

// LogUserLinked logs the first identification of a user id.
func LogUserLinked(logger *slog.Logger, userID string) {
	if logger == nil {
		return
	}
	logger.Info("user newly linked to anonymous id",
		slog.String("user_id", userID),
	)
}
