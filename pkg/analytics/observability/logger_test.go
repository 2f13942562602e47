package observability

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLogHelpersNilSafe(t *testing.T) {
	// Every helper must tolerate a nil logger.
	LogDispatch(nil, "track")
	LogDrop(nil, "track", "clicked")
	LogTransportError(nil, "track", time.Second, errors.New("boom"))
	LogStateLoadError(nil, errors.New("boom"))
	LogStateSaveError(nil, errors.New("boom"))
	LogUserLinked(nil, "u1")
}

func TestLogDrop(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	LogDrop(logger, "track", "clicked")

	out := buf.String()
	if !strings.Contains(out, "dropped") {
		t.Errorf("expected drop message, got %q", out)
	}
	if !strings.Contains(out, "key=clicked") {
		t.Errorf("expected key attribute, got %q", out)
	}
}

func TestLogTransportError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogTransportError(logger, "track", 250*time.Millisecond, errors.New("connection refused"))

	out := buf.String()
	if !strings.Contains(out, "connection refused") {
		t.Errorf("expected error detail, got %q", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("expected warn level, got %q", out)
	}
}
