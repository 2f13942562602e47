package analytics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/analytics/pkg/analytics"
	"github.com/randalmurphal/analytics/pkg/analytics/config"
	"github.com/randalmurphal/analytics/pkg/analytics/event"
	"github.com/randalmurphal/analytics/pkg/analytics/store"
)

func TestOpen_RejectsInvalidSettings(t *testing.T) {
	_, err := analytics.Open(config.Settings{})
	assert.Error(t, err)
}

func TestOpen_EndToEnd(t *testing.T) {
	var received atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	statePath := filepath.Join(t.TempDir(), "state.json")
	client, err := analytics.Open(config.Settings{
		DataPlaneURL:    srv.URL,
		WriteKey:        "wk",
		StatePath:       statePath,
		EventsPerMinute: 1,
	})
	require.NoError(t, err)

	out := client.Send(&event.Track{Event: "opened"})
	require.False(t, out.Dropped)
	require.NoError(t, out.Handle.Err())

	// The settings-derived per-event cap is active.
	assert.True(t, client.Send(&event.Track{Event: "opened"}).Dropped)

	require.NoError(t, client.Close(context.Background()))
	assert.Equal(t, int32(1), received.Load())

	// Identity state landed at StatePath.
	fs := store.NewFileStore(statePath)
	defer fs.Close()
	saved, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, client.AnonymousID(), saved.AnonymousID)
}

func TestOpen_AnonymousIDFromSettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := analytics.Open(config.Settings{
		DataPlaneURL: srv.URL,
		WriteKey:     "wk",
		AnonymousID:  "pinned",
	})
	require.NoError(t, err)
	defer client.Close(context.Background())

	assert.Equal(t, "pinned", client.AnonymousID())
}

func TestOpen_OptionsOverrideSettings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ms := store.NewMemoryStore()
	client, err := analytics.Open(config.Settings{
		DataPlaneURL: srv.URL,
		WriteKey:     "wk",
		StatePath:    filepath.Join(t.TempDir(), "ignored.json"),
	}, analytics.WithStore(ms))
	require.NoError(t, err)
	defer client.Close(context.Background())

	// The explicit option won over the settings-derived file store.
	saved, err := ms.Load()
	require.NoError(t, err)
	assert.Equal(t, client.AnonymousID(), saved.AnonymousID)
}
