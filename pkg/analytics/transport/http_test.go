package transport_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/analytics/pkg/analytics/event"
	"github.com/randalmurphal/analytics/pkg/analytics/transport"
)

// recordedRequest captures what the data plane saw.
type recordedRequest struct {
	path string
	auth string
	body []byte
}

func newTestServer(t *testing.T, status int, reqs *[]recordedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*reqs = append(*reqs, recordedRequest{
			path: r.URL.Path,
			auth: r.Header.Get("Authorization"),
			body: body,
		})
		w.WriteHeader(status)
	}))
}

func TestHTTP_EndpointPerVariant(t *testing.T) {
	var reqs []recordedRequest
	srv := newTestServer(t, http.StatusOK, &reqs)
	defer srv.Close()

	h, err := transport.NewHTTP(transport.HTTPConfig{
		DataPlaneURL: srv.URL,
		WriteKey:     "key",
	})
	require.NoError(t, err)

	messages := []struct {
		msg  event.Message
		path string
	}{
		{&event.Identify{UserID: "u1"}, "/v1/identify"},
		{&event.Track{Event: "clicked"}, "/v1/track"},
		{&event.Page{Name: "home"}, "/v1/page"},
		{&event.Screen{Name: "settings"}, "/v1/screen"},
		{&event.Group{GroupID: "g1"}, "/v1/group"},
		{&event.Alias{UserID: "u1", PreviousID: "anon"}, "/v1/alias"},
		{&event.Batch{}, "/v1/batch"},
	}

	for _, tc := range messages {
		require.NoError(t, h.Send(context.Background(), tc.msg))
	}

	require.Len(t, reqs, len(messages))
	for i, tc := range messages {
		assert.Equal(t, tc.path, reqs[i].path)
	}
}

func TestHTTP_WriteKeyBasicAuth(t *testing.T) {
	var reqs []recordedRequest
	srv := newTestServer(t, http.StatusOK, &reqs)
	defer srv.Close()

	h, err := transport.NewHTTP(transport.HTTPConfig{
		DataPlaneURL: srv.URL,
		WriteKey:     "write-key",
	})
	require.NoError(t, err)

	require.NoError(t, h.Send(context.Background(), &event.Track{Event: "x"}))

	require.Len(t, reqs, 1)
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.SetBasicAuth("write-key", "")
	assert.Equal(t, req.Header.Get("Authorization"), reqs[0].auth)
}

func TestHTTP_SendsWireJSON(t *testing.T) {
	var reqs []recordedRequest
	srv := newTestServer(t, http.StatusOK, &reqs)
	defer srv.Close()

	h, err := transport.NewHTTP(transport.HTTPConfig{DataPlaneURL: srv.URL, WriteKey: "key"})
	require.NoError(t, err)

	msg := &event.Track{
		Event:       "clicked",
		AnonymousID: "anon-1",
		Properties:  map[string]any{"n": 1.0},
	}
	require.NoError(t, h.Send(context.Background(), msg))

	require.Len(t, reqs, 1)
	var got map[string]any
	require.NoError(t, json.Unmarshal(reqs[0].body, &got))
	assert.Equal(t, "clicked", got["event"])
	assert.Equal(t, "anon-1", got["anonymousId"])
}

func TestHTTP_ErrorStatus(t *testing.T) {
	var reqs []recordedRequest
	srv := newTestServer(t, http.StatusBadRequest, &reqs)
	defer srv.Close()

	h, err := transport.NewHTTP(transport.HTTPConfig{DataPlaneURL: srv.URL, WriteKey: "key"})
	require.NoError(t, err)

	err = h.Send(context.Background(), &event.Track{Event: "x"})
	require.Error(t, err)

	var terr *transport.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, http.StatusBadRequest, terr.StatusCode)
	assert.Contains(t, terr.Endpoint, "/v1/track")
}

func TestHTTP_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	h, err := transport.NewHTTP(transport.HTTPConfig{DataPlaneURL: srv.URL, WriteKey: "key"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = h.Send(ctx, &event.Track{Event: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewHTTP_RequiresDataPlaneURL(t *testing.T) {
	_, err := transport.NewHTTP(transport.HTTPConfig{WriteKey: "key"})
	assert.Error(t, err)
}

func TestError_Message(t *testing.T) {
	err := &transport.Error{StatusCode: 500, Message: "boom", Endpoint: "https://dp/v1/track"}
	assert.Contains(t, err.Error(), "500")
	assert.Contains(t, err.Error(), "boom")
	assert.Contains(t, err.Error(), "/v1/track")
}
