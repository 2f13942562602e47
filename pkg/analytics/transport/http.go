package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/randalmurphal/analytics/pkg/analytics/event"
)

// HTTPConfig configures the HTTP transport.
type HTTPConfig struct {
	// DataPlaneURL is the base URL of the collection endpoint.
	DataPlaneURL string

	// WriteKey authenticates requests, sent as basic-auth username.
	WriteKey string

	// Client optionally overrides the HTTP client.
	// Default: a client with Timeout applied.
	Client *http.Client

	// Timeout bounds each request when Client is nil.
	// Default: 10s
	Timeout time.Duration
}

// HTTP posts messages as JSON to a RudderStack-compatible data plane.
// Each message variant maps to its own /v1 endpoint.
type HTTP struct {
	base     *url.URL
	writeKey string
	client   *http.Client
}

// NewHTTP creates an HTTP transport for the given data plane.
func NewHTTP(cfg HTTPConfig) (*HTTP, error) {
	if cfg.DataPlaneURL == "" {
		return nil, fmt.Errorf("data plane URL is required")
	}
	base, err := url.Parse(strings.TrimSuffix(cfg.DataPlaneURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse data plane URL: %w", err)
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	return &HTTP{
		base:     base,
		writeKey: cfg.WriteKey,
		client:   client,
	}, nil
}

// Send implements Transport.
func (h *HTTP) Send(ctx context.Context, msg event.Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	endpoint := h.base.String() + "/v1/" + msg.Type()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(h.writeKey, "")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Bounded read: error bodies are small, don't trust the server.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(detail)),
			Endpoint:   endpoint,
		}
	}
	return nil
}
