// Package config loads client settings from files or the environment.
package config

import (
	"fmt"
)

// Settings holds everything needed to construct a client.
type Settings struct {
	// DataPlaneURL is the base URL of the collection endpoint. Required.
	DataPlaneURL string `yaml:"data_plane_url" json:"data_plane_url" env:"ANALYTICS_DATA_PLANE_URL"`

	// WriteKey authenticates against the collection endpoint. Required.
	WriteKey string `yaml:"write_key" json:"write_key" env:"ANALYTICS_WRITE_KEY"`

	// StatePath is where identity state is persisted. When empty the client
	// keeps state in memory only.
	StatePath string `yaml:"state_path" json:"state_path" env:"ANALYTICS_STATE_PATH"`

	// AnonymousID optionally overrides the persisted anonymous id.
	AnonymousID string `yaml:"anonymous_id" json:"anonymous_id" env:"ANALYTICS_ANONYMOUS_ID"`

	// EventsPerMinute caps each event type's dispatch rate.
	// Zero disables rate limiting.
	EventsPerMinute uint32 `yaml:"events_per_minute" json:"events_per_minute" env:"ANALYTICS_EVENTS_PER_MINUTE"`

	// Timeout bounds each transport request.
	// Default: 10s
	Timeout Duration `yaml:"timeout" json:"timeout" env:"ANALYTICS_TIMEOUT"`
}

// Validate checks that required settings are present.
func (s Settings) Validate() error {
	if s.DataPlaneURL == "" {
		return fmt.Errorf("data_plane_url is required")
	}
	if s.WriteKey == "" {
		return fmt.Errorf("write_key is required")
	}
	return nil
}
