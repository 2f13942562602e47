/*
Package analytics provides an in-process telemetry-forwarding client.

# Overview

Application code submits semantic analytics events (identify, track, page,
screen, group, alias, or batches of those); the client enriches them with
engine-owned identity and ambient context, rate-limits them, and dispatches
them asynchronously to a collection endpoint.

The client owns identity: every outgoing message except Alias is stamped
with the current anonymous id and user id, discarding caller-supplied
values. The anonymous id is generated once per installation and persisted
through a pluggable store, so pre- and post-login activity correlates across
runs.

# Basic Usage

	client, err := analytics.Open(config.Settings{
	    DataPlaneURL: "https://hosted.rudderlabs.com",
	    WriteKey:     "key",
	    StatePath:    "analytics-state.json",
	})
	if err != nil {
	    log.Fatal(err)
	}
	defer client.Close(context.Background())

	client.AddContext("app_version", "1.4.2")

	out := client.Send(&event.Track{
	    Event:      "file_exported",
	    Properties: map[string]any{"format": "pdf"},
	})
	if !out.Dropped {
	    go func() {
	        if err := out.Handle.Err(); err != nil {
	            log.Printf("send failed: %v", err)
	        }
	    }()
	}

# Rate Limiting

Any value implementing ratelimit.Limiter can gate outgoing messages; the
built-in ratelimit.PerEventCap caps each event type independently per
rolling 60-second window:

	client.SetRateLimiter(ratelimit.NewPerEventCap(100))

A dropped message is a normal outcome (Outcome.Dropped), distinguishable
from dispatch so callers can log or ignore it.

# Identity

SetUserID links a user id to the anonymous id that was active when the user
was first seen, exactly once per user id for the lifetime of the persisted
state, and sends a synthetic Identify to establish the linkage server-side.
*/
package analytics
