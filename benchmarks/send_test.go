package benchmarks

import (
	"context"
	"fmt"
	"testing"

	"github.com/randalmurphal/analytics/pkg/analytics"
	"github.com/randalmurphal/analytics/pkg/analytics/event"
	"github.com/randalmurphal/analytics/pkg/analytics/ratelimit"
)

// nullTransport accepts everything instantly, so benchmarks measure the
// enrichment path rather than I/O.
type nullTransport struct{}

func (nullTransport) Send(context.Context, event.Message) error { return nil }

func mustClient(b *testing.B, opts ...analytics.Option) *analytics.Client {
	b.Helper()
	client, err := analytics.New(nullTransport{}, opts...)
	if err != nil {
		b.Fatal(err)
	}
	return client
}

// BenchmarkSend_Track measures a bare track send.
func BenchmarkSend_Track(b *testing.B) {
	client := mustClient(b)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		client.Send(&event.Track{Event: "bench"})
	}
	b.StopTimer()
	_ = client.Close(context.Background())
}

// BenchmarkSend_TrackWithContext measures a send that merges stored context.
func BenchmarkSend_TrackWithContext(b *testing.B) {
	client := mustClient(b)
	client.AddContext("app", map[string]any{"version": "1.0", "build": "42"})
	client.AddContext("os", map[string]any{"name": "linux", "arch": "amd64"})
	msg := &event.Track{
		Event:   "bench",
		Context: map[string]any{"app": map[string]any{"channel": "beta"}},
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		client.Send(msg)
	}
	b.StopTimer()
	_ = client.Close(context.Background())
}

// BenchmarkSend_Batch10 measures a 10-member batch send.
func BenchmarkSend_Batch10(b *testing.B) {
	client := mustClient(b)
	members := make([]event.BatchMessage, 10)
	for i := range members {
		members[i] = &event.Track{Event: fmt.Sprintf("bench_%d", i)}
	}
	msg := &event.Batch{Batch: members}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		client.Send(msg)
	}
	b.StopTimer()
	_ = client.Close(context.Background())
}

// BenchmarkSend_RateLimited measures the limiter-gated fast path once the
// cap is exhausted.
func BenchmarkSend_RateLimited(b *testing.B) {
	client := mustClient(b, analytics.WithRateLimiter(ratelimit.NewPerEventCap(1)))
	client.Send(&event.Track{Event: "bench"}) // exhaust the cap
	msg := &event.Track{Event: "bench"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		client.Send(msg)
	}
	b.StopTimer()
	_ = client.Close(context.Background())
}

// BenchmarkPerEventCap_Allow measures a single-key limiter check.
func BenchmarkPerEventCap_Allow(b *testing.B) {
	limiter := ratelimit.NewPerEventCap(^uint32(0))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow("bench")
	}
}

// BenchmarkPerEventCap_AllowParallel measures contended limiter checks.
func BenchmarkPerEventCap_AllowParallel(b *testing.B) {
	limiter := ratelimit.NewPerEventCap(^uint32(0))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			limiter.Allow("bench")
		}
	})
}
