// Package feed fetches the raw quiz payload and turns it into questions.
// Fetchers compose as decorators: caller → cache → retry → logging → HTTP.
package feed

import (
	"context"
	"time"
)

// Payload is one raw response body from the feed.
type Payload struct {
	URL       string
	Status    int
	Body      []byte
	FetchedAt time.Time

	// FromCache is set when the body was served from the payload cache
	// because the live fetch failed.
	FromCache bool
}

// Fetcher supplies raw payloads.
type Fetcher interface {
	Fetch(ctx context.Context) (*Payload, error)

	// Source describes where payloads come from, usually a URL.
	Source() string
}

type attemptKey struct{}

// withAttempt records the 1-based attempt number in ctx.
func withAttempt(ctx context.Context, n int) context.Context {
	return context.WithValue(ctx, attemptKey{}, n)
}

// attemptFrom returns the attempt number, or 1 outside a retry loop.
func attemptFrom(ctx context.Context) int {
	if n, ok := ctx.Value(attemptKey{}).(int); ok {
		return n
	}
	return 1
}
