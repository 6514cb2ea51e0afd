package feed

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/abhisek/quizfeed/internal/store"
)

// CachingFetcher saves every successful body and falls back to the latest
// saved body when a live fetch fails, so a quiz can still be played offline.
type CachingFetcher struct {
	inner    Fetcher
	payloads store.PayloadRepo
	events   store.EventRepo
	keep     int
}

// WithCache wraps a Fetcher with the payload cache. events may be nil.
func WithCache(f Fetcher, payloads store.PayloadRepo, events store.EventRepo, keep int) Fetcher {
	return &CachingFetcher{inner: f, payloads: payloads, events: events, keep: keep}
}

func (c *CachingFetcher) Fetch(ctx context.Context) (*Payload, error) {
	p, err := c.inner.Fetch(ctx)
	if err == nil {
		c.save(ctx, p)
		return p, nil
	}

	// A cancelled caller wants nothing, not a stale quiz.
	if errors.Is(err, context.Canceled) {
		return nil, err
	}

	cached, cacheErr := c.payloads.Latest(context.WithoutCancel(ctx), c.Source())
	if cacheErr != nil {
		zap.L().Warn("payload cache lookup failed", zap.Error(cacheErr))
		return nil, err
	}
	if cached == nil {
		return nil, err
	}

	zap.L().Warn("serving cached feed payload",
		zap.String("url", cached.URL),
		zap.Time("fetched_at", cached.FetchedAt),
		zap.Error(err))

	if c.events != nil {
		ev := store.FetchEventData{
			URL:          cached.URL,
			Status:       200,
			Bytes:        len(cached.Body),
			FromCache:    true,
			Success:      true,
			ErrorMessage: err.Error(),
		}
		if logErr := c.events.AppendFetch(context.WithoutCancel(ctx), ev); logErr != nil {
			zap.L().Warn("failed to record fetch event", zap.Error(logErr))
		}
	}

	return &Payload{
		URL:       cached.URL,
		Status:    200,
		Body:      cached.Body,
		FetchedAt: cached.FetchedAt,
		FromCache: true,
	}, nil
}

func (c *CachingFetcher) save(ctx context.Context, p *Payload) {
	ctx = context.WithoutCancel(ctx)
	err := c.payloads.Save(ctx, &store.Payload{URL: c.Source(), FetchedAt: p.FetchedAt, Body: p.Body})
	if err == nil && c.keep > 0 {
		err = c.payloads.Prune(ctx, c.Source(), c.keep)
	}
	if err != nil {
		zap.L().Warn("failed to cache feed payload", zap.Error(err))
	}
}

func (c *CachingFetcher) Source() string {
	return c.inner.Source()
}
