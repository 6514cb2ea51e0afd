package feed

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/quizfeed/internal/store"
)

// LoggingFetcher is a decorator that records every fetch attempt as an event.
type LoggingFetcher struct {
	inner     Fetcher
	eventRepo store.EventRepo
}

// WithLogging wraps a Fetcher with event logging.
func WithLogging(f Fetcher, repo store.EventRepo) Fetcher {
	return &LoggingFetcher{inner: f, eventRepo: repo}
}

func (l *LoggingFetcher) Fetch(ctx context.Context) (*Payload, error) {
	start := time.Now()
	p, err := l.inner.Fetch(ctx)
	latency := time.Since(start)

	data := store.FetchEventData{
		URL:       l.inner.Source(),
		Attempt:   attemptFrom(ctx),
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if p != nil {
		data.Status = p.Status
		data.Bytes = len(p.Body)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		var se *StatusError
		if errors.As(err, &se) {
			data.Status = se.Status
		}
	}

	fields := []zap.Field{
		zap.String("url", data.URL),
		zap.Int("attempt", data.Attempt),
		zap.Int("status", data.Status),
		zap.Duration("latency", latency),
		zap.Int("bytes", data.Bytes),
	}
	if err != nil {
		zap.L().Warn("feed fetch failed", append(fields, zap.Error(err))...)
	} else {
		zap.L().Info("feed fetched", fields...)
	}

	// Record the event but don't fail the fetch if recording fails.
	if logErr := l.eventRepo.AppendFetch(context.WithoutCancel(ctx), data); logErr != nil {
		zap.L().Warn("failed to record fetch event", zap.Error(logErr))
	}

	return p, err
}

func (l *LoggingFetcher) Source() string {
	return l.inner.Source()
}
