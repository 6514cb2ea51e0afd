package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/quizfeed/internal/feedparse"
	"github.com/abhisek/quizfeed/internal/quiz"
	"github.com/abhisek/quizfeed/internal/store"
)

// Batch is the outcome of one fetch cycle.
type Batch struct {
	// RunID ties the fetch and parse events of this cycle together.
	RunID     string
	Questions []quiz.Question
	Result    feedparse.Result
	Payload   *Payload
	ParseTime time.Duration
}

// Loader runs one fetch cycle: fetch, parse, record.
type Loader struct {
	fetcher Fetcher
	events  store.EventRepo
}

// NewLoader creates a Loader. events may be nil, in which case parse
// outcomes are only logged.
func NewLoader(f Fetcher, events store.EventRepo) *Loader {
	return &Loader{fetcher: f, events: events}
}

// Source returns where the loader fetches from.
func (l *Loader) Source() string {
	return l.fetcher.Source()
}

// Load fetches a payload and parses it. When the payload yields no
// questions the Batch is still returned, together with ErrNoQuestions.
func (l *Loader) Load(ctx context.Context) (*Batch, error) {
	runID := uuid.NewString()

	p, err := l.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	return l.parse(ctx, runID, p)
}

// Parse runs the pipeline over an already fetched payload.
func (l *Loader) Parse(ctx context.Context, p *Payload) (*Batch, error) {
	return l.parse(ctx, uuid.NewString(), p)
}

func (l *Loader) parse(ctx context.Context, runID string, p *Payload) (*Batch, error) {
	start := time.Now()
	res := feedparse.Parse(string(p.Body))
	elapsed := time.Since(start)

	batch := &Batch{
		RunID:     runID,
		Questions: res.Questions,
		Result:    res,
		Payload:   p,
		ParseTime: elapsed,
	}

	source := "live"
	if p.FromCache {
		source = "cache"
	}

	zap.L().Info("feed parsed",
		zap.String("run_id", runID),
		zap.String("source", source),
		zap.String("stage", string(res.Stage)),
		zap.String("rule", res.Rule),
		zap.Int("questions", len(res.Questions)),
		zap.Int("dropped_questions", res.Dropped.Questions),
		zap.Int("dropped_options", res.Dropped.Options),
		zap.Duration("elapsed", elapsed))

	if l.events != nil {
		ev := store.ParseEventData{
			RunID:            runID,
			Source:           source,
			Stage:            string(res.Stage),
			Rule:             res.Rule,
			Questions:        len(res.Questions),
			DroppedQuestions: res.Dropped.Questions,
			DroppedOptions:   res.Dropped.Options,
			PayloadBytes:     len(p.Body),
		}
		if err := l.events.AppendParse(context.WithoutCancel(ctx), ev); err != nil {
			zap.L().Warn("failed to record parse event", zap.Error(err))
		}
	}

	if !res.OK() {
		return batch, ErrNoQuestions
	}
	return batch, nil
}
