// Package explain fills in missing answer explanations with an LLM.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/quizfeed/internal/llm"
	"github.com/abhisek/quizfeed/internal/quiz"
)

// ErrDisabled is returned when no provider is configured.
var ErrDisabled = errors.New("explanations disabled: no llm provider configured")

// Config tunes generation.
type Config struct {
	MaxTokens   int
	Temperature float64
	// Concurrency bounds parallel requests in Fill.
	Concurrency int
}

// DefaultConfig returns the settings used by the CLI and TUI.
func DefaultConfig() Config {
	return Config{MaxTokens: 400, Temperature: 0.2, Concurrency: 4}
}

// Explanation is generated text for one question.
type Explanation struct {
	QuestionID string
	Text       string
	// Confident is false when the model doubted the marked answer.
	Confident bool
}

// Result is what an async request produced.
type Result struct {
	Explanations map[string]Explanation
	Err          error
}

// Service generates explanations. Requests run in the background and
// land in a single slot; a newer request replaces an unconsumed result.
type Service struct {
	provider llm.Provider
	cfg      Config

	mu      sync.Mutex
	gen     int
	pending *Result
}

// NewService returns a Service. A nil provider yields a disabled service.
func NewService(provider llm.Provider, cfg Config) *Service {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Service{provider: provider, cfg: cfg}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool { return s != nil && s.provider != nil }

// Missing returns the questions that can be explained but have no
// explanation from the feed.
func Missing(qs []quiz.Question) []quiz.Question {
	var out []quiz.Question
	for _, q := range qs {
		if q.Explanation == "" && q.Gradable() {
			out = append(out, q)
		}
	}
	return out
}

// Request starts filling qs in the background. Poll with Consume.
func (s *Service) Request(ctx context.Context, qs []quiz.Question) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.pending = nil
	s.mu.Unlock()

	go func() {
		got, err := s.Fill(ctx, qs)
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			return
		}
		s.pending = &Result{Explanations: got, Err: err}
	}()
}

// Consume returns the finished result and clears the slot.
func (s *Service) Consume() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Result{}, false
	}
	r := *s.pending
	s.pending = nil
	return r, true
}

// Fill explains every question in qs with bounded concurrency. Failed
// questions are left out of the map and reported in the joined error.
func (s *Service) Fill(ctx context.Context, qs []quiz.Question) (map[string]Explanation, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}

	var (
		mu   sync.Mutex
		out  = make(map[string]Explanation, len(qs))
		errs []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, q := range qs {
		g.Go(func() error {
			e, err := s.Explain(gctx, q)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs = append(errs, fmt.Errorf("question %s: %w", q.ID, err))
				return nil
			}
			out[q.ID] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}
	return out, errors.Join(errs...)
}

type output struct {
	Explanation string `json:"explanation"`
	Confident   bool   `json:"confident"`
}

// Explain generates one explanation.
func (s *Service) Explain(ctx context.Context, q quiz.Question) (Explanation, error) {
	if !s.Enabled() {
		return Explanation{}, ErrDisabled
	}

	req := llm.UserPrompt(systemPrompt, prompt(q))
	req.Schema = Schema
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeExplain), req)
	if err != nil {
		return Explanation{}, fmt.Errorf("generate explanation: %w", err)
	}

	var out output
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return Explanation{}, fmt.Errorf("decode explanation: %w", err)
	}
	text := strings.TrimSpace(out.Explanation)
	if text == "" {
		return Explanation{}, errors.New("empty explanation")
	}
	if !out.Confident {
		zap.L().Info("model doubts marked answer", zap.String("question", q.ID))
	}
	return Explanation{QuestionID: q.ID, Text: text, Confident: out.Confident}, nil
}

func prompt(q quiz.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nOptions:\n", q.Text)
	for i, op := range q.Options {
		fmt.Fprintf(&b, "%d. %s\n", i+1, op.Text)
	}
	fmt.Fprintf(&b, "\nCorrect answer: %s\n", q.Answer)
	return b.String()
}

// Apply returns copies of qs with generated explanations filled in where
// the feed had none. Feed explanations are never replaced.
func Apply(qs []quiz.Question, got map[string]Explanation) []quiz.Question {
	out := make([]quiz.Question, len(qs))
	for i, q := range qs {
		q = q.Clone()
		if e, ok := got[q.ID]; ok && q.Explanation == "" {
			q.Explanation = e.Text
		}
		out[i] = q
	}
	return out
}
