// Package session holds the state of one quiz attempt: the shuffled view of
// the parsed questions, the player's selections, the countdown and the
// graded result.
package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/abhisek/quizfeed/internal/quiz"
)

var (
	// ErrIncomplete is returned by Submit while questions are unanswered.
	ErrIncomplete = errors.New("please answer all questions before submitting")

	// ErrNotAnswering is returned when answers arrive outside PhaseAnswering.
	ErrNotAnswering = errors.New("quiz is not accepting answers")
)

// Phase is the lifecycle position of a State.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseAnswering
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseAnswering:
		return "answering"
	case PhaseSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Config controls how an attempt is presented.
type Config struct {
	// TimeLimit is the countdown length. Zero disables the countdown.
	TimeLimit time.Duration
	Shuffle   quiz.ShuffleOptions
}

// State is one quiz attempt. It is not safe for concurrent use; the TUI
// owns it from the update loop.
type State struct {
	cfg Config

	Phase Phase

	// Source holds the parsed questions in feed order. Never mutated.
	Source []quiz.Question

	// Questions is the display order for this attempt.
	Questions []quiz.Question

	// Answers maps question id to the chosen option text.
	Answers map[string]string

	StartedAt   time.Time
	Deadline    time.Time
	SubmittedAt time.Time

	// TimedOut is set when the countdown forced the submission.
	TimedOut bool

	Score *quiz.Score
}

// New returns a State waiting for questions.
func New(cfg Config) *State {
	return &State{cfg: cfg, Phase: PhaseLoading, Answers: map[string]string{}}
}

// Begin starts an attempt over qs.
func (s *State) Begin(qs []quiz.Question, now time.Time, rng *rand.Rand) {
	s.Source = qs
	s.start(now, rng)
}

// Restart reshuffles the same questions and starts a fresh attempt.
func (s *State) Restart(now time.Time, rng *rand.Rand) {
	s.start(now, rng)
}

func (s *State) start(now time.Time, rng *rand.Rand) {
	s.Questions = quiz.ShuffleQuestions(s.Source, rng, s.cfg.Shuffle)
	s.Answers = make(map[string]string, len(s.Source))
	s.Phase = PhaseAnswering
	s.StartedAt = now
	s.Deadline = time.Time{}
	if s.cfg.TimeLimit > 0 {
		s.Deadline = now.Add(s.cfg.TimeLimit)
	}
	s.SubmittedAt = time.Time{}
	s.TimedOut = false
	s.Score = nil
}

func (s *State) question(id string) (quiz.Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return quiz.Question{}, false
}

// Select records optionID as the answer to the question with questionID.
func (s *State) Select(questionID string, optionID int) error {
	if s.Phase != PhaseAnswering {
		return ErrNotAnswering
	}
	q, ok := s.question(questionID)
	if !ok {
		return fmt.Errorf("unknown question %q", questionID)
	}
	op, ok := q.OptionByID(optionID)
	if !ok {
		return fmt.Errorf("question %q has no option %d", questionID, optionID)
	}
	s.Answers[questionID] = op.Text
	return nil
}

// Clear removes the answer to questionID.
func (s *State) Clear(questionID string) {
	if s.Phase == PhaseAnswering {
		delete(s.Answers, questionID)
	}
}

// Selected returns the option text chosen for questionID.
func (s *State) Selected(questionID string) (string, bool) {
	v, ok := s.Answers[questionID]
	return v, ok
}

// Unanswered returns the ids of unanswered questions in display order.
// Questions without options cannot be answered and are left out; they
// grade as unanswered.
func (s *State) Unanswered() []string {
	var ids []string
	for _, q := range s.Questions {
		if len(q.Options) == 0 {
			continue
		}
		if _, ok := s.Answers[q.ID]; !ok {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Answerable returns the number of questions that have options.
func (s *State) Answerable() int {
	n := 0
	for _, q := range s.Questions {
		if len(q.Options) > 0 {
			n++
		}
	}
	return n
}

// Submit grades the attempt once every answerable question has an answer.
func (s *State) Submit(now time.Time) (quiz.Score, error) {
	if s.Phase != PhaseAnswering {
		return quiz.Score{}, ErrNotAnswering
	}
	if missing := s.Unanswered(); len(missing) > 0 {
		return quiz.Score{}, fmt.Errorf("%w (%d left)", ErrIncomplete, len(missing))
	}
	return s.grade(now), nil
}

// ForceSubmit grades the attempt regardless of unanswered questions.
func (s *State) ForceSubmit(now time.Time) quiz.Score {
	if s.Phase == PhaseSubmitted && s.Score != nil {
		return *s.Score
	}
	return s.grade(now)
}

func (s *State) grade(now time.Time) quiz.Score {
	score := quiz.Grade(s.Questions, s.Answers)
	s.Score = &score
	s.Phase = PhaseSubmitted
	s.SubmittedAt = now
	return score
}

// Remaining returns the countdown left at now, never negative. It is zero
// when the countdown is disabled.
func (s *State) Remaining(now time.Time) time.Duration {
	if s.Deadline.IsZero() {
		return 0
	}
	if d := s.Deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Tick advances the countdown. When the deadline has passed during
// answering, the attempt is force-submitted and Tick returns true.
func (s *State) Tick(now time.Time) bool {
	if s.Phase != PhaseAnswering || s.Deadline.IsZero() || now.Before(s.Deadline) {
		return false
	}
	s.ForceSubmit(now)
	s.TimedOut = true
	return true
}

// Elapsed returns the time spent answering.
func (s *State) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() {
		return 0
	}
	if !s.SubmittedAt.IsZero() {
		now = s.SubmittedAt
	}
	return now.Sub(s.StartedAt)
}
