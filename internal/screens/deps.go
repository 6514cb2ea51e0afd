// Package screens holds what the quiz screens share.
package screens

import (
	"math/rand/v2"
	"time"

	"github.com/abhisek/quizfeed/internal/config"
	"github.com/abhisek/quizfeed/internal/explain"
	"github.com/abhisek/quizfeed/internal/feed"
	"github.com/abhisek/quizfeed/internal/quiz"
	"github.com/abhisek/quizfeed/internal/session"
)

// Deps are the collaborators injected into every screen.
type Deps struct {
	Loader    *feed.Loader
	Explainer *explain.Service
	Quiz      config.QuizConfig

	// Rand drives shuffling. Nil uses the global source.
	Rand *rand.Rand
	// Now is the clock. Nil means time.Now.
	Now func() time.Time
}

// Clock returns the current time from Now.
func (d Deps) Clock() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// SessionConfig maps the quiz settings onto a session config.
func (d Deps) SessionConfig() session.Config {
	return session.Config{
		TimeLimit: d.Quiz.TimeLimit,
		Shuffle: quiz.ShuffleOptions{
			Questions: d.Quiz.ShuffleQuestions,
			Options:   d.Quiz.ShuffleOptions,
		},
	}
}
