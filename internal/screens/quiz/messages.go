package quiz

import (
	"time"

	"github.com/abhisek/quizfeed/internal/feed"
)

// loadedMsg carries the outcome of a feed load.
type loadedMsg struct {
	Batch *feed.Batch
	Err   error
}

// gateMsg fires once the loading screen has been shown long enough.
type gateMsg struct{}

// clockTickMsg drives the countdown once per second.
type clockTickMsg time.Time
