package feed

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoQuestions means a payload was fetched but no question could be
// recovered from it. The presentation layer offers a retry.
var ErrNoQuestions = errors.New("no questions available")

// StatusError indicates the feed answered with a non-2xx status.
type StatusError struct {
	Status     int
	RetryAfter time.Duration
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("feed returned HTTP %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("feed returned HTTP %d", e.Status)
}

// Temporary reports whether the status is worth retrying.
func (e *StatusError) Temporary() bool {
	return e.Status == 429 || e.Status >= 500
}

// UnavailableError indicates the feed could not be reached at all.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feed unavailable: %v", e.Err)
	}
	return "feed unavailable"
}

func (e *UnavailableError) Unwrap() error { return e.Err }
