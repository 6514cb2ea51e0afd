package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// ApplyEnv overrides cfg with QUIZFEED_* environment variables. Malformed
// values are reported rather than ignored.
func ApplyEnv(cfg *Config) error {
	var errs []error

	str := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	}
	integer := func(key string, dst *int) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
	boolean := func(key string, dst *bool) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = b
	}

	str("QUIZFEED_FEED_URL", &cfg.Feed.URL)
	dur("QUIZFEED_FEED_TIMEOUT", &cfg.Feed.Timeout)
	str("QUIZFEED_USER_AGENT", &cfg.Feed.UserAgent)
	integer("QUIZFEED_RETRY_MAX_ATTEMPTS", &cfg.Feed.Retry.MaxAttempts)

	dur("QUIZFEED_TIME_LIMIT", &cfg.Quiz.TimeLimit)
	dur("QUIZFEED_MIN_LOADING", &cfg.Quiz.MinLoading)
	boolean("QUIZFEED_SHUFFLE_QUESTIONS", &cfg.Quiz.ShuffleQuestions)
	boolean("QUIZFEED_SHUFFLE_OPTIONS", &cfg.Quiz.ShuffleOptions)

	boolean("QUIZFEED_CACHE", &cfg.Cache.Enabled)
	integer("QUIZFEED_CACHE_KEEP", &cfg.Cache.Keep)

	str("QUIZFEED_LOG_LEVEL", &cfg.Log.Level)
	str("QUIZFEED_LOG_PATH", &cfg.Log.Path)

	if len(errs) > 0 {
		return fmt.Errorf("environment: %w", errors.Join(errs...))
	}
	return nil
}
