package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Issue captures a validation problem with a config field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates config validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "config validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that cfg is usable.
func Validate(cfg *Config) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	if strings.TrimSpace(cfg.Feed.URL) == "" {
		add("feed.url", "is required")
	} else if u, err := url.Parse(cfg.Feed.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		add("feed.url", fmt.Sprintf("%q is not an http(s) URL", cfg.Feed.URL))
	}
	if cfg.Feed.Timeout <= 0 {
		add("feed.timeout", "must be positive")
	}

	r := cfg.Feed.Retry
	if r.MaxAttempts < 1 {
		add("feed.retry.max_attempts", "must be at least 1")
	}
	if r.InitialWait < 0 || r.MaxWait < 0 {
		add("feed.retry", "waits must not be negative")
	}
	if r.MaxWait < r.InitialWait {
		add("feed.retry.max_wait", "must not be less than initial_wait")
	}
	if r.Multiplier < 1 {
		add("feed.retry.multiplier", "must be at least 1")
	}

	if cfg.Quiz.TimeLimit < 0 {
		add("quiz.time_limit", "must not be negative")
	}
	if cfg.Quiz.MinLoading < 0 {
		add("quiz.min_loading", "must not be negative")
	}

	if cfg.Cache.Keep < 1 {
		add("cache.keep", "must be at least 1")
	}

	if !logLevels[strings.ToLower(cfg.Log.Level)] {
		add("log.level", fmt.Sprintf("unknown level %q", cfg.Log.Level))
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
