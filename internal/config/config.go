// Package config loads quizfeed settings. Values are layered: built-in
// defaults, then the YAML config file, then QUIZFEED_* environment
// variables (a .env file in the working directory is read first but never
// overrides the real environment).
package config

import (
	"time"
)

// DefaultFeedURL is the ORDS endpoint the quiz questions come from.
const DefaultFeedURL = "https://oracleapex.com/ords/imon/hero/question/"

// Config holds all quizfeed settings.
type Config struct {
	Feed  FeedConfig  `yaml:"feed"`
	Quiz  QuizConfig  `yaml:"quiz"`
	Cache CacheConfig `yaml:"cache"`
	Log   LogConfig   `yaml:"log"`
}

// FeedConfig controls how the question feed is fetched.
type FeedConfig struct {
	URL       string        `yaml:"url"`
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
	Retry     RetryConfig   `yaml:"retry"`
}

// RetryConfig configures retry behavior for transient fetch failures.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts"`
	InitialWait time.Duration `yaml:"initial_wait"`
	MaxWait     time.Duration `yaml:"max_wait"`
	Multiplier  float64       `yaml:"multiplier"`
}

// QuizConfig controls a quiz round.
type QuizConfig struct {
	// TimeLimit is the countdown for one round. Zero disables the timer.
	TimeLimit time.Duration `yaml:"time_limit"`

	// MinLoading keeps the loading screen up at least this long.
	MinLoading time.Duration `yaml:"min_loading"`

	ShuffleQuestions bool `yaml:"shuffle_questions"`
	ShuffleOptions   bool `yaml:"shuffle_options"`
}

// CacheConfig controls the offline payload cache.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`

	// Keep is how many payloads are retained per feed URL.
	Keep int `yaml:"keep"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level string `yaml:"level"`

	// Path of the log file. Empty means quizfeed.log in the data directory.
	Path string `yaml:"path"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Feed: FeedConfig{
			URL:       DefaultFeedURL,
			Timeout:   15 * time.Second,
			UserAgent: "quizfeed",
			Retry: RetryConfig{
				MaxAttempts: 3,
				InitialWait: 500 * time.Millisecond,
				MaxWait:     5 * time.Second,
				Multiplier:  2.0,
			},
		},
		Quiz: QuizConfig{
			TimeLimit:        5 * time.Minute,
			MinLoading:       1500 * time.Millisecond,
			ShuffleQuestions: true,
			ShuffleOptions:   true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Keep:    5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
