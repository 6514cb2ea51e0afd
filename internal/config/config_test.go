package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup location at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("QUIZFEED_CONFIG", "")
	for _, k := range []string{
		"QUIZFEED_FEED_URL", "QUIZFEED_FEED_TIMEOUT", "QUIZFEED_USER_AGENT", "QUIZFEED_RETRY_MAX_ATTEMPTS",
		"QUIZFEED_TIME_LIMIT", "QUIZFEED_MIN_LOADING", "QUIZFEED_SHUFFLE_QUESTIONS", "QUIZFEED_SHUFFLE_OPTIONS",
		"QUIZFEED_CACHE", "QUIZFEED_CACHE_KEEP", "QUIZFEED_LOG_LEVEL", "QUIZFEED_LOG_PATH",
	} {
		t.Setenv(k, "")
	}
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_DefaultFileOverridesDefaults(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "quizfeed", ConfigFileName), `
feed:
  url: http://localhost:8080/ords/imon/hero/question/
  timeout: 3s
quiz:
  time_limit: 90s
  shuffle_options: false
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/ords/imon/hero/question/", cfg.Feed.URL)
	assert.Equal(t, 3*time.Second, cfg.Feed.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Quiz.TimeLimit)
	assert.False(t, cfg.Quiz.ShuffleOptions)
	assert.True(t, cfg.Quiz.ShuffleQuestions, "unset keys keep defaults")
	assert.Equal(t, 3, cfg.Feed.Retry.MaxAttempts)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, "log:\n  level: debug\n")
	t.Setenv("QUIZFEED_LOG_LEVEL", "warn")
	t.Setenv("QUIZFEED_TIME_LIMIT", "2m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 2*time.Minute, cfg.Quiz.TimeLimit)
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".env"), "QUIZFEED_USER_AGENT=from-dotenv\nQUIZFEED_CACHE_KEEP=9\n")
	t.Setenv("QUIZFEED_USER_AGENT", "from-env")
	// isolate restores the variable; it has to be absent for .env to apply.
	require.NoError(t, os.Unsetenv("QUIZFEED_CACHE_KEEP"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Feed.UserAgent)
	assert.Equal(t, 9, cfg.Cache.Keep)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestParse_UnknownField(t *testing.T) {
	cfg := Default()
	err := Parse([]byte("feed:\n  uri: http://x\n"), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uri")
}

func TestParse_MultipleDocuments(t *testing.T) {
	cfg := Default()
	err := Parse([]byte("log:\n  level: info\n---\nlog:\n  level: debug\n"), &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple YAML documents")
}

func TestParse_Empty(t *testing.T) {
	cfg := Default()
	require.NoError(t, Parse(nil, &cfg))
	assert.Equal(t, Default(), cfg)
}

func TestApplyEnv_Malformed(t *testing.T) {
	isolate(t)
	t.Setenv("QUIZFEED_TIME_LIMIT", "soon")
	t.Setenv("QUIZFEED_CACHE", "maybe")

	cfg := Default()
	err := ApplyEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "QUIZFEED_TIME_LIMIT")
	assert.Contains(t, err.Error(), "QUIZFEED_CACHE")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty url", func(c *Config) { c.Feed.URL = "" }, "feed.url"},
		{"non http url", func(c *Config) { c.Feed.URL = "ftp://example.com/q" }, "feed.url"},
		{"zero timeout", func(c *Config) { c.Feed.Timeout = 0 }, "feed.timeout"},
		{"no attempts", func(c *Config) { c.Feed.Retry.MaxAttempts = 0 }, "feed.retry.max_attempts"},
		{"max below initial", func(c *Config) { c.Feed.Retry.MaxWait = time.Millisecond }, "feed.retry.max_wait"},
		{"shrinking backoff", func(c *Config) { c.Feed.Retry.Multiplier = 0.5 }, "feed.retry.multiplier"},
		{"negative time limit", func(c *Config) { c.Quiz.TimeLimit = -time.Second }, "quiz.time_limit"},
		{"keep zero", func(c *Config) { c.Cache.Keep = 0 }, "cache.keep"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := Validate(&cfg)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			require.NotEmpty(t, verr.Issues)
			assert.Equal(t, tt.field, verr.Issues[0].Field)
		})
	}

	cfg := Default()
	assert.NoError(t, Validate(&cfg))
}
