package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures one provider.
type Config struct {
	Provider string

	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	Gemini     ProviderConfig
	OpenRouter ProviderConfig
	Retry      RetryConfig

	// Timeout bounds a single Generate call including retries.
	Timeout time.Duration
}

// ProviderConfig holds credentials for one backend. BaseURL is honoured by
// the OpenAI-compatible backends only.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig configures backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with small, cheap models selected.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-001", BaseURL: openRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

func (c *Config) backend(name string) *ProviderConfig {
	switch name {
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGemini:
		return &c.Gemini
	case ProviderOpenRouter:
		return &c.OpenRouter
	}
	return nil
}

// envName returns QUIZFEED_<PROVIDER>_<KEY>.
func envName(provider, key string) string {
	return "QUIZFEED_" + strings.ToUpper(provider) + "_" + key
}

// ConfigFromEnv reads QUIZFEED_LLM_PROVIDER and the QUIZFEED_<PROVIDER>_*
// variables on top of DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if p := os.Getenv("QUIZFEED_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	}
	for _, name := range []string{ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter} {
		b := cfg.backend(name)
		if v := os.Getenv(envName(name, "API_KEY")); v != "" {
			b.APIKey = v
		}
		if v := os.Getenv(envName(name, "MODEL")); v != "" {
			b.Model = v
		}
		if v := os.Getenv(envName(name, "BASE_URL")); v != "" {
			b.BaseURL = v
		}
	}
	return cfg
}

// discoveryOrder is the order standard vendor key variables are probed.
var discoveryOrder = []struct {
	provider string
	env      string
}{
	{ProviderGemini, "GEMINI_API_KEY"},
	{ProviderOpenAI, "OPENAI_API_KEY"},
	{ProviderAnthropic, "ANTHROPIC_API_KEY"},
	{ProviderOpenRouter, "OPENROUTER_API_KEY"},
}

// DiscoverConfig picks the first provider whose vendor API key variable is
// set. It reports false when none is.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()
	for _, d := range discoveryOrder {
		if k := os.Getenv(d.env); k != "" {
			cfg.Provider = d.provider
			cfg.backend(d.provider).APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// ResolveConfig prefers explicit QUIZFEED_LLM_PROVIDER configuration and
// falls back to key discovery. It reports false when no provider is usable.
func ResolveConfig() (Config, bool) {
	if os.Getenv("QUIZFEED_LLM_PROVIDER") != "" {
		cfg := ConfigFromEnv()
		return cfg, cfg.Validate() == nil
	}
	return DiscoverConfig()
}

// Validate checks that the selected provider has an API key.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	b := c.backend(c.Provider)
	if b == nil {
		return fmt.Errorf("unknown llm provider %q", c.Provider)
	}
	if b.APIKey == "" {
		return fmt.Errorf("%s is required for the %s provider", envName(c.Provider, "API_KEY"), c.Provider)
	}
	return nil
}
