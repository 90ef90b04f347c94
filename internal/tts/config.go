package tts

import (
	"fmt"
	"os"
	"time"
)

// Config holds all TTS provider configuration.
type Config struct {
	// Provider selects which provider to use: "openai" or "mock".
	Provider string

	OpenAI OpenAIConfig
	Retry  RetryConfig

	// Timeout bounds a single item, retries included.
	Timeout time.Duration
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "tts-1"
	Voice   string // Default: "alloy"
	BaseURL string // Optional. Override for compatible APIs.
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "openai",
		OpenAI: OpenAIConfig{
			Model: "tts-1",
			Voice: "alloy",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. OPENAI_API_KEY is used when the
// application-specific key is not set.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("ANKI_SENTENCES_TTS_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	if k := os.Getenv("ANKI_SENTENCES_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	} else if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	}
	if m := os.Getenv("ANKI_SENTENCES_TTS_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if v := os.Getenv("ANKI_SENTENCES_TTS_VOICE"); v != "" {
		cfg.OpenAI.Voice = v
	}
	if u := os.Getenv("ANKI_SENTENCES_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	return cfg
}

// Validate checks that the selected provider has what it needs.
func (c Config) Validate() error {
	switch c.Provider {
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY or ANKI_SENTENCES_OPENAI_API_KEY is required for the openai provider")
		}
	case "mock":
	default:
		return fmt.Errorf("unknown TTS provider: %q", c.Provider)
	}
	return nil
}
