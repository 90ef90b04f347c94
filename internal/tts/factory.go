package tts

import "fmt"

// NewProvider creates a Provider from configuration, wrapped with retry.
func NewProvider(cfg Config) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	switch cfg.Provider {
	case "openai":
		p, err := NewOpenAIProvider(cfg.OpenAI)
		if err != nil {
			return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
		}
		base = p
	case "mock":
		m := NewMockProvider()
		m.Fallback = []byte("mock audio")
		return m, nil
	}

	return WithRetry(base, cfg.Retry), nil
}
