package main

import (
	"fmt"
	"os"

	"github.com/rickchristie/mrkl"
	"github.com/rickchristie/mrkl/config"
	"github.com/rickchristie/mrkl/models"
	"github.com/tmc/langchaingo/llms"
)

// apiKey returns the configured key, falling back to the provider's usual
// environment variable.
func apiKey(cfg config.ModelConfig) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	switch cfg.Provider {
	case config.ProviderGitHub:
		return os.Getenv("GITHUB_TOKEN")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}

// newModel builds the model adapter selected by cfg.Provider.
func newModel(cfg config.ModelConfig) (mrkl.Model, error) {
	key := apiKey(cfg)

	switch cfg.Provider {
	case config.ProviderOpenAI:
		if key == "" {
			return nil, fmt.Errorf("openai: %w", models.ErrMissingToken)
		}
		return models.NewOpenAI(models.OpenAIConfig{
			APIKey:      key,
			Model:       cfg.Name,
			BaseURL:     cfg.BaseURL,
			Temperature: float32(cfg.Temperature),
			MaxTokens:   cfg.MaxTokens,
		}), nil

	case config.ProviderLangChainGo:
		m, err := models.NewLCGOpenAI(cfg.Name, key, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return m.WithCallOptions(lcgCallOptions(cfg)...), nil

	case config.ProviderGitHub:
		name := cfg.Name
		if name == "" {
			name = models.DefaultGitHubModel
		}
		m, err := models.NewGitHubModel(name, key)
		if err != nil {
			return nil, err
		}
		return m.WithCallOptions(lcgCallOptions(cfg)...), nil

	default:
		return nil, fmt.Errorf("%w: unknown model provider %q", config.ErrInvalidConfig, cfg.Provider)
	}
}

func lcgCallOptions(cfg config.ModelConfig) []llms.CallOption {
	opts := []llms.CallOption{llms.WithTemperature(cfg.Temperature)}
	if cfg.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(cfg.MaxTokens))
	}
	return opts
}
