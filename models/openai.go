package models

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rickchristie/mrkl"
	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the go-openai adapter.
type OpenAIConfig struct {
	APIKey string
	Model  string

	// BaseURL overrides the API endpoint, for OpenAI-compatible servers
	// (OpenRouter, vLLM, Ollama). Empty means api.openai.com.
	BaseURL string

	Temperature float32
	MaxTokens   int

	// HTTPClient is optional.
	HTTPClient *http.Client
}

// OpenAI implements mrkl.Model on top of github.com/sashabaranov/go-openai.
// The prompt is sent as one user message; stop sequences map to the request's
// Stop field.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewOpenAI creates the adapter.
func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	}

	return &OpenAI{
		client:      openai.NewClientWithConfig(config),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Name returns the configured model name.
func (o *OpenAI) Name() string {
	return o.model
}

// Generate implements mrkl.Model.
func (o *OpenAI) Generate(ctx context.Context, prompt string, stop []string) (*mrkl.Completion, error) {
	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Stop:        stop,
		Temperature: o.temperature,
		MaxTokens:   o.maxTokens,
	})
	duration := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}

	choice := resp.Choices[0]
	usage := resp.Usage
	return &mrkl.Completion{
		Text:       choice.Message.Content,
		StopReason: string(choice.FinishReason),
		Info: &mrkl.GenerationInfo{
			InputTokens:  usage.PromptTokens,
			OutputTokens: usage.CompletionTokens,
			TotalTokens:  usage.TotalTokens,
			Duration:     duration,
			Raw: map[string]any{
				"PromptTokens":     usage.PromptTokens,
				"CompletionTokens": usage.CompletionTokens,
				"TotalTokens":      usage.TotalTokens,
				"ID":               resp.ID,
			},
		},
	}, nil
}

// Compile-time check that OpenAI implements mrkl.Model.
var _ mrkl.Model = (*OpenAI)(nil)
