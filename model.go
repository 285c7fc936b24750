package mrkl

import (
	"context"
	"time"
)

// Model is the language model collaborator of the agent loop.
//
// It receives one fully formatted prompt and a list of stop sequences, and
// returns the raw completion text. Retries, timeouts and rate limiting are the
// responsibility of the implementation (or the client it wraps).
//
// Implementations live in the models package:
//   - models.LCGWrapper wraps any LangChainGo llms.Model
//   - models.OpenAI talks to an OpenAI-compatible endpoint via go-openai
type Model interface {
	// Generate sends prompt to the model. Generation must stop before any of the
	// stop sequences is emitted.
	Generate(ctx context.Context, prompt string, stop []string) (*Completion, error)
}

// Completion is the response of a single Model.Generate call.
type Completion struct {
	// Text is the raw completion text, exactly as produced by the model.
	Text string

	// StopReason is the provider's reason for ending generation, if reported.
	StopReason string

	// Info contains normalized token usage. May be nil.
	Info *GenerationInfo
}

// GenerationInfo contains normalized generation metadata.
//
// Different providers report token usage under different keys; adapters
// normalize them into these fields.
type GenerationInfo struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int

	// Duration is the wall time of the model call.
	Duration time.Duration

	// Raw is the provider-specific metadata, kept for debugging.
	Raw map[string]any
}

// ModelFunc adapts a plain function to the Model interface.
type ModelFunc func(ctx context.Context, prompt string, stop []string) (*Completion, error)

// Generate calls f.
func (f ModelFunc) Generate(ctx context.Context, prompt string, stop []string) (*Completion, error) {
	return f(ctx, prompt, stop)
}
