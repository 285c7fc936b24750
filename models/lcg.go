package models

import (
	"context"
	"errors"
	"time"

	"github.com/rickchristie/mrkl"
	"github.com/tmc/langchaingo/llms"
)

// ErrNoChoices is returned when a provider answers without any choice.
var ErrNoChoices = errors.New("model returned no choices")

// LCGWrapper wraps an llms.Model and implements mrkl.Model.
//
// The prompt is sent as a single human message and the stop sequences as
// llms.WithStopWords. Token usage is normalized across providers.
//
//	llm, _ := openai.New(openai.WithToken(apiKey), openai.WithModel("gpt-4o-mini"))
//	model := models.NewLCGWrapper(llm).WithModelName("gpt-4o-mini")
type LCGWrapper struct {
	model     llms.Model
	modelName string
	options   []llms.CallOption
}

// NewLCGWrapper creates a new LCGWrapper wrapping the given llms.Model.
func NewLCGWrapper(model llms.Model) *LCGWrapper {
	return &LCGWrapper{
		model: model,
	}
}

// WithModelName sets the name reported by Name.
func (m *LCGWrapper) WithModelName(name string) *LCGWrapper {
	m.modelName = name
	return m
}

// WithCallOptions adds options passed on every call, e.g.
// llms.WithTemperature(0).
func (m *LCGWrapper) WithCallOptions(opts ...llms.CallOption) *LCGWrapper {
	m.options = append(m.options, opts...)
	return m
}

// Name returns the model name set with WithModelName.
func (m *LCGWrapper) Name() string {
	return m.modelName
}

// Unwrap returns the underlying llms.Model.
func (m *LCGWrapper) Unwrap() llms.Model {
	return m.model
}

// Generate implements mrkl.Model.
func (m *LCGWrapper) Generate(ctx context.Context, prompt string, stop []string) (*mrkl.Completion, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}
	opts := make([]llms.CallOption, 0, len(m.options)+1)
	opts = append(opts, m.options...)
	if len(stop) > 0 {
		opts = append(opts, llms.WithStopWords(stop))
	}

	start := time.Now()
	resp, err := m.model.GenerateContent(ctx, messages, opts...)
	duration := time.Since(start)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}
	return convertLCGResponse(resp, duration), nil
}

// convertLCGResponse takes the first choice and normalizes its token info.
func convertLCGResponse(resp *llms.ContentResponse, duration time.Duration) *mrkl.Completion {
	choice := resp.Choices[0]
	out := &mrkl.Completion{
		Text:       choice.Content,
		StopReason: choice.StopReason,
		Info:       &mrkl.GenerationInfo{Duration: duration},
	}

	if raw := choice.GenerationInfo; raw != nil {
		out.Info.Raw = raw
		out.Info.InputTokens = extractInputTokens(raw)
		out.Info.OutputTokens = extractOutputTokens(raw)
		out.Info.TotalTokens = extractTotalTokens(raw, out.Info.InputTokens, out.Info.OutputTokens)
	}
	return out
}

// extractInputTokens reads the prompt token count under the key used by the
// provider.
func extractInputTokens(info map[string]any) int {
	// OpenAI / Ollama / Google (compat)
	if v := getIntFromMap(info, "PromptTokens"); v > 0 {
		return v
	}
	// Anthropic
	if v := getIntFromMap(info, "InputTokens"); v > 0 {
		return v
	}
	// Google / Bedrock
	if v := getIntFromMap(info, "input_tokens"); v > 0 {
		return v
	}
	return 0
}

func extractOutputTokens(info map[string]any) int {
	if v := getIntFromMap(info, "CompletionTokens"); v > 0 {
		return v
	}
	if v := getIntFromMap(info, "OutputTokens"); v > 0 {
		return v
	}
	if v := getIntFromMap(info, "output_tokens"); v > 0 {
		return v
	}
	return 0
}

// extractTotalTokens falls back to input+output when the provider does not
// report a total.
func extractTotalTokens(info map[string]any, input, output int) int {
	if v := getIntFromMap(info, "TotalTokens"); v > 0 {
		return v
	}
	if v := getIntFromMap(info, "total_tokens"); v > 0 {
		return v
	}
	return input + output
}

func getIntFromMap(m map[string]any, key string) int {
	v, ok := m[key]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	default:
		return 0
	}
}

// Compile-time check that LCGWrapper implements mrkl.Model.
var _ mrkl.Model = (*LCGWrapper)(nil)
