package tt

import (
	"context"
	"sync"

	"github.com/rickchristie/mrkl"
)

// -----------------------------------------------------------------------------
// MockModel - implements mrkl.Model with scripted completions
// -----------------------------------------------------------------------------

// MockModel returns queued completions in order and records every prompt it
// receives. Once the queue is exhausted it answers with DefaultFinalAnswer.
//
// Safe for concurrent use; concurrent callers consume the queue in arrival
// order.
type MockModel struct {
	mu        sync.Mutex
	responses []*mrkl.Completion
	errors    []error
	callCount int

	// CapturedPrompts stores the prompt of each Generate call.
	CapturedPrompts []string

	// CapturedStops stores the stop sequences of each Generate call.
	CapturedStops [][]string
}

// DefaultFinalAnswer is returned after the queued responses run out.
const DefaultFinalAnswer = "Thought: I now know the final answer\nFinal Answer: done"

// NewMockModel creates an empty MockModel.
func NewMockModel() *MockModel {
	return &MockModel{}
}

// AddResponse queues a completion with the given text and token counts.
func (m *MockModel) AddResponse(text string, inputTokens, outputTokens int) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, &mrkl.Completion{
		Text: text,
		Info: &mrkl.GenerationInfo{
			InputTokens:  inputTokens,
			OutputTokens: outputTokens,
			TotalTokens:  inputTokens + outputTokens,
		},
	})
	m.errors = append(m.errors, nil)
	return m
}

// AddError queues an error for the next call.
func (m *MockModel) AddError(err error) *MockModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, nil)
	m.errors = append(m.errors, err)
	return m
}

// CallCount returns the number of Generate calls.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Prompt returns the prompt of the i-th call (0-indexed).
func (m *MockModel) Prompt(i int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CapturedPrompts[i]
}

// Generate implements mrkl.Model.
func (m *MockModel) Generate(ctx context.Context, prompt string, stop []string) (*mrkl.Completion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.callCount
	m.callCount++
	m.CapturedPrompts = append(m.CapturedPrompts, prompt)
	m.CapturedStops = append(m.CapturedStops, stop)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if idx < len(m.errors) && m.errors[idx] != nil {
		return nil, m.errors[idx]
	}
	if idx < len(m.responses) && m.responses[idx] != nil {
		return m.responses[idx], nil
	}
	return &mrkl.Completion{
		Text: DefaultFinalAnswer,
		Info: &mrkl.GenerationInfo{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}, nil
}

var _ mrkl.Model = (*MockModel)(nil)

// -----------------------------------------------------------------------------
// MockTool - implements mrkl.Tool with recorded inputs
// -----------------------------------------------------------------------------

// MockTool records its inputs and returns a fixed output or error.
type MockTool struct {
	mu     sync.Mutex
	name   string
	desc   string
	output string
	err    error
	fn     func(ctx context.Context, input string) (string, error)

	// Inputs stores the input of each call.
	Inputs []string
}

// NewMockTool creates a tool that returns output.
func NewMockTool(name, output string) *MockTool {
	return &MockTool{name: name, desc: "Mock tool " + name, output: output}
}

// WithDescription sets the description.
func (t *MockTool) WithDescription(desc string) *MockTool {
	t.desc = desc
	return t
}

// WithError makes every call fail with err.
func (t *MockTool) WithError(err error) *MockTool {
	t.err = err
	return t
}

// WithFunc makes calls delegate to fn.
func (t *MockTool) WithFunc(fn func(ctx context.Context, input string) (string, error)) *MockTool {
	t.fn = fn
	return t
}

// Name implements mrkl.Tool.
func (t *MockTool) Name() string { return t.name }

// Description implements mrkl.Tool.
func (t *MockTool) Description() string { return t.desc }

// Call implements mrkl.Tool.
func (t *MockTool) Call(ctx context.Context, input string) (string, error) {
	t.mu.Lock()
	t.Inputs = append(t.Inputs, input)
	t.mu.Unlock()

	if t.fn != nil {
		return t.fn(ctx, input)
	}
	if t.err != nil {
		return "", t.err
	}
	return t.output, nil
}

// CallCount returns the number of calls.
func (t *MockTool) CallCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.Inputs)
}

var _ mrkl.Tool = (*MockTool)(nil)
