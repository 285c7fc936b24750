package mrkl

import (
	"context"

	"github.com/tmc/langchaingo/tools"
)

// Tool is a single callable the model can choose. It is LangChainGo's
// tools.Tool, so any existing LangChainGo tool can be registered as-is.
//
//   - Name is the literal token the model writes after "Action: ", so it must
//     be unique within a registry.
//   - Description is shown to the model next to the name.
//   - Call receives the raw Action Input and returns the observation.
type Tool = tools.Tool

// ToolFunc is a convenience Tool built from a function.
type ToolFunc struct {
	name        string
	description string
	fn          func(ctx context.Context, input string) (string, error)
}

// NewToolFunc creates a Tool from a name, a description and a function.
func NewToolFunc(
	name, description string,
	fn func(ctx context.Context, input string) (string, error),
) *ToolFunc {
	return &ToolFunc{
		name:        name,
		description: description,
		fn:          fn,
	}
}

// Name returns the tool's identifier.
func (t *ToolFunc) Name() string {
	return t.name
}

// Description returns the text shown to the model.
func (t *ToolFunc) Description() string {
	return t.description
}

// Call executes the tool function.
func (t *ToolFunc) Call(ctx context.Context, input string) (string, error) {
	return t.fn(ctx, input)
}

// Compile-time check that ToolFunc implements Tool.
var _ Tool = (*ToolFunc)(nil)
