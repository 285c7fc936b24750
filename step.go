package mrkl

import "github.com/tmc/langchaingo/schema"

// FinishOutputKey is the ReturnValues key holding the final answer text.
const FinishOutputKey = "output"

// ParsedResponse is the decision extracted from one model response.
// Exactly one of Action and Finish is non-nil.
type ParsedResponse struct {
	// Action is set when the model asked for a tool call.
	Action *schema.AgentAction

	// Finish is set when the model produced a final answer.
	Finish *schema.AgentFinish
}

// NewActionResponse creates a ParsedResponse for a tool call. log is the raw
// model text the action was parsed from.
func NewActionResponse(tool, input, log string) ParsedResponse {
	return ParsedResponse{
		Action: &schema.AgentAction{
			Tool:      tool,
			ToolInput: input,
			Log:       log,
		},
	}
}

// NewFinishResponse creates a ParsedResponse for a final answer.
func NewFinishResponse(output, log string) ParsedResponse {
	return ParsedResponse{
		Finish: &schema.AgentFinish{
			ReturnValues: map[string]any{FinishOutputKey: output},
			Log:          log,
		},
	}
}

// IsFinish reports whether the response is a final answer.
func (p ParsedResponse) IsFinish() bool {
	return p.Finish != nil
}

// Output returns the final answer text, or "" for an action.
func (p ParsedResponse) Output() string {
	if p.Finish == nil {
		return ""
	}
	out, _ := p.Finish.ReturnValues[FinishOutputKey].(string)
	return out
}

// Result is the outcome of a successful run.
type Result struct {
	// RunID identifies the run in logs and metrics.
	RunID string

	// Output is the trimmed final answer.
	Output string

	// Steps are the (action, observation) pairs in invocation order.
	Steps []schema.AgentStep

	// Iterations is the number of model calls made.
	Iterations int
}
