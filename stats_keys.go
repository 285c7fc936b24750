package mrkl

// KeyPrefix is the prefix of every standard stat key. Use your own prefix for
// custom counters.
const KeyPrefix = "mrkl:"

// Iteration tracking. Incremented once per model call.
const KeyIterations = "mrkl:iterations"

// Token tracking keys.
const (
	KeyInputTokens  = "mrkl:input_tokens"
	KeyOutputTokens = "mrkl:output_tokens"
)

// Tool call tracking keys.
const (
	KeyToolCalls    = "mrkl:tool_calls"
	KeyToolCallsFor = "mrkl:tool_calls:" // + tool name

	KeyToolCallsErrorTotal       = "mrkl:tool_calls_error_total"
	KeyToolCallsErrorFor         = "mrkl:tool_calls_error:" // + tool name
	KeyToolCallsErrorConsecutive = "mrkl:tool_calls_error_consecutive"

	KeyUnknownToolTotal = "mrkl:unknown_tool_total"
)
