package mrkl

import "time"

// BeforeRunEvent is fired once before the first iteration.
type BeforeRunEvent struct {
	Question string
}

// AfterRunEvent is fired once after the run reaches a terminal state.
type AfterRunEvent struct {
	Status RunStatus

	// Result is set when Status is StatusDone.
	Result *Result

	// Err is set when Status is StatusFailed.
	Err error

	Duration time.Duration
}

// BeforeIterationEvent is fired at the start of each iteration, before the
// prompt is formatted.
type BeforeIterationEvent struct {
	Iteration int
}

// AfterIterationEvent is fired after an iteration completes without a fatal
// error. Parsed is the decision taken in the iteration.
type AfterIterationEvent struct {
	Iteration int
	Parsed    ParsedResponse
	Duration  time.Duration
}

// BeforeModelCallEvent is fired before the model is called.
type BeforeModelCallEvent struct {
	Iteration int
	Prompt    string
	Stop      []string
}

// AfterModelCallEvent is fired after the model returns, successfully or not.
type AfterModelCallEvent struct {
	Iteration  int
	Prompt     string
	Completion *Completion
	Duration   time.Duration
	Err        error
}

// ParseErrorEvent is fired when the model output could not be parsed.
type ParseErrorEvent struct {
	Iteration int
	Text      string
	Err       error
}

// BeforeToolCallEvent is fired before a tool is invoked.
// Hooks may rewrite Input; the modified value is passed to the tool.
type BeforeToolCallEvent struct {
	Iteration int
	Tool      string
	Input     string
}

// AfterToolCallEvent is fired after a tool invocation. Err is ErrUnknownTool
// or wraps ErrToolInvocation when the observation describes a failure.
type AfterToolCallEvent struct {
	Iteration   int
	Tool        string
	Input       string
	Observation string
	Duration    time.Duration
	Err         error
}
