package mrkl

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by the agent loop unwraps to one of
// these, so callers can branch with errors.Is.
var (
	// ErrUnparseableResponse means the model output contained neither a final
	// answer nor an action block. Fatal for the run.
	ErrUnparseableResponse = errors.New("unparseable model response")

	// ErrUnknownTool means the parsed action named a tool that is not
	// registered. Recovered into an observation.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrToolInvocation means the tool itself failed. Recovered into an
	// observation.
	ErrToolInvocation = errors.New("tool invocation failed")

	// ErrInvalidToolInput means a structured tool could not decode or
	// validate its Action Input. Recovered into an observation.
	ErrInvalidToolInput = errors.New("invalid tool input")

	// ErrModelCall means the model collaborator failed. Fatal for the run.
	ErrModelCall = errors.New("model call failed")

	// ErrStepLimitExceeded means the run used all of its steps without
	// producing a final answer.
	ErrStepLimitExceeded = errors.New("step limit exceeded")

	// ErrLimitExceeded means a configured stats limit was crossed.
	ErrLimitExceeded = errors.New("limit exceeded")

	// ErrRunStateReused means a RunState that already ran was passed to a
	// new run.
	ErrRunStateReused = errors.New("run state already used")

	// ErrDuplicateTool means two tools with the same name were registered.
	ErrDuplicateTool = errors.New("duplicate tool name")

	// ErrInvalidTool means a nil tool or a tool with an empty name was
	// registered.
	ErrInvalidTool = errors.New("invalid tool")
)

// ParseError is returned by the output parser when the model text matches
// neither the final answer marker nor the action pattern.
type ParseError struct {
	// Text is the offending model output, unmodified.
	Text string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse LLM output: %s", e.Text)
}

// Unwrap returns ErrUnparseableResponse.
func (e *ParseError) Unwrap() error {
	return ErrUnparseableResponse
}

// Stage names used in RunError.
const (
	StagePrompt  = "prompt"
	StageModel   = "model"
	StageParse   = "parse"
	StageLimit   = "limit"
	StageContext = "context"
)

// RunError describes a fatal run failure: which stage failed, in which
// iteration, and the raw model text involved (if any).
type RunError struct {
	RunID     string
	Stage     string
	Iteration int

	// Text is the raw model output for parse failures, empty otherwise.
	Text string

	Err error
}

// Error implements error.
func (e *RunError) Error() string {
	return fmt.Sprintf("run %s failed at %s (iteration %d): %v", e.RunID, e.Stage, e.Iteration, e.Err)
}

// Unwrap returns the underlying error.
func (e *RunError) Unwrap() error {
	return e.Err
}
