package mrkl

import "context"

// -----------------------------------------------------------------------------
// Hook Interfaces
// -----------------------------------------------------------------------------
//
// Hooks observe a run at fixed points of the loop. To use them:
//
//  1. Implement the desired hook interface(s)
//  2. Register with hooks.Registry (or executor.RegisterHook)
//
// Example:
//
//	type PrintHook struct{}
//
//	func (h *PrintHook) OnAfterToolCall(ctx context.Context, run *RunState, e AfterToolCallEvent) {
//	    fmt.Printf("%s(%q) -> %q\n", e.Tool, e.Input, e.Observation)
//	}
//
// Hooks are called in registration order. For paired hooks (Before/After),
// the After hook is always called if the Before hook was called, even on error.
//
// Hooks do not return errors. A panicking hook panics the run.
// -----------------------------------------------------------------------------

// BeforeRunHook is called once before the first iteration.
type BeforeRunHook interface {
	OnBeforeRun(ctx context.Context, run *RunState, event BeforeRunEvent)
}

// AfterRunHook is called once after the run reaches StatusDone or
// StatusFailed. Always called if OnBeforeRun was called.
type AfterRunHook interface {
	OnAfterRun(ctx context.Context, run *RunState, event AfterRunEvent)
}

// BeforeIterationHook is called at the start of each iteration.
type BeforeIterationHook interface {
	OnBeforeIteration(ctx context.Context, run *RunState, event BeforeIterationEvent)
}

// AfterIterationHook is called after each iteration that did not fail the
// run.
type AfterIterationHook interface {
	OnAfterIteration(ctx context.Context, run *RunState, event AfterIterationEvent)
}

// BeforeModelCallHook is called before each model call.
type BeforeModelCallHook interface {
	OnBeforeModelCall(ctx context.Context, run *RunState, event BeforeModelCallEvent)
}

// AfterModelCallHook is called after each model call, including failed ones.
//
// Use it to record token usage:
//
//	func (h *UsageHook) OnAfterModelCall(ctx context.Context, run *mrkl.RunState, e mrkl.AfterModelCallEvent) {
//	    if e.Completion != nil && e.Completion.Info != nil {
//	        h.total += e.Completion.Info.TotalTokens
//	    }
//	}
type AfterModelCallHook interface {
	OnAfterModelCall(ctx context.Context, run *RunState, event AfterModelCallEvent)
}

// ParseErrorHook is called when a model response cannot be parsed. The run
// fails right after.
type ParseErrorHook interface {
	OnParseError(ctx context.Context, run *RunState, event ParseErrorEvent)
}

// BeforeToolCallHook is called before each tool invocation. The event is
// passed by pointer so hooks can rewrite Input.
type BeforeToolCallHook interface {
	OnBeforeToolCall(ctx context.Context, run *RunState, event *BeforeToolCallEvent)
}

// AfterToolCallHook is called after each tool invocation, including unknown
// tools and failed calls.
type AfterToolCallHook interface {
	OnAfterToolCall(ctx context.Context, run *RunState, event AfterToolCallEvent)
}
