package hooks

import (
	"context"
	"sync"

	"github.com/rickchristie/mrkl"
)

// Registry stores hooks in registration order and dispatches events to the
// hooks that implement the matching interface.
//
// A hook can implement any combination of hook interfaces and only receives
// the events it implements:
//
//	type FullHook struct{ logger *zap.Logger }
//
//	func (h *FullHook) OnBeforeRun(ctx context.Context, run *mrkl.RunState, e mrkl.BeforeRunEvent) {
//	    h.logger.Info("run started", zap.String("question", e.Question))
//	}
//
//	func (h *FullHook) OnAfterToolCall(ctx context.Context, run *mrkl.RunState, e mrkl.AfterToolCallEvent) {
//	    h.logger.Info("tool called", zap.String("tool", e.Tool))
//	}
//
//	registry.Register(&FullHook{logger: logger})
//
// Registry is safe for concurrent use: a registry shared by several executors
// can be fired from concurrent runs. Hooks themselves must be safe for
// concurrent use in that case.
type Registry struct {
	mu    sync.RWMutex
	hooks []any
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		hooks: make([]any, 0),
	}
}

// Register adds a hook. The hook should implement one or more hook
// interfaces; a value implementing none is kept but never called.
// Returns the registry for chaining.
func (r *Registry) Register(hook any) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = append(r.hooks, hook)
	return r
}

// Len returns the number of registered hooks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks)
}

// Clear removes all registered hooks.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks = make([]any, 0)
}

func (r *Registry) snapshot() []any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hooks
}

// FireBeforeRun dispatches a BeforeRunEvent.
func (r *Registry) FireBeforeRun(ctx context.Context, run *mrkl.RunState, event mrkl.BeforeRunEvent) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(mrkl.BeforeRunHook); ok {
			hook.OnBeforeRun(ctx, run, event)
		}
	}
}

// FireAfterRun dispatches an AfterRunEvent.
func (r *Registry) FireAfterRun(ctx context.Context, run *mrkl.RunState, event mrkl.AfterRunEvent) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(mrkl.AfterRunHook); ok {
			hook.OnAfterRun(ctx, run, event)
		}
	}
}

// FireBeforeIteration dispatches a BeforeIterationEvent.
func (r *Registry) FireBeforeIteration(
	ctx context.Context,
	run *mrkl.RunState,
	event mrkl.BeforeIterationEvent,
) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(mrkl.BeforeIterationHook); ok {
			hook.OnBeforeIteration(ctx, run, event)
		}
	}
}

// FireAfterIteration dispatches an AfterIterationEvent.
func (r *Registry) FireAfterIteration(
	ctx context.Context,
	run *mrkl.RunState,
	event mrkl.AfterIterationEvent,
) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(mrkl.AfterIterationHook); ok {
			hook.OnAfterIteration(ctx, run, event)
		}
	}
}

// FireBeforeModelCall dispatches a BeforeModelCallEvent.
func (r *Registry) FireBeforeModelCall(
	ctx context.Context,
	run *mrkl.RunState,
	event mrkl.BeforeModelCallEvent,
) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(mrkl.BeforeModelCallHook); ok {
			hook.OnBeforeModelCall(ctx, run, event)
		}
	}
}

// FireAfterModelCall dispatches an AfterModelCallEvent.
func (r *Registry) FireAfterModelCall(
	ctx context.Context,
	run *mrkl.RunState,
	event mrkl.AfterModelCallEvent,
) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(mrkl.AfterModelCallHook); ok {
			hook.OnAfterModelCall(ctx, run, event)
		}
	}
}

// FireParseError dispatches a ParseErrorEvent.
func (r *Registry) FireParseError(ctx context.Context, run *mrkl.RunState, event mrkl.ParseErrorEvent) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(mrkl.ParseErrorHook); ok {
			hook.OnParseError(ctx, run, event)
		}
	}
}

// FireBeforeToolCall dispatches a BeforeToolCallEvent.
// Hooks can modify event.Input to change the tool input.
func (r *Registry) FireBeforeToolCall(
	ctx context.Context,
	run *mrkl.RunState,
	event *mrkl.BeforeToolCallEvent,
) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(mrkl.BeforeToolCallHook); ok {
			hook.OnBeforeToolCall(ctx, run, event)
		}
	}
}

// FireAfterToolCall dispatches an AfterToolCallEvent.
func (r *Registry) FireAfterToolCall(
	ctx context.Context,
	run *mrkl.RunState,
	event mrkl.AfterToolCallEvent,
) {
	for _, h := range r.snapshot() {
		if hook, ok := h.(mrkl.AfterToolCallHook); ok {
			hook.OnAfterToolCall(ctx, run, event)
		}
	}
}
