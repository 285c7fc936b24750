package tt

import (
	"context"
	"sync"

	"github.com/rickchristie/mrkl"
)

// RecordingHook implements every hook interface and records the name of each
// event it receives, in order. Payloads of tool and model events are kept for
// inspection.
type RecordingHook struct {
	mu sync.Mutex

	Events      []string
	ToolCalls   []mrkl.AfterToolCallEvent
	ModelCalls  []mrkl.AfterModelCallEvent
	ParseErrors []mrkl.ParseErrorEvent
	AfterRun    *mrkl.AfterRunEvent

	// RewriteInput, if set, replaces the tool input in OnBeforeToolCall.
	RewriteInput func(tool, input string) string
}

// Event names recorded by RecordingHook.
const (
	EvBeforeRun       = "BeforeRun"
	EvAfterRun        = "AfterRun"
	EvBeforeIteration = "BeforeIteration"
	EvAfterIteration  = "AfterIteration"
	EvBeforeModelCall = "BeforeModelCall"
	EvAfterModelCall  = "AfterModelCall"
	EvParseError      = "ParseError"
	EvBeforeToolCall  = "BeforeToolCall"
	EvAfterToolCall   = "AfterToolCall"
)

func (h *RecordingHook) record(name string) {
	h.Events = append(h.Events, name)
}

// Recorded returns a copy of the recorded event names.
func (h *RecordingHook) Recorded() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.Events))
	copy(out, h.Events)
	return out
}

func (h *RecordingHook) OnBeforeRun(_ context.Context, _ *mrkl.RunState, _ mrkl.BeforeRunEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(EvBeforeRun)
}

func (h *RecordingHook) OnAfterRun(_ context.Context, _ *mrkl.RunState, e mrkl.AfterRunEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(EvAfterRun)
	h.AfterRun = &e
}

func (h *RecordingHook) OnBeforeIteration(_ context.Context, _ *mrkl.RunState, _ mrkl.BeforeIterationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(EvBeforeIteration)
}

func (h *RecordingHook) OnAfterIteration(_ context.Context, _ *mrkl.RunState, _ mrkl.AfterIterationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(EvAfterIteration)
}

func (h *RecordingHook) OnBeforeModelCall(_ context.Context, _ *mrkl.RunState, _ mrkl.BeforeModelCallEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(EvBeforeModelCall)
}

func (h *RecordingHook) OnAfterModelCall(_ context.Context, _ *mrkl.RunState, e mrkl.AfterModelCallEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(EvAfterModelCall)
	h.ModelCalls = append(h.ModelCalls, e)
}

func (h *RecordingHook) OnParseError(_ context.Context, _ *mrkl.RunState, e mrkl.ParseErrorEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(EvParseError)
	h.ParseErrors = append(h.ParseErrors, e)
}

func (h *RecordingHook) OnBeforeToolCall(_ context.Context, _ *mrkl.RunState, e *mrkl.BeforeToolCallEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(EvBeforeToolCall)
	if h.RewriteInput != nil {
		e.Input = h.RewriteInput(e.Tool, e.Input)
	}
}

func (h *RecordingHook) OnAfterToolCall(_ context.Context, _ *mrkl.RunState, e mrkl.AfterToolCallEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.record(EvAfterToolCall)
	h.ToolCalls = append(h.ToolCalls, e)
}

var (
	_ mrkl.BeforeRunHook       = (*RecordingHook)(nil)
	_ mrkl.AfterRunHook        = (*RecordingHook)(nil)
	_ mrkl.BeforeIterationHook = (*RecordingHook)(nil)
	_ mrkl.AfterIterationHook  = (*RecordingHook)(nil)
	_ mrkl.BeforeModelCallHook = (*RecordingHook)(nil)
	_ mrkl.AfterModelCallHook  = (*RecordingHook)(nil)
	_ mrkl.ParseErrorHook      = (*RecordingHook)(nil)
	_ mrkl.BeforeToolCallHook  = (*RecordingHook)(nil)
	_ mrkl.AfterToolCallHook   = (*RecordingHook)(nil)
)
