package loggers

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rickchristie/mrkl"
	"gopkg.in/yaml.v3"
)

// YAMLHook writes a transcript of every event to a writer. Event payloads are
// written as YAML so multi-line prompts and completions come out as block
// scalars. Nothing is truncated.
//
// Output of concurrent runs is serialized per event, so lines of one event
// are never interleaved with another, but events of different runs are.
// Use one hook per run when that matters.
type YAMLHook struct {
	mu  sync.Mutex
	out io.Writer

	// now is replaced in tests.
	now func() time.Time
}

// NewYAMLHook creates a YAMLHook that writes to stdout.
func NewYAMLHook() *YAMLHook {
	return NewYAMLHookWithWriter(os.Stdout)
}

// NewYAMLHookWithWriter creates a YAMLHook that writes to w.
func NewYAMLHookWithWriter(w io.Writer) *YAMLHook {
	return &YAMLHook{out: w, now: time.Now}
}

// write prints an event header followed by v as YAML.
func (h *YAMLHook) write(name string, v any) {
	data, err := yaml.Marshal(v)

	h.mu.Lock()
	defer h.mu.Unlock()

	fmt.Fprintf(h.out, "\n>>> [%s]: %s\n", name, h.now().Format("2006-01-02 15:04:05.000"))
	if err != nil {
		fmt.Fprintf(h.out, "(failed to marshal: %v)\n", err)
		return
	}
	_, _ = h.out.Write(data)
}

// OnBeforeRun writes the run id and question.
func (h *YAMLHook) OnBeforeRun(_ context.Context, run *mrkl.RunState, e mrkl.BeforeRunEvent) {
	h.write("BeforeRun", map[string]any{
		"run_id":   run.ID(),
		"question": e.Question,
	})
}

// OnAfterRun writes the outcome and the final stats.
func (h *YAMLHook) OnAfterRun(_ context.Context, run *mrkl.RunState, e mrkl.AfterRunEvent) {
	data := map[string]any{
		"run_id":     run.ID(),
		"status":     string(e.Status),
		"duration":   e.Duration.String(),
		"iterations": run.Iteration(),
		"counters":   run.Stats().Counters(),
		"gauges":     run.Stats().Gauges(),
	}
	if e.Err != nil {
		data["error"] = e.Err.Error()
	}
	if e.Result != nil {
		data["output"] = e.Result.Output
	}
	h.write("AfterRun", data)
}

// OnBeforeIteration writes the iteration number.
func (h *YAMLHook) OnBeforeIteration(_ context.Context, _ *mrkl.RunState, e mrkl.BeforeIterationEvent) {
	h.write(fmt.Sprintf("BeforeIteration %d", e.Iteration), map[string]any{
		"iteration": e.Iteration,
	})
}

// OnAfterIteration writes the parsed decision of the iteration.
func (h *YAMLHook) OnAfterIteration(_ context.Context, _ *mrkl.RunState, e mrkl.AfterIterationEvent) {
	data := map[string]any{
		"duration": e.Duration.String(),
	}
	switch {
	case e.Parsed.IsFinish():
		data["final_answer"] = e.Parsed.Output()
	case e.Parsed.Action != nil:
		data["action"] = e.Parsed.Action.Tool
		data["action_input"] = e.Parsed.Action.ToolInput
	}
	h.write(fmt.Sprintf("AfterIteration %d", e.Iteration), data)
}

// OnBeforeModelCall writes the full prompt.
func (h *YAMLHook) OnBeforeModelCall(_ context.Context, _ *mrkl.RunState, e mrkl.BeforeModelCallEvent) {
	h.write("BeforeModelCall", map[string]any{
		"prompt": e.Prompt,
		"stop":   e.Stop,
	})
}

// OnAfterModelCall writes the completion or the error.
func (h *YAMLHook) OnAfterModelCall(_ context.Context, _ *mrkl.RunState, e mrkl.AfterModelCallEvent) {
	data := map[string]any{
		"duration": e.Duration.String(),
	}
	if e.Err != nil {
		data["error"] = e.Err.Error()
	} else if e.Completion != nil {
		data["text"] = e.Completion.Text
		if e.Completion.StopReason != "" {
			data["stop_reason"] = e.Completion.StopReason
		}
		if info := e.Completion.Info; info != nil {
			data["tokens"] = map[string]int{
				"input":  info.InputTokens,
				"output": info.OutputTokens,
				"total":  info.TotalTokens,
			}
		}
	}
	h.write("AfterModelCall", data)
}

// OnParseError writes the rejected text.
func (h *YAMLHook) OnParseError(_ context.Context, _ *mrkl.RunState, e mrkl.ParseErrorEvent) {
	h.write("ParseError", map[string]any{
		"iteration": e.Iteration,
		"text":      e.Text,
		"error":     e.Err.Error(),
	})
}

// OnBeforeToolCall writes the tool name and input.
func (h *YAMLHook) OnBeforeToolCall(_ context.Context, _ *mrkl.RunState, e *mrkl.BeforeToolCallEvent) {
	h.write("BeforeToolCall: "+e.Tool, map[string]any{
		"input": e.Input,
	})
}

// OnAfterToolCall writes the observation.
func (h *YAMLHook) OnAfterToolCall(_ context.Context, _ *mrkl.RunState, e mrkl.AfterToolCallEvent) {
	data := map[string]any{
		"duration":    e.Duration.String(),
		"observation": e.Observation,
	}
	if e.Err != nil {
		data["error"] = e.Err.Error()
	}
	h.write("AfterToolCall: "+e.Tool, data)
}

// Compile-time checks that YAMLHook implements all hook interfaces.
var (
	_ mrkl.BeforeRunHook       = (*YAMLHook)(nil)
	_ mrkl.AfterRunHook        = (*YAMLHook)(nil)
	_ mrkl.BeforeIterationHook = (*YAMLHook)(nil)
	_ mrkl.AfterIterationHook  = (*YAMLHook)(nil)
	_ mrkl.BeforeModelCallHook = (*YAMLHook)(nil)
	_ mrkl.AfterModelCallHook  = (*YAMLHook)(nil)
	_ mrkl.ParseErrorHook      = (*YAMLHook)(nil)
	_ mrkl.BeforeToolCallHook  = (*YAMLHook)(nil)
	_ mrkl.AfterToolCallHook   = (*YAMLHook)(nil)
)
