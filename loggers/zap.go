// Package loggers provides hooks that log what happens during a run.
//
// ZapHook writes structured log lines and is meant for services. YAMLHook
// writes a readable transcript of every event and is meant for debugging a
// prompt or a tool by eye.
package loggers

import (
	"context"

	"github.com/rickchristie/mrkl"
	"go.uber.org/zap"
)

// ZapHook logs run lifecycle events with zap. Run start and end go to Info,
// per-iteration detail goes to Debug, parse errors and tool errors go to Warn.
// Every line carries the run_id field.
type ZapHook struct {
	logger *zap.Logger
}

// NewZapHook creates a ZapHook. A nil logger logs nothing.
func NewZapHook(logger *zap.Logger) *ZapHook {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapHook{logger: logger}
}

func (h *ZapHook) with(run *mrkl.RunState) *zap.Logger {
	return h.logger.With(zap.String("run_id", run.ID()))
}

// OnBeforeRun logs the question.
func (h *ZapHook) OnBeforeRun(_ context.Context, run *mrkl.RunState, e mrkl.BeforeRunEvent) {
	h.with(run).Info("run started", zap.String("question", e.Question))
}

// OnAfterRun logs the outcome and the run stats.
func (h *ZapHook) OnAfterRun(_ context.Context, run *mrkl.RunState, e mrkl.AfterRunEvent) {
	stats := run.Stats()
	fields := []zap.Field{
		zap.String("status", string(e.Status)),
		zap.Duration("duration", e.Duration),
		zap.Int("iterations", run.Iteration()),
		zap.Int64("input_tokens", stats.GetCounter(mrkl.KeyInputTokens)),
		zap.Int64("output_tokens", stats.GetCounter(mrkl.KeyOutputTokens)),
		zap.Int64("tool_calls", stats.GetCounter(mrkl.KeyToolCalls)),
	}
	if e.Err != nil {
		h.with(run).Error("run failed", append(fields, zap.Error(e.Err))...)
		return
	}
	if e.Result != nil {
		fields = append(fields, zap.String("output", e.Result.Output))
	}
	h.with(run).Info("run finished", fields...)
}

// OnBeforeModelCall logs the prompt size.
func (h *ZapHook) OnBeforeModelCall(_ context.Context, run *mrkl.RunState, e mrkl.BeforeModelCallEvent) {
	h.with(run).Debug("calling model",
		zap.Int("iteration", e.Iteration),
		zap.Int("prompt_bytes", len(e.Prompt)),
		zap.Strings("stop", e.Stop),
	)
}

// OnAfterModelCall logs the completion text and token usage.
func (h *ZapHook) OnAfterModelCall(_ context.Context, run *mrkl.RunState, e mrkl.AfterModelCallEvent) {
	logger := h.with(run)
	if e.Err != nil {
		logger.Debug("model call failed",
			zap.Int("iteration", e.Iteration),
			zap.Duration("duration", e.Duration),
			zap.Error(e.Err),
		)
		return
	}

	fields := []zap.Field{
		zap.Int("iteration", e.Iteration),
		zap.Duration("duration", e.Duration),
		zap.String("text", e.Completion.Text),
	}
	if info := e.Completion.Info; info != nil {
		fields = append(fields,
			zap.Int("input_tokens", info.InputTokens),
			zap.Int("output_tokens", info.OutputTokens),
		)
	}
	logger.Debug("model responded", fields...)
}

// OnParseError logs the text the parser rejected.
func (h *ZapHook) OnParseError(_ context.Context, run *mrkl.RunState, e mrkl.ParseErrorEvent) {
	h.with(run).Warn("unparseable model output",
		zap.Int("iteration", e.Iteration),
		zap.String("text", e.Text),
	)
}

// OnAfterToolCall logs the tool call and its observation.
func (h *ZapHook) OnAfterToolCall(_ context.Context, run *mrkl.RunState, e mrkl.AfterToolCallEvent) {
	fields := []zap.Field{
		zap.Int("iteration", e.Iteration),
		zap.String("tool", e.Tool),
		zap.String("input", e.Input),
		zap.String("observation", e.Observation),
		zap.Duration("duration", e.Duration),
	}
	if e.Err != nil {
		h.with(run).Warn("tool call failed", append(fields, zap.Error(e.Err))...)
		return
	}
	h.with(run).Debug("tool called", fields...)
}

// Compile-time checks that ZapHook implements the hook interfaces it uses.
var (
	_ mrkl.BeforeRunHook       = (*ZapHook)(nil)
	_ mrkl.AfterRunHook        = (*ZapHook)(nil)
	_ mrkl.BeforeModelCallHook = (*ZapHook)(nil)
	_ mrkl.AfterModelCallHook  = (*ZapHook)(nil)
	_ mrkl.ParseErrorHook      = (*ZapHook)(nil)
	_ mrkl.AfterToolCallHook   = (*ZapHook)(nil)
)
