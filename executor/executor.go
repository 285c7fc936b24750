// Package executor runs the agent loop: format the prompt, ask the model,
// parse its answer, call the chosen tool, and repeat until the model gives a
// final answer.
//
//	exec := executor.New(model, registry, executor.DefaultConfig())
//	result, err := exec.Run(ctx, "What is the weather on the 30th?")
//	if err != nil {
//	    var runErr *mrkl.RunError
//	    if errors.As(err, &runErr) {
//	        log.Printf("failed at %s: %v", runErr.Stage, runErr.Err)
//	    }
//	    return err
//	}
//	fmt.Println(result.Output)
//
// # State Machine
//
//	Thinking --(final answer)--> Done
//	Thinking --(action)--------> Acting --(observation)--> Thinking
//	Thinking --(model error, parse error, limit, cancel)--> Failed
//
// Unknown tools and failing tools are not failures of the run: the
// observation tells the model what went wrong and the loop continues.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rickchristie/mrkl"
	"github.com/rickchristie/mrkl/hooks"
	"github.com/rickchristie/mrkl/outputparser"
	"github.com/rickchristie/mrkl/prompt"
	"github.com/rickchristie/mrkl/toolchain"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

// DefaultMaxSteps is the default number of model calls per run.
const DefaultMaxSteps = 15

// DefaultStop ends generation before the model invents its own observation.
var DefaultStop = []string{"\nObservation"}

// Tools is what the executor needs from a tool registry.
// *toolchain.Registry implements it.
type Tools interface {
	Describe() toolchain.Description
	Invoke(ctx context.Context, name, input string) toolchain.Invocation
}

// Config holds configuration options for the Executor.
type Config struct {
	// MaxSteps bounds the number of model calls. A run that needs to start
	// call MaxSteps+1 fails with ErrStepLimitExceeded. Zero or negative means
	// DefaultMaxSteps.
	MaxSteps int

	// Stop sequences passed to the model. Nil means DefaultStop.
	Stop []string

	// Limits are extra stats guards, see mrkl.Limit.
	Limits []mrkl.Limit

	// Logger receives debug output from the prompt formatter and the parser.
	// Nil means no logging.
	Logger *zap.Logger
}

// DefaultConfig returns a config with DefaultMaxSteps, DefaultStop and no
// extra limits.
func DefaultConfig() Config {
	return Config{
		MaxSteps: DefaultMaxSteps,
		Stop:     DefaultStop,
	}
}

// Executor runs questions against a model and a set of tools.
//
// An Executor holds no per-run state: every Run creates its own
// mrkl.RunState, so one Executor can serve concurrent runs as long as the
// model, tools and hooks are safe for concurrent use.
type Executor struct {
	model     mrkl.Model
	tools     Tools
	config    Config
	formatter *prompt.Formatter
	parser    *outputparser.Parser
	hooks     *hooks.Registry
	logger    *zap.Logger
}

// New creates an Executor.
func New(model mrkl.Model, tools Tools, config Config) *Executor {
	if config.MaxSteps <= 0 {
		config.MaxSteps = DefaultMaxSteps
	}
	if config.Stop == nil {
		config.Stop = DefaultStop
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Executor{
		model:     model,
		tools:     tools,
		config:    config,
		formatter: prompt.New().WithLogger(logger),
		parser:    outputparser.New().WithLogger(logger),
		hooks:     hooks.NewRegistry(),
		logger:    logger,
	}
}

// WithFormatter replaces the prompt formatter, e.g. to use a custom
// template. Returns the executor for chaining.
func (e *Executor) WithFormatter(f *prompt.Formatter) *Executor {
	e.formatter = f
	return e
}

// WithHooks replaces the hook registry. Use it to share one registry between
// executors. Returns the executor for chaining.
func (e *Executor) WithHooks(h *hooks.Registry) *Executor {
	e.hooks = h
	return e
}

// RegisterHook adds a hook to the executor's registry. The hook can
// implement any combination of the mrkl hook interfaces.
// Returns the executor for chaining.
//
//	exec := executor.New(model, registry, cfg).
//	    RegisterHook(loggers.NewZapHook(logger)).
//	    RegisterHook(metricsHook)
func (e *Executor) RegisterHook(hook any) *Executor {
	e.hooks.Register(hook)
	return e
}

// Config returns the effective configuration.
func (e *Executor) Config() Config {
	return e.config
}

// Run answers question. It returns the final answer, or a *mrkl.RunError
// describing the stage that failed.
func (e *Executor) Run(ctx context.Context, question string) (*mrkl.Result, error) {
	run := mrkl.NewRunState(question)
	return e.run(ctx, run)
}

// RunWithState is like Run but uses a caller-created state, so the caller can
// observe it (status, steps, stats) while the run is in flight.
//
// The state must be fresh: a state that already ran returns
// mrkl.ErrRunStateReused and is left untouched.
func (e *Executor) RunWithState(ctx context.Context, run *mrkl.RunState) (*mrkl.Result, error) {
	if run.Status().IsTerminal() || run.Iteration() > 0 {
		return nil, fmt.Errorf("%w: run %s is %s after %d iterations",
			mrkl.ErrRunStateReused, run.ID(), run.Status(), run.Iteration())
	}
	return e.run(ctx, run)
}

func (e *Executor) run(ctx context.Context, run *mrkl.RunState) (result *mrkl.Result, err error) {
	e.hooks.FireBeforeRun(ctx, run, mrkl.BeforeRunEvent{Question: run.Question()})
	defer func() {
		e.hooks.FireAfterRun(ctx, run, mrkl.AfterRunEvent{
			Status:   run.Status(),
			Result:   result,
			Err:      err,
			Duration: run.Duration(),
		})
	}()

	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, e.fail(run, mrkl.StageContext, "", ctxErr)
		}
		if run.Iteration() >= e.config.MaxSteps {
			return nil, e.fail(run, mrkl.StageLimit, "",
				fmt.Errorf("%w: no final answer after %d steps", mrkl.ErrStepLimitExceeded, e.config.MaxSteps))
		}

		run.SetStatus(mrkl.StatusThinking)
		iteration := run.StartIteration()
		iterStart := time.Now()
		e.hooks.FireBeforeIteration(ctx, run, mrkl.BeforeIterationEvent{Iteration: iteration})

		parsed, done, err := e.iterate(ctx, run, iteration)
		if err != nil {
			return nil, err
		}

		e.hooks.FireAfterIteration(ctx, run, mrkl.AfterIterationEvent{
			Iteration: iteration,
			Parsed:    parsed,
			Duration:  time.Since(iterStart),
		})

		if done {
			run.SetStatus(mrkl.StatusDone)
			return &mrkl.Result{
				RunID:      run.ID(),
				Output:     parsed.Output(),
				Steps:      run.Steps(),
				Iterations: iteration,
			}, nil
		}

		if err := e.checkLimits(run); err != nil {
			return nil, err
		}
	}
}

// iterate runs one Thinking step and, for an action, the Acting step that
// follows. done reports a final answer.
func (e *Executor) iterate(
	ctx context.Context,
	run *mrkl.RunState,
	iteration int,
) (parsed mrkl.ParsedResponse, done bool, err error) {
	text, err := e.think(ctx, run, iteration)
	if err != nil {
		return parsed, false, err
	}

	parsed, err = e.parser.Parse(text)
	if err != nil {
		e.hooks.FireParseError(ctx, run, mrkl.ParseErrorEvent{
			Iteration: iteration,
			Text:      text,
			Err:       err,
		})
		return parsed, false, e.fail(run, mrkl.StageParse, text, err)
	}
	if parsed.IsFinish() {
		return parsed, true, nil
	}

	// A final answer is always accepted. Limits crossed by the model call
	// only stop the tool call.
	if err := e.checkLimits(run); err != nil {
		return parsed, false, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return parsed, false, e.fail(run, mrkl.StageContext, "", ctxErr)
	}
	run.SetStatus(mrkl.StatusActing)
	e.act(ctx, run, iteration, parsed.Action)
	return parsed, false, nil
}

// think formats the prompt and calls the model. Returns the raw completion
// text.
func (e *Executor) think(ctx context.Context, run *mrkl.RunState, iteration int) (string, error) {
	promptText, err := e.formatter.Format(run.Question(), run.Steps(), e.tools)
	if err != nil {
		return "", e.fail(run, mrkl.StagePrompt, "", err)
	}

	e.hooks.FireBeforeModelCall(ctx, run, mrkl.BeforeModelCallEvent{
		Iteration: iteration,
		Prompt:    promptText,
		Stop:      e.config.Stop,
	})
	start := time.Now()
	completion, err := e.model.Generate(ctx, promptText, e.config.Stop)
	if err == nil && completion == nil {
		err = errors.New("model returned no completion")
	}
	e.hooks.FireAfterModelCall(ctx, run, mrkl.AfterModelCallEvent{
		Iteration:  iteration,
		Prompt:     promptText,
		Completion: completion,
		Duration:   time.Since(start),
		Err:        err,
	})

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", e.fail(run, mrkl.StageContext, "", fmt.Errorf("%w: %w", ctxErr, err))
		}
		return "", e.fail(run, mrkl.StageModel, "", fmt.Errorf("%w: %w", mrkl.ErrModelCall, err))
	}

	if info := completion.Info; info != nil {
		stats := run.Stats()
		if info.InputTokens > 0 {
			stats.IncrCounter(mrkl.KeyInputTokens, int64(info.InputTokens))
		}
		if info.OutputTokens > 0 {
			stats.IncrCounter(mrkl.KeyOutputTokens, int64(info.OutputTokens))
		}
	}
	return completion.Text, nil
}

// act invokes the tool and appends the step to the scratchpad. Tool failures
// become observations.
func (e *Executor) act(ctx context.Context, run *mrkl.RunState, iteration int, action *schema.AgentAction) {
	before := &mrkl.BeforeToolCallEvent{
		Iteration: iteration,
		Tool:      action.Tool,
		Input:     action.ToolInput,
	}
	e.hooks.FireBeforeToolCall(ctx, run, before)

	start := time.Now()
	inv := e.tools.Invoke(ctx, action.Tool, before.Input)
	duration := time.Since(start)

	stats := run.Stats()
	stats.IncrCounter(mrkl.KeyToolCalls, 1)
	stats.IncrCounter(mrkl.KeyToolCallsFor+action.Tool, 1)
	if inv.Err != nil {
		stats.IncrCounter(mrkl.KeyToolCallsErrorTotal, 1)
		stats.IncrCounter(mrkl.KeyToolCallsErrorFor+action.Tool, 1)
		stats.IncrGauge(mrkl.KeyToolCallsErrorConsecutive, 1)
		if errors.Is(inv.Err, mrkl.ErrUnknownTool) {
			stats.IncrCounter(mrkl.KeyUnknownToolTotal, 1)
		}
	} else {
		stats.ResetGauge(mrkl.KeyToolCallsErrorConsecutive)
	}

	e.hooks.FireAfterToolCall(ctx, run, mrkl.AfterToolCallEvent{
		Iteration:   iteration,
		Tool:        action.Tool,
		Input:       before.Input,
		Observation: inv.Observation,
		Duration:    duration,
		Err:         inv.Err,
	})

	step := schema.AgentStep{
		Action:      *action,
		Observation: inv.Observation,
	}
	step.Action.ToolInput = before.Input
	run.AddStep(step)
}

func (e *Executor) checkLimits(run *mrkl.RunState) error {
	limit := run.Stats().Exceeded(e.config.Limits)
	if limit == nil {
		return nil
	}
	return e.fail(run, mrkl.StageLimit, "",
		fmt.Errorf("%w: %s > %v", mrkl.ErrLimitExceeded, limit.Key, limit.MaxValue))
}

func (e *Executor) fail(run *mrkl.RunState, stage, text string, err error) error {
	runErr := &mrkl.RunError{
		RunID:     run.ID(),
		Stage:     stage,
		Iteration: run.Iteration(),
		Text:      text,
		Err:       err,
	}
	run.Fail(runErr)
	e.logger.Debug("run failed",
		zap.String("run_id", run.ID()),
		zap.String("stage", stage),
		zap.Int("iteration", run.Iteration()),
		zap.Error(err),
	)
	return runErr
}
