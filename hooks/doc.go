// Package hooks provides a registry that dispatches run lifecycle events to
// hooks.
//
// Each hook interface in the mrkl package corresponds to one event type.
// Implement only the interfaces you need:
//
//   - [mrkl.BeforeRunHook], [mrkl.AfterRunHook]
//   - [mrkl.BeforeIterationHook], [mrkl.AfterIterationHook]
//   - [mrkl.BeforeModelCallHook], [mrkl.AfterModelCallHook]
//   - [mrkl.ParseErrorHook]
//   - [mrkl.BeforeToolCallHook] (can rewrite the tool input), [mrkl.AfterToolCallHook]
//
// # Registering Hooks
//
// Register directly on the executor:
//
//	exec := executor.New(model, tools, cfg).
//	    RegisterHook(loggers.NewZapHook(logger)).
//	    RegisterHook(metrics.NewHook("mrkl"))
//
// Or share one registry across executors:
//
//	registry := hooks.NewRegistry()
//	registry.Register(&SharedHook{})
//
//	exec1 := executor.New(model, tools1, cfg).WithHooks(registry)
//	exec2 := executor.New(model, tools2, cfg).WithHooks(registry)
//
// RegisterHook adds to the executor's registry; WithHooks replaces it.
//
// See the loggers and metrics packages for hooks that implement every
// interface.
package hooks
