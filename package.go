// Package mrkl is a small single-action agent built on top of LangChainGo.
//
// A prompt lists the available tools, the model picks one tool and an input
// for it, and the agent loop feeds the tool's observation back into the next
// prompt until the model writes a final answer. The whole contract between the
// loop and the model is plain text:
//
//	Thought: I should check the weather
//	Action: [TodaysWeatherGetter]
//	Action Input: 30
//	Observation: Todays weather 300 degrees fahrenheit.
//	Thought: I now know the final answer
//	Final Answer: It will be 300 degrees fahrenheit.
//
// # Quick Start
//
//	llm, _ := openai.New(openai.WithModel("gpt-4o-mini"))
//	model := models.NewLCGWrapper(llm).WithModelName("gpt-4o-mini")
//
//	registry := toolchain.NewRegistry().
//	    MustRegister(demotools.HelloWorldPrinter()).
//	    MustRegister(demotools.TodaysWeatherGetter())
//
//	exec := executor.New(model, registry, executor.DefaultConfig())
//	result, err := exec.Run(ctx, "What is the weather on the 30th?")
//	if err != nil {
//	    // err unwraps to one of the sentinel errors (ErrUnparseableResponse,
//	    // ErrModelCall, ErrStepLimitExceeded, ...)
//	}
//	fmt.Println(result.Output)
//
// # Packages
//
//   - toolchain: ordered tool registry, unknown-tool and tool-failure observations
//   - prompt: prompt formatter and scratchpad replay
//   - outputparser: Final Answer / Action parsing
//   - executor: the agent loop, step limits and hooks
//   - models: Model adapters for LangChainGo and go-openai
//   - hooks, loggers, metrics: observation of a run
//   - schema: JSON Schema validation for structured tool input
//   - config: viper-backed configuration for the CLI
//   - demotools: [HelloWorldPrinter] and [TodaysWeatherGetter] for trying it out
//
// # Run Lifecycle
//
// Every run owns a [RunState]. It starts in [StatusThinking], alternates with
// [StatusActing] for each tool call, and ends in [StatusDone] or
// [StatusFailed]. Nothing outlives the run.
package mrkl
