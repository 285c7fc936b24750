// Package toolchain holds the tools an agent can call.
//
// # Registry
//
// A [Registry] is an ordered set of [mrkl.Tool] values keyed by name. The
// prompt lists tools in registration order; the executor dispatches the
// parsed action by exact name:
//
//	registry := toolchain.NewRegistry()
//	if err := registry.Register(myTool); err != nil {
//	    return err // ErrDuplicateTool or ErrInvalidTool
//	}
//
//	inv := registry.Invoke(ctx, "[HelloWorldPrinter]", "")
//	fmt.Println(inv.Observation) // Compiled Code: Hello World
//
// Invoke never returns a Go error. An unknown name or a failing tool yields an
// observation that tells the model what went wrong, and Invocation.Err says
// which failure it was:
//
//	inv := registry.Invoke(ctx, "search", "golang")
//	errors.Is(inv.Err, mrkl.ErrUnknownTool) // true if "search" is not registered
//
// # Structured Tools
//
// Plain tools receive the raw Action Input string. A [Structured] tool
// instead decodes the input as a YAML or JSON object, validates it against a
// JSON Schema built with the schema package, and hands a typed Go value to
// the tool function. The schema fields are appended to the tool description
// so the model knows what to write.
package toolchain
