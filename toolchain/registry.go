package toolchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/rickchristie/mrkl"
)

// Registry is the ordered set of tools available to the agent.
//
// Tools are listed to the model in registration order and looked up by exact
// name. Register every tool before starting runs; after that the registry is
// read-only and safe to share between concurrent runs.
type Registry struct {
	tools  []mrkl.Tool
	byName map[string]mrkl.Tool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:  make([]mrkl.Tool, 0),
		byName: make(map[string]mrkl.Tool),
	}
}

// Register adds a tool. Returns ErrInvalidTool for a nil tool or an empty
// name, and ErrDuplicateTool if the name is already taken.
func (r *Registry) Register(tool mrkl.Tool) error {
	if tool == nil {
		return fmt.Errorf("%w: nil tool", mrkl.ErrInvalidTool)
	}
	name := tool.Name()
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: empty name", mrkl.ErrInvalidTool)
	}
	if _, ok := r.byName[name]; ok {
		return fmt.Errorf("%w: %s", mrkl.ErrDuplicateTool, name)
	}
	r.tools = append(r.tools, tool)
	r.byName[name] = tool
	return nil
}

// MustRegister is like Register but panics on error. Returns the registry for
// chaining:
//
//	registry := toolchain.NewRegistry().
//	    MustRegister(demotools.HelloWorldPrinter()).
//	    MustRegister(demotools.TodaysWeatherGetter())
func (r *Registry) MustRegister(tool mrkl.Tool) *Registry {
	if err := r.Register(tool); err != nil {
		panic(err)
	}
	return r
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (mrkl.Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []mrkl.Tool {
	out := make([]mrkl.Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.tools)
}

// Description is the textual rendering of a registry for the prompt.
type Description struct {
	// Listing is one "name: description" line per tool.
	Listing string

	// Names is one bare tool name per line.
	Names string
}

// Describe renders the registry in registration order.
func (r *Registry) Describe() Description {
	listing := make([]string, len(r.tools))
	names := make([]string, len(r.tools))
	for i, t := range r.tools {
		listing[i] = t.Name() + ": " + t.Description()
		names[i] = t.Name()
	}
	return Description{
		Listing: strings.Join(listing, "\n"),
		Names:   strings.Join(names, "\n"),
	}
}

// Invocation is the outcome of Invoke. Observation is always set and is what
// the model sees next; Err classifies failures for hooks and stats.
type Invocation struct {
	Tool        string
	Input       string
	Observation string

	// Err is ErrUnknownTool for a name that is not registered, or wraps
	// ErrToolInvocation (and the tool's own error) when the tool failed.
	Err error
}

// Invoke looks up name and calls the tool with input.
//
// Failures never abort the run: an unknown name or a failing tool produce an
// explanatory observation so the model can correct itself on the next turn.
func (r *Registry) Invoke(ctx context.Context, name, input string) Invocation {
	inv := Invocation{Tool: name, Input: input}

	tool, ok := r.byName[name]
	if !ok {
		inv.Observation = fmt.Sprintf("%s is not a valid tool, try another one.", name)
		inv.Err = mrkl.ErrUnknownTool
		return inv
	}

	out, err := tool.Call(ctx, input)
	if err != nil {
		inv.Observation = fmt.Sprintf("could not complete action %s: %v", name, err)
		inv.Err = fmt.Errorf("%w: %s: %w", mrkl.ErrToolInvocation, name, err)
		return inv
	}
	inv.Observation = out
	return inv
}
