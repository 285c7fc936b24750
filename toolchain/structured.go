package toolchain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rickchristie/mrkl"
	"github.com/rickchristie/mrkl/schema"
	"gopkg.in/yaml.v3"
)

// Structured is a Tool whose Action Input is a YAML (or JSON) object
// validated against a JSON Schema and decoded into I.
//
//	type WeatherInput struct {
//	    Day  int    `json:"day"`
//	    Unit string `json:"unit"`
//	}
//
//	tool := toolchain.MustStructured(
//	    "weather",
//	    "Get the weather for a day of the month.",
//	    schema.Object(map[string]*schema.Property{
//	        "day":  schema.Integer("Day of the month").Min(1).Max(31),
//	        "unit": schema.String("fahrenheit or celsius"),
//	    }, "day"),
//	    func(ctx context.Context, in WeatherInput) (string, error) { ... },
//	)
//
// The model may then write either of:
//
//	Action Input: {"day": 30}
//	Action Input: day: 30
//
// Decoding and validation failures return an error wrapping
// ErrInvalidToolInput, which the registry turns into an observation.
type Structured[I any] struct {
	name        string
	description string
	schema      *schema.Schema
	propTypes   map[string]string
	fn          func(ctx context.Context, input I) (string, error)
}

// NewStructured creates a structured tool. rawSchema may be nil, in which case
// any object is accepted.
func NewStructured[I any](
	name, description string,
	rawSchema map[string]any,
	fn func(ctx context.Context, input I) (string, error),
) (*Structured[I], error) {
	compiled, err := schema.Compile(rawSchema)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", mrkl.ErrInvalidTool, name, err)
	}
	return &Structured[I]{
		name:        name,
		description: description,
		schema:      compiled,
		propTypes:   propertyTypes(rawSchema),
		fn:          fn,
	}, nil
}

// MustStructured is like NewStructured but panics on error.
func MustStructured[I any](
	name, description string,
	rawSchema map[string]any,
	fn func(ctx context.Context, input I) (string, error),
) *Structured[I] {
	t, err := NewStructured(name, description, rawSchema, fn)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the tool name.
func (t *Structured[I]) Name() string {
	return t.name
}

// Description returns the description followed by the input fields, so the
// model knows what object to write.
func (t *Structured[I]) Description() string {
	summary := t.schema.Summary()
	if summary == "" {
		return t.description
	}
	var sb strings.Builder
	sb.WriteString(t.description)
	sb.WriteString(" Input is an object with fields:")
	for _, line := range strings.Split(summary, "\n") {
		sb.WriteString("\n  - ")
		sb.WriteString(line)
	}
	return sb.String()
}

// Call decodes, validates and converts input, then calls the tool function.
func (t *Structured[I]) Call(ctx context.Context, input string) (string, error) {
	args, err := t.decode(input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", mrkl.ErrInvalidToolInput, err)
	}
	if err := t.schema.Validate(args); err != nil {
		return "", fmt.Errorf("%w: %w", mrkl.ErrInvalidToolInput, err)
	}

	var typed I
	b, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("%w: %w", mrkl.ErrInvalidToolInput, err)
	}
	if err := json.Unmarshal(b, &typed); err != nil {
		return "", fmt.Errorf("%w: %w", mrkl.ErrInvalidToolInput, err)
	}

	return t.fn(ctx, typed)
}

// decode parses input as a YAML mapping. Scalars of properties declared as
// strings keep their raw text, so "day: 2024-05-30" stays a string instead of
// becoming a timestamp.
func (t *Structured[I]) decode(input string) (map[string]any, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return map[string]any{}, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(input), &root); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("decode input: empty document")
	}
	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode input: expected an object, got %q", input)
	}

	args := make(map[string]any, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]

		if t.propTypes[key] == "string" && value.Kind == yaml.ScalarNode {
			args[key] = value.Value
			continue
		}
		var v any
		if err := value.Decode(&v); err != nil {
			return nil, fmt.Errorf("decode field %s: %w", key, err)
		}
		args[key] = v
	}
	return args, nil
}

func propertyTypes(raw map[string]any) map[string]string {
	out := make(map[string]string)
	props, ok := raw["properties"].(map[string]any)
	if !ok {
		return out
	}
	for name, def := range props {
		if m, ok := def.(map[string]any); ok {
			if typ, ok := m["type"].(string); ok {
				out[name] = typ
			}
		}
	}
	return out
}

// Compile-time check that Structured implements Tool.
var _ mrkl.Tool = (*Structured[struct{}])(nil)
