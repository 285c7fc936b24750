// Package schema builds and validates the JSON Schemas of structured tools.
//
// A structured tool receives its Action Input as a YAML or JSON object
// instead of a bare string. The schema is shown to the model next to the
// tool description and the decoded input is validated against it before the
// tool runs:
//
//	s := schema.MustCompile(schema.Object(map[string]*schema.Property{
//	    "city": schema.String("City name"),
//	    "day":  schema.Integer("Day of the month").Min(1).Max(31),
//	}, "day"))
//
// See toolchain.NewStructured.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const resourceName = "input.json"

// Schema is a compiled JSON Schema together with its raw definition.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Compile compiles a raw schema. A nil raw schema yields a nil *Schema,
// which accepts everything.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	b, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource(resourceName, doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(resourceName)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Schema{raw: raw, compiled: compiled}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// Raw returns the schema definition.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate checks a decoded value against the schema.
//
// Values decoded from YAML carry Go integer types and map[string]any; they are
// round-tripped through JSON first so that the validator sees the same types
// it would for JSON input.
func (s *Schema) Validate(v any) error {
	if s == nil || s.compiled == nil {
		return nil
	}

	b, err := json.Marshal(v)
	if err != nil {
		return &ValidationError{Err: err}
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		return &ValidationError{Err: err}
	}
	if err := s.compiled.Validate(doc); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// Summary renders the object properties as one line per property, sorted by
// name, for inclusion in a tool description:
//
//	day (integer, required): Day of the month
//	city (string): City name
//
// Required properties come first.
func (s *Schema) Summary() string {
	if s == nil {
		return ""
	}
	props, _ := s.raw["properties"].(map[string]any)
	if len(props) == 0 {
		return ""
	}

	required := map[string]bool{}
	switch r := s.raw["required"].(type) {
	case []string:
		for _, name := range r {
			required[name] = true
		}
	case []any:
		for _, name := range r {
			if n, ok := name.(string); ok {
				required[n] = true
			}
		}
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if required[names[i]] != required[names[j]] {
			return required[names[i]]
		}
		return names[i] < names[j]
	})

	var sb strings.Builder
	for i, name := range names {
		if i > 0 {
			sb.WriteString("\n")
		}
		prop, _ := props[name].(map[string]any)
		typ, _ := prop["type"].(string)
		desc, _ := prop["description"].(string)

		sb.WriteString(name)
		switch {
		case typ != "" && required[name]:
			fmt.Fprintf(&sb, " (%s, required)", typ)
		case typ != "":
			fmt.Fprintf(&sb, " (%s)", typ)
		case required[name]:
			sb.WriteString(" (required)")
		}
		if desc != "" {
			sb.WriteString(": ")
			sb.WriteString(desc)
		}
	}
	return sb.String()
}

// ValidationError is returned by Validate.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// -----------------------------------------------------------------------------
// Builders
// -----------------------------------------------------------------------------

// Object creates an object schema. Names passed after properties are
// required.
func Object(properties map[string]*Property, required ...string) map[string]any {
	props := make(map[string]any, len(properties))
	for name, p := range properties {
		props[name] = p.build()
	}

	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

// Property is a single property of an object schema.
type Property struct {
	typ         string
	description string
	enum        []any
	minimum     *float64
	maximum     *float64
	pattern     string
	def         any
}

func (p *Property) build() map[string]any {
	m := map[string]any{"type": p.typ}
	if p.description != "" {
		m["description"] = p.description
	}
	if len(p.enum) > 0 {
		m["enum"] = p.enum
	}
	if p.minimum != nil {
		m["minimum"] = *p.minimum
	}
	if p.maximum != nil {
		m["maximum"] = *p.maximum
	}
	if p.pattern != "" {
		m["pattern"] = p.pattern
	}
	if p.def != nil {
		m["default"] = p.def
	}
	return m
}

// String creates a string property.
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// Integer creates an integer property.
//
//	schema.Integer("Day of the month").Min(1).Max(31)
func Integer(description string) *Property {
	return &Property{typ: "integer", description: description}
}

// Number creates a floating point property.
func Number(description string) *Property {
	return &Property{typ: "number", description: description}
}

// Boolean creates a boolean property.
func Boolean(description string) *Property {
	return &Property{typ: "boolean", description: description}
}

// Enum restricts the property to the given values.
func (p *Property) Enum(values ...any) *Property {
	p.enum = values
	return p
}

// Min sets the inclusive minimum of a number or integer property.
func (p *Property) Min(v float64) *Property {
	p.minimum = &v
	return p
}

// Max sets the inclusive maximum of a number or integer property.
func (p *Property) Max(v float64) *Property {
	p.maximum = &v
	return p
}

// Pattern sets a regular expression a string property must match.
func (p *Property) Pattern(pattern string) *Property {
	p.pattern = pattern
	return p
}

// Default sets the documented default value.
func (p *Property) Default(v any) *Property {
	p.def = v
	return p
}
