package toolchain

import (
	"context"
	"fmt"
	"testing"

	"github.com/rickchristie/mrkl"
	"github.com/rickchristie/mrkl/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type forecastInput struct {
	Day  int    `json:"day"`
	Unit string `json:"unit"`
	Note string `json:"note"`
}

func newForecastTool(t *testing.T) *Structured[forecastInput] {
	t.Helper()
	tool, err := NewStructured(
		"forecast",
		"Get the forecast for a day of the month.",
		schema.Object(map[string]*schema.Property{
			"day":  schema.Integer("Day of the month").Min(1).Max(31),
			"unit": schema.String("Temperature unit").Enum("fahrenheit", "celsius"),
			"note": schema.String("Free text"),
		}, "day"),
		func(ctx context.Context, in forecastInput) (string, error) {
			unit := in.Unit
			if unit == "" {
				unit = "fahrenheit"
			}
			return fmt.Sprintf("day=%d unit=%s note=%s", in.Day, unit, in.Note), nil
		},
	)
	require.NoError(t, err)
	return tool
}

func TestStructured_Call(t *testing.T) {
	type input struct {
		raw string
	}

	type expected struct {
		output       string
		invalidInput bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "json object",
			input:    input{raw: `{"day": 30, "unit": "celsius"}`},
			expected: expected{output: "day=30 unit=celsius note="},
		},
		{
			name:     "yaml flow mapping without quotes",
			input:    input{raw: `{day: 5}`},
			expected: expected{output: "day=5 unit=fahrenheit note="},
		},
		{
			name:     "yaml block mapping",
			input:    input{raw: "day: 12\nunit: fahrenheit"},
			expected: expected{output: "day=12 unit=fahrenheit note="},
		},
		{
			name:     "string field keeps raw text",
			input:    input{raw: "day: 1\nnote: 2024-05-30"},
			expected: expected{output: "day=1 unit=fahrenheit note=2024-05-30"},
		},
		{
			name:     "scalar is not an object",
			input:    input{raw: "30"},
			expected: expected{invalidInput: true},
		},
		{
			name:     "missing required field",
			input:    input{raw: `{"unit": "celsius"}`},
			expected: expected{invalidInput: true},
		},
		{
			name:     "out of range",
			input:    input{raw: `{"day": 40}`},
			expected: expected{invalidInput: true},
		},
		{
			name:     "malformed yaml",
			input:    input{raw: `{"day": 30`},
			expected: expected{invalidInput: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := newForecastTool(t)

			out, err := tool.Call(context.Background(), tt.input.raw)

			if tt.expected.invalidInput {
				assert.ErrorIs(t, err, mrkl.ErrInvalidToolInput)
				assert.Empty(t, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.output, out)
		})
	}
}

func TestStructured_Description(t *testing.T) {
	tool := newForecastTool(t)

	expected := "Get the forecast for a day of the month. Input is an object with fields:\n" +
		"  - day (integer, required): Day of the month\n" +
		"  - note (string): Free text\n" +
		"  - unit (string): Temperature unit"
	assert.Equal(t, expected, tool.Description())
	assert.Equal(t, "forecast", tool.Name())
}

func TestStructured_InRegistry_InvalidInputBecomesObservation(t *testing.T) {
	r := NewRegistry().MustRegister(newForecastTool(t))

	inv := r.Invoke(context.Background(), "forecast", "thirty")

	assert.ErrorIs(t, inv.Err, mrkl.ErrToolInvocation)
	assert.ErrorIs(t, inv.Err, mrkl.ErrInvalidToolInput)
	assert.Contains(t, inv.Observation, "could not complete action forecast: invalid tool input")
}

func TestNewStructured_InvalidSchema(t *testing.T) {
	_, err := NewStructured(
		"broken",
		"Broken schema",
		map[string]any{"type": 12},
		func(ctx context.Context, in map[string]any) (string, error) { return "", nil },
	)
	assert.ErrorIs(t, err, mrkl.ErrInvalidTool)

	assert.Panics(t, func() {
		MustStructured(
			"broken",
			"Broken schema",
			map[string]any{"type": 12},
			func(ctx context.Context, in map[string]any) (string, error) { return "", nil },
		)
	})
}
