package demotools

import (
	"context"
	"testing"

	"github.com/rickchristie/mrkl/toolchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelloWorldPrinter(t *testing.T) {
	tool := HelloWorldPrinter()

	for _, input := range []string{"", "anything"} {
		out, err := tool.Call(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, "Compiled Code: Hello World", out)
	}
	assert.Equal(t, "[HelloWorldPrinter]", tool.Name())
}

func TestTodaysWeatherGetter(t *testing.T) {
	type input struct {
		raw string
	}

	type expected struct {
		observation string
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "day of month",
			input:    input{raw: "30"},
			expected: expected{observation: "Todays weather 300 degrees fahrenheit."},
		},
		{
			name:     "surrounding whitespace",
			input:    input{raw: " 7 "},
			expected: expected{observation: "Todays weather 70 degrees fahrenheit."},
		},
		{
			name:     "not a number",
			input:    input{raw: "May 30th"},
			expected: expected{observation: WeatherInputError},
		},
		{
			name:     "trailing text after the number",
			input:    input{raw: "30th"},
			expected: expected{observation: "Todays weather 300 degrees fahrenheit."},
		},
		{
			name:     "range is not checked",
			input:    input{raw: "45"},
			expected: expected{observation: "Todays weather 450 degrees fahrenheit."},
		},
		{
			name:     "zero",
			input:    input{raw: "0"},
			expected: expected{observation: "Todays weather 0 degrees fahrenheit."},
		},
		{
			name:     "signed",
			input:    input{raw: "-3 days"},
			expected: expected{observation: "Todays weather -30 degrees fahrenheit."},
		},
		{
			name:     "decimal keeps the integer part",
			input:    input{raw: "12.9"},
			expected: expected{observation: "Todays weather 120 degrees fahrenheit."},
		},
		{
			name:     "empty",
			input:    input{raw: ""},
			expected: expected{observation: WeatherInputError},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := TodaysWeatherGetter().Call(context.Background(), tt.input.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected.observation, out)
		})
	}
}

func TestWeatherForecast(t *testing.T) {
	type input struct {
		raw string
	}

	type expected struct {
		observation string
		hasErr      bool
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "default unit",
			input:    input{raw: `{"day": 30}`},
			expected: expected{observation: "Forecast for day 30: 300 degrees fahrenheit."},
		},
		{
			name:     "celsius",
			input:    input{raw: "day: 5\nunit: celsius"},
			expected: expected{observation: "Forecast for day 5: 10 degrees celsius."},
		},
		{
			name:     "unit outside enum",
			input:    input{raw: `{"day": 5, "unit": "kelvin"}`},
			expected: expected{hasErr: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := WeatherForecast().Call(context.Background(), tt.input.raw)
			if tt.expected.hasErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected.observation, out)
		})
	}
}

func TestAll_RegistersWithoutConflict(t *testing.T) {
	r := toolchain.NewRegistry()
	for _, tool := range All() {
		require.NoError(t, r.Register(tool))
	}
	assert.Equal(t, 3, r.Len())
}
