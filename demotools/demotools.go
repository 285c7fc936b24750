// Package demotools contains small tools for trying the agent end to end
// without external services.
package demotools

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rickchristie/mrkl"
	"github.com/rickchristie/mrkl/schema"
	"github.com/rickchristie/mrkl/toolchain"
)

// Tool names. The brackets are part of the name.
const (
	HelloWorldPrinterName   = "[HelloWorldPrinter]"
	TodaysWeatherGetterName = "[TodaysWeatherGetter]"
	WeatherForecastName     = "[WeatherForecast]"
)

var leadingInt = regexp.MustCompile(`^\s*[+-]?\d+`)

// WeatherInputError is the observation returned for an unusable day.
const WeatherInputError = "Could not get todays weather. " +
	"Make sure your input is correctly formatted and try again."

// HelloWorldPrinter ignores its input and reports the compiled hello world.
func HelloWorldPrinter() mrkl.Tool {
	return mrkl.NewToolFunc(
		HelloWorldPrinterName,
		"Use this to print Hello world to the user console.",
		func(ctx context.Context, _ string) (string, error) {
			return "Compiled Code: Hello World", nil
		},
	)
}

// TodaysWeatherGetter takes a day of the month and returns a made-up
// temperature of ten times the day. Only the leading number of the input is
// read and its range is not checked.
func TodaysWeatherGetter() mrkl.Tool {
	return mrkl.NewToolFunc(
		TodaysWeatherGetterName,
		"Use this to get todays weather. You must input just the number date of the day of the month, "+
			"for example if today was May 30th, you would input 30. "+
			"Do NOT include the number in your Action, only your Action Input.",
		func(ctx context.Context, input string) (string, error) {
			day, ok := parseDay(input)
			if !ok {
				return WeatherInputError, nil
			}
			return fmt.Sprintf("Todays weather %d degrees fahrenheit.", day*10), nil
		},
	)
}

type forecastInput struct {
	Day  int    `json:"day"`
	Unit string `json:"unit"`
}

// WeatherForecast is the structured variant of TodaysWeatherGetter. It takes
// an object with the day and an optional unit.
func WeatherForecast() mrkl.Tool {
	return toolchain.MustStructured(
		WeatherForecastName,
		"Use this to get the weather forecast for a day of the month.",
		schema.Object(map[string]*schema.Property{
			"day":  schema.Integer("Day of the month").Min(1).Max(31),
			"unit": schema.String("Temperature unit").Enum("fahrenheit", "celsius").Default("fahrenheit"),
		}, "day"),
		func(ctx context.Context, in forecastInput) (string, error) {
			f := in.Day * 10
			if in.Unit == "celsius" {
				return fmt.Sprintf("Forecast for day %d: %d degrees celsius.", in.Day, (f-32)*5/9), nil
			}
			return fmt.Sprintf("Forecast for day %d: %d degrees fahrenheit.", in.Day, f), nil
		},
	)
}

// All returns every demo tool.
func All() []mrkl.Tool {
	return []mrkl.Tool{
		HelloWorldPrinter(),
		TodaysWeatherGetter(),
		WeatherForecast(),
	}
}

// parseDay reads the leading integer of input, ignoring what follows it, so
// "30th" is 30. Input that does not start with digits is rejected.
func parseDay(input string) (int, bool) {
	m := leadingInt.FindString(input)
	if m == "" {
		return 0, false
	}
	day, err := strconv.Atoi(strings.TrimSpace(m))
	if err != nil {
		return 0, false
	}
	return day, true
}
