// Package metrics exports Prometheus metrics about agent runs.
//
// Hook implements the mrkl hook interfaces, so it is wired like any other
// hook:
//
//	m := metrics.NewHook("mrkl")
//	exec := executor.New(model, registry, cfg).RegisterHook(m)
//	http.Handle("/metrics", m.Handler())
//
// Every Hook owns its registry, so tests and multiple executors in one
// process do not collide.
package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
	"github.com/rickchristie/mrkl"
)

// Tool call outcome label values.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeUnknown = "unknown_tool"
)

// Hook records run, model and tool metrics.
type Hook struct {
	registry *prometheus.Registry

	runsTotal     *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
	runIterations prometheus.Histogram
	runsInFlight  prometheus.Gauge

	modelCallsTotal  *prometheus.CounterVec
	modelDuration    prometheus.Histogram
	tokensTotal      *prometheus.CounterVec
	parseErrorsTotal prometheus.Counter

	toolCallsTotal *prometheus.CounterVec
	toolDuration   *prometheus.HistogramVec
}

// NewHook creates a Hook with metric names prefixed by namespace.
func NewHook(namespace string) *Hook {
	h := &Hook{
		registry: prometheus.NewRegistry(),

		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Finished runs by terminal status.",
			},
			[]string{"status"}, // done | failed
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Wall time of a run.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		runIterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_iterations",
				Help:      "Model calls per run.",
				Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
			},
		),
		runsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "runs_in_flight",
				Help:      "Runs currently executing.",
			},
		),

		modelCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_calls_total",
				Help:      "Model calls by outcome.",
			},
			[]string{"outcome"}, // ok | error
		),
		modelDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "model_call_duration_seconds",
				Help:      "Latency of model calls.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_total",
				Help:      "Tokens reported by the model.",
			},
			[]string{"direction"}, // input | output
		),
		parseErrorsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_errors_total",
				Help:      "Model outputs that were neither an action nor a final answer.",
			},
		),

		toolCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Tool calls by tool and outcome.",
			},
			[]string{"tool", "outcome"},
		),
		toolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_duration_seconds",
				Help:      "Latency of tool calls.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
	}

	h.registry.MustRegister(
		h.runsTotal, h.runDuration, h.runIterations, h.runsInFlight,
		h.modelCallsTotal, h.modelDuration, h.tokensTotal, h.parseErrorsTotal,
		h.toolCallsTotal, h.toolDuration,
	)
	return h
}

// Registry returns the registry holding the hook's collectors. Register
// additional collectors here to expose them on the same endpoint.
func (h *Hook) Registry() *prometheus.Registry {
	return h.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (h *Hook) Handler() http.Handler {
	return promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{})
}

// WritePrometheus writes the registry in the Prometheus text format to w.
func (h *Hook) WritePrometheus(w io.Writer) error {
	families, err := h.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeRun implements mrkl.BeforeRunHook.
func (h *Hook) OnBeforeRun(context.Context, *mrkl.RunState, mrkl.BeforeRunEvent) {
	h.runsInFlight.Inc()
}

// OnAfterRun implements mrkl.AfterRunHook.
func (h *Hook) OnAfterRun(_ context.Context, run *mrkl.RunState, e mrkl.AfterRunEvent) {
	h.runsInFlight.Dec()
	status := string(e.Status)
	h.runsTotal.WithLabelValues(status).Inc()
	h.runDuration.WithLabelValues(status).Observe(e.Duration.Seconds())
	h.runIterations.Observe(float64(run.Iteration()))
}

// OnAfterModelCall implements mrkl.AfterModelCallHook.
func (h *Hook) OnAfterModelCall(_ context.Context, _ *mrkl.RunState, e mrkl.AfterModelCallEvent) {
	h.modelDuration.Observe(e.Duration.Seconds())
	if e.Err != nil {
		h.modelCallsTotal.WithLabelValues(OutcomeError).Inc()
		return
	}
	h.modelCallsTotal.WithLabelValues(OutcomeOK).Inc()
	if e.Completion == nil || e.Completion.Info == nil {
		return
	}
	if n := e.Completion.Info.InputTokens; n > 0 {
		h.tokensTotal.WithLabelValues("input").Add(float64(n))
	}
	if n := e.Completion.Info.OutputTokens; n > 0 {
		h.tokensTotal.WithLabelValues("output").Add(float64(n))
	}
}

// OnParseError implements mrkl.ParseErrorHook.
func (h *Hook) OnParseError(context.Context, *mrkl.RunState, mrkl.ParseErrorEvent) {
	h.parseErrorsTotal.Inc()
}

// OnAfterToolCall implements mrkl.AfterToolCallHook.
func (h *Hook) OnAfterToolCall(_ context.Context, _ *mrkl.RunState, e mrkl.AfterToolCallEvent) {
	outcome := OutcomeOK
	switch {
	case errors.Is(e.Err, mrkl.ErrUnknownTool):
		outcome = OutcomeUnknown
	case e.Err != nil:
		outcome = OutcomeError
	}
	h.toolCallsTotal.WithLabelValues(e.Tool, outcome).Inc()
	h.toolDuration.WithLabelValues(e.Tool).Observe(e.Duration.Seconds())
}

// Compile-time checks that Hook implements the hook interfaces it uses.
var (
	_ mrkl.BeforeRunHook      = (*Hook)(nil)
	_ mrkl.AfterRunHook       = (*Hook)(nil)
	_ mrkl.AfterModelCallHook = (*Hook)(nil)
	_ mrkl.ParseErrorHook     = (*Hook)(nil)
	_ mrkl.AfterToolCallHook  = (*Hook)(nil)
)
