package metrics

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rickchristie/mrkl"
	"github.com/rickchristie/mrkl/demotools"
	"github.com/rickchristie/mrkl/executor"
	"github.com/rickchristie/mrkl/internal/tt"
	"github.com/rickchristie/mrkl/toolchain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	printAction   = " I should print\nAction: [HelloWorldPrinter]\nAction Input: "
	unknownAction = " hmm\nAction: [Nope]\nAction Input: x"
	flakyAction   = " try\nAction: [Flaky]\nAction Input: x"
	finalAnswer   = " I now know the final answer\nFinal Answer: printed"
)

func run(t *testing.T, hook *Hook, model *tt.MockModel) error {
	t.Helper()
	registry := toolchain.NewRegistry().
		MustRegister(demotools.HelloWorldPrinter()).
		MustRegister(tt.NewMockTool("[Flaky]", "").WithError(errors.New("down")))
	_, err := executor.New(model, registry, executor.DefaultConfig()).
		RegisterHook(hook).
		Run(context.Background(), "q")
	return err
}

func TestHook_Counts(t *testing.T) {
	hook := NewHook("mrkl")

	model := tt.NewMockModel().
		AddResponse(printAction, 100, 10).
		AddResponse(unknownAction, 110, 11).
		AddResponse(flakyAction, 120, 12).
		AddResponse(finalAnswer, 130, 13)
	require.NoError(t, run(t, hook, model))
	require.Error(t, run(t, hook, tt.NewMockModel().AddResponse("gibberish", 5, 1)))
	require.Error(t, run(t, hook, tt.NewMockModel().AddError(errors.New("overloaded"))))

	assert.Equal(t, 1.0, testutil.ToFloat64(hook.runsTotal.WithLabelValues(string(mrkl.StatusDone))))
	assert.Equal(t, 2.0, testutil.ToFloat64(hook.runsTotal.WithLabelValues(string(mrkl.StatusFailed))))
	assert.Equal(t, 0.0, testutil.ToFloat64(hook.runsInFlight))

	assert.Equal(t, 5.0, testutil.ToFloat64(hook.modelCallsTotal.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(hook.modelCallsTotal.WithLabelValues(OutcomeError)))
	assert.Equal(t, 465.0, testutil.ToFloat64(hook.tokensTotal.WithLabelValues("input")))
	assert.Equal(t, 47.0, testutil.ToFloat64(hook.tokensTotal.WithLabelValues("output")))
	assert.Equal(t, 1.0, testutil.ToFloat64(hook.parseErrorsTotal))

	assert.Equal(t, 1.0, testutil.ToFloat64(hook.toolCallsTotal.WithLabelValues("[HelloWorldPrinter]", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(hook.toolCallsTotal.WithLabelValues("[Nope]", OutcomeUnknown)))
	assert.Equal(t, 1.0, testutil.ToFloat64(hook.toolCallsTotal.WithLabelValues("[Flaky]", OutcomeError)))

	assert.Equal(t, 1, testutil.CollectAndCount(hook.runIterations))
	assert.Equal(t, 3, testutil.CollectAndCount(hook.toolDuration))
}

func TestHook_Handler(t *testing.T) {
	hook := NewHook("agent")
	require.NoError(t, run(t, hook, tt.NewMockModel().AddResponse(printAction, 10, 1)))

	srv := httptest.NewServer(hook.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `agent_runs_total{status="done"} 1`)
	assert.Contains(t, string(body), `agent_tool_calls_total{outcome="ok",tool="[HelloWorldPrinter]"} 1`)
}

func TestHook_WritePrometheus(t *testing.T) {
	hook := NewHook("mrkl")
	require.NoError(t, run(t, hook, tt.NewMockModel()))

	var buf bytes.Buffer
	require.NoError(t, hook.WritePrometheus(&buf))

	assert.Contains(t, buf.String(), "# TYPE mrkl_runs_total counter")
	assert.Contains(t, buf.String(), `mrkl_runs_total{status="done"} 1`)
	assert.Contains(t, buf.String(), "mrkl_runs_in_flight 0")
}

func TestNewHook_IndependentRegistries(t *testing.T) {
	a := NewHook("mrkl")
	b := NewHook("mrkl")
	require.NoError(t, run(t, a, tt.NewMockModel()))

	assert.Equal(t, 1.0, testutil.ToFloat64(a.runsTotal.WithLabelValues("done")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.runsTotal.WithLabelValues("done")))
	assert.NotSame(t, a.Registry(), b.Registry())
}
