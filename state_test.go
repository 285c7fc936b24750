package mrkl

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/schema"
)

// -----------------------------------------------------------------------------
// RunState Status Tests
// -----------------------------------------------------------------------------

func TestRunState_SetStatus(t *testing.T) {
	type input struct {
		transitions []RunStatus
	}

	type expected struct {
		status RunStatus
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "starts thinking",
			input:    input{},
			expected: expected{status: StatusThinking},
		},
		{
			name:     "thinking and acting alternate",
			input:    input{transitions: []RunStatus{StatusActing, StatusThinking, StatusActing}},
			expected: expected{status: StatusActing},
		},
		{
			name:     "done is sticky",
			input:    input{transitions: []RunStatus{StatusDone, StatusThinking, StatusFailed}},
			expected: expected{status: StatusDone},
		},
		{
			name:     "failed is sticky",
			input:    input{transitions: []RunStatus{StatusActing, StatusFailed, StatusDone, StatusActing}},
			expected: expected{status: StatusFailed},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			run := NewRunState("q")
			for _, s := range tc.input.transitions {
				run.SetStatus(s)
			}
			assert.Equal(t, tc.expected.status, run.Status())
		})
	}
}

func TestRunState_Fail(t *testing.T) {
	errFirst := errors.New("first")
	errSecond := errors.New("second")

	type input struct {
		before RunStatus
		errs   []error
	}

	type expected struct {
		status RunStatus
		err    error
	}

	tests := []struct {
		name     string
		input    input
		expected expected
	}{
		{
			name:     "records the error",
			input:    input{before: StatusActing, errs: []error{errFirst}},
			expected: expected{status: StatusFailed, err: errFirst},
		},
		{
			name:     "keeps the first error",
			input:    input{before: StatusThinking, errs: []error{errFirst, errSecond}},
			expected: expected{status: StatusFailed, err: errFirst},
		},
		{
			name:     "done run cannot fail",
			input:    input{before: StatusDone, errs: []error{errFirst}},
			expected: expected{status: StatusDone, err: nil},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			run := NewRunState("q")
			run.SetStatus(tc.input.before)
			for _, err := range tc.input.errs {
				run.Fail(err)
			}
			assert.Equal(t, tc.expected.status, run.Status())
			assert.Equal(t, tc.expected.err, run.Err())
		})
	}
}

// -----------------------------------------------------------------------------
// RunState Scratchpad and Iteration Tests
// -----------------------------------------------------------------------------

func TestRunState_StepsReturnsCopy(t *testing.T) {
	run := NewRunState("q")
	run.AddStep(schema.AgentStep{Observation: "one"})

	steps := run.Steps()
	steps[0].Observation = "changed"

	assert.Len(t, run.Steps(), 1)
	assert.Equal(t, "one", run.Steps()[0].Observation)
}

func TestRunState_StartIteration(t *testing.T) {
	run := NewRunState("q")
	assert.Equal(t, 0, run.Iteration())

	assert.Equal(t, 1, run.StartIteration())
	assert.Equal(t, 2, run.StartIteration())

	assert.Equal(t, 2, run.Iteration())
	assert.Equal(t, int64(2), run.Stats().GetCounter(KeyIterations))
}

func TestRunState_DurationFrozenWhenTerminal(t *testing.T) {
	run := NewRunState("q")
	run.SetStatus(StatusDone)
	d := run.Duration()

	time.Sleep(5 * time.Millisecond)
	assert.Equal(t, d, run.Duration())
}

func TestRunState_Identity(t *testing.T) {
	a := NewRunState("first")
	b := NewRunState("second")

	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, "first", a.Question())
	assert.NotSame(t, a.Stats(), b.Stats())
}
