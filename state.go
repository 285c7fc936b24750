package mrkl

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/schema"
)

// RunStatus is the state of the agent loop state machine.
type RunStatus string

const (
	// StatusThinking: about to format the prompt and query the model.
	StatusThinking RunStatus = "thinking"

	// StatusActing: a tool invocation is in flight.
	StatusActing RunStatus = "acting"

	// StatusDone: terminal, final answer available.
	StatusDone RunStatus = "done"

	// StatusFailed: terminal, the run returned an error.
	StatusFailed RunStatus = "failed"
)

// IsTerminal reports whether no further transitions are possible.
func (s RunStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusFailed
}

// RunState is the state of one agent run: the question and the scratchpad of
// (action, observation) steps. It is created when a run starts and discarded
// when it ends.
//
// The executor is the only writer. Accessors are guarded so a state can be
// inspected from another goroutine (e.g., a progress UI) while the run is in
// flight.
type RunState struct {
	mu sync.RWMutex

	id        string
	question  string
	steps     []schema.AgentStep
	status    RunStatus
	iteration int
	stats     *ExecutionStats
	startTime time.Time
	endTime   time.Time
	err       error
}

// NewRunState creates a RunState in StatusThinking with an empty scratchpad.
func NewRunState(question string) *RunState {
	return &RunState{
		id:        uuid.NewString(),
		question:  question,
		steps:     make([]schema.AgentStep, 0),
		status:    StatusThinking,
		stats:     NewExecutionStats(),
		startTime: time.Now(),
	}
}

// ID returns the run identifier.
func (r *RunState) ID() string {
	return r.id
}

// Question returns the user-supplied question.
func (r *RunState) Question() string {
	return r.question
}

// Stats returns the run's stats.
func (r *RunState) Stats() *ExecutionStats {
	return r.stats
}

// Steps returns a copy of the scratchpad in invocation order.
func (r *RunState) Steps() []schema.AgentStep {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.steps)
}

// AddStep appends a step to the scratchpad. Steps are never removed.
func (r *RunState) AddStep(step schema.AgentStep) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, step)
}

// Status returns the current state machine status.
func (r *RunState) Status() RunStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// SetStatus moves the state machine. Terminal states are sticky.
func (r *RunState) SetStatus(status RunStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status.IsTerminal() {
		return
	}
	r.status = status
	if status.IsTerminal() {
		r.endTime = time.Now()
	}
}

// Fail moves the run to StatusFailed and records err.
func (r *RunState) Fail(err error) {
	r.mu.Lock()
	if !r.status.IsTerminal() {
		r.err = err
	}
	r.mu.Unlock()
	r.SetStatus(StatusFailed)
}

// Err returns the error that failed the run, if any.
func (r *RunState) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

// Iteration returns the current iteration number (1-indexed, 0 before the
// first model call).
func (r *RunState) Iteration() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.iteration
}

// StartIteration increments the iteration counter and KeyIterations.
func (r *RunState) StartIteration() int {
	r.mu.Lock()
	r.iteration++
	n := r.iteration
	r.mu.Unlock()
	r.stats.IncrCounter(KeyIterations, 1)
	return n
}

// Duration returns the elapsed run time, up to the end if the run finished.
func (r *RunState) Duration() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.endTime.IsZero() {
		return time.Since(r.startTime)
	}
	return r.endTime.Sub(r.startTime)
}
