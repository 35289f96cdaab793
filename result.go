// Package pipeline orchestrates multi-step workflows against the OpenAI
// file/vector-store/response APIs: create a collection, upload and attach
// files, wait for server-side ingestion, run conversational turns against
// the collection and tear everything down afterwards.
//
// Stages are composed left to right over a single State value. Every stage
// receives and returns a Result envelope; once a stage fails, every later
// stage passes the failure through untouched without calling the remote
// service.
package pipeline

import (
	"context"
)

// Result is the envelope threaded through every stage. It is either Ok,
// carrying the current state, or Error, carrying the state as it was when
// the failure happened plus the error itself.
type Result struct {
	state State
	ok    bool
}

// OK wraps a state in a successful Result.
func OK(state State) Result {
	state.Err = nil
	return Result{state: state, ok: true}
}

// Fail wraps a state in a failed Result, recording err on the state.
func Fail(state State, err error) Result {
	state.Err = err
	return Result{state: state, ok: false}
}

// IsOK reports whether the Result is in the success arm.
func (r Result) IsOK() bool {
	return r.ok
}

// State returns the state carried by the envelope. On a failed Result this
// is the last-known-good partial state, so callers can inspect which remote
// resources were created before the failure.
func (r Result) State() State {
	return r.state
}

// Err returns the recorded error, or nil on a successful Result.
func (r Result) Err() error {
	return r.state.Err
}

// Then applies the next stage to the Result.
func (r Result) Then(ctx context.Context, stage Stage) Result {
	return stage(ctx, r)
}

// Stage is one step of a workflow. Stages built with NewStage short-circuit
// on a failed input; hand-written stages must do the same.
type Stage func(ctx context.Context, r Result) Result

// NewStage wraps a stage body with the Error pass-through rule: on a failed
// input the body is never invoked and the input is returned unchanged.
// Custom stages should be built with NewStage unless they deliberately need
// to observe failures (see Cleanup).
func NewStage(body func(ctx context.Context, s State) Result) Stage {
	return func(ctx context.Context, r Result) Result {
		if !r.ok {
			return r
		}
		return body(ctx, r.state)
	}
}

// Run threads an initial state through the given stages in order and
// returns the final Result.
func Run(ctx context.Context, state State, stages ...Stage) Result {
	r := OK(state)
	for _, stage := range stages {
		r = stage(ctx, r)
	}
	return r
}
