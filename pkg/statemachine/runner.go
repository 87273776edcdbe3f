package statemachine

import (
	"context"
	"errors"
	"fmt"
)

// ChangeRecorder is told about every attribute write a transition performs,
// including writes where the value does not change.
type ChangeRecorder interface {
	RecordIfChanged(obj Object, attribute string, old, new any)
}

// PersistFunc is the host operation wrapped by a firing, typically a save.
type PersistFunc func(ctx context.Context) (bool, error)

// Firing requests event on machine.
type Firing struct {
	Machine *Machine
	Event   Event
}

// Status is the terminal state of a firing.
type Status int

const (
	// StatusApplied means the attribute was written and after hooks ran.
	StatusApplied Status = iota
	// StatusRejected means no rule matched; nothing was written.
	StatusRejected
	// StatusFailed means a before hook halted or the persist step failed.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusApplied:
		return "applied"
	case StatusRejected:
		return "rejected"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result describes the outcome of Perform.
type Result struct {
	Status      Status
	Transitions []*Transition
	// Failure is set for rejected and halted firings.
	Failure *InvalidTransitionError
}

// Applied reports whether the firing reached StatusApplied.
func (r Result) Applied() bool { return r.Status == StatusApplied }

// Runner performs firings against objects. It keeps no per-object state;
// callers must not run two firings on the same object concurrently.
type Runner struct {
	recorder ChangeRecorder
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithChangeRecorder installs the recorder notified after each write.
func WithChangeRecorder(rec ChangeRecorder) RunnerOption {
	return func(r *Runner) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// NewRunner creates a runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{recorder: noopRecorder{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Fire performs a single event with no persist step.
func (r *Runner) Fire(ctx context.Context, obj Object, m *Machine, event Event) (Result, error) {
	return r.Perform(ctx, obj, []Firing{{Machine: m, Event: event}}, nil)
}

// Perform resolves every firing, runs before hooks, writes the new states,
// calls persist (when non-nil) and runs after hooks. Either every firing is
// applied or none is.
//
// Expected failures (no matching rule, a halting before hook, persist
// reporting false) are reported through Result with a nil error. Rejections
// and halts add a validation error to the machine's attribute. Errors from
// guards, hooks and persist are returned; a persist error still runs
// after_failure_to hooks.
func (r *Runner) Perform(ctx context.Context, obj Object, firings []Firing, persist PersistFunc) (Result, error) {
	transitions := make([]*Transition, 0, len(firings))
	for _, f := range firings {
		t, err := f.Machine.TransitionFor(ctx, obj, f.Event)
		if err != nil {
			return Result{}, err
		}
		if t == nil {
			return r.reject(ctx, obj, f)
		}
		transitions = append(transitions, t)
	}

	for _, t := range transitions {
		if err := t.machine.dispatch(ctx, PhaseBefore, t); err != nil {
			if !errors.Is(err, ErrHalt) {
				return Result{}, err
			}
			obj.AddError(t.machine.attribute, fmt.Sprintf("transition via %q from %q was halted", t.Event.Name(), t.From.Name()))
			res := Result{
				Status:      StatusFailed,
				Transitions: transitions,
				Failure:     NewInvalidTransitionError(t.machine.name, t.Event.Name(), t.From.Name(), true),
			}
			return res, r.fail(ctx, transitions)
		}
	}

	for _, t := range transitions {
		t.Object.Write(t.Attribute(), t.ToValue())
		r.recorder.RecordIfChanged(t.Object, t.Attribute(), t.FromValue(), t.ToValue())
	}

	if persist != nil {
		ok, err := persist(ctx)
		if err != nil || !ok {
			rollback(transitions)
			res := Result{Status: StatusFailed, Transitions: transitions}
			return res, errors.Join(err, r.fail(ctx, transitions))
		}
	}

	for _, t := range transitions {
		if !blank(t.Object.Read(t.machine.EventAttribute())) {
			t.Object.Write(t.machine.EventAttribute(), nil)
		}
	}

	res := Result{Status: StatusApplied, Transitions: transitions}
	for _, t := range transitions {
		if err := t.machine.dispatch(ctx, PhaseAfter, t); err != nil {
			return res, err
		}
	}
	return res, nil
}

// reject records the "cannot transition" error and runs after_failure_to
// hooks with a transition that stays in the current state.
func (r *Runner) reject(ctx context.Context, obj Object, f Firing) (Result, error) {
	m := f.Machine
	from, err := m.StateOf(obj)
	if err != nil {
		return Result{}, err
	}
	obj.AddError(m.attribute, fmt.Sprintf("cannot transition via %q from %q", f.Event.Name(), from.Name()))

	failed := newTransition(m, obj, f.Event, from, from)
	res := Result{
		Status:      StatusRejected,
		Transitions: []*Transition{failed},
		Failure:     NewInvalidTransitionError(m.name, f.Event.Name(), from.Name(), false),
	}
	return res, m.dispatch(ctx, PhaseAfterFailure, failed)
}

func (r *Runner) fail(ctx context.Context, transitions []*Transition) error {
	for _, t := range transitions {
		if err := t.machine.dispatch(ctx, PhaseAfterFailure, t); err != nil {
			return err
		}
	}
	return nil
}

func rollback(transitions []*Transition) {
	for i := len(transitions) - 1; i >= 0; i-- {
		t := transitions[i]
		t.Object.Write(t.Attribute(), t.FromValue())
	}
}

type noopRecorder struct{}

func (noopRecorder) RecordIfChanged(Object, string, any, any) {}
