package statemachine

import (
	"context"
)

// State represents a state in the state machine.
type State interface {
	Name() string
}

// Event represents an event that can trigger a state transition.
type Event interface {
	Name() string
}

// Object is the host object whose attribute is governed by a machine.
// The machine never persists anything itself; it only reads and writes
// attributes and reports failures through AddError.
type Object interface {
	Read(attribute string) any
	Write(attribute string, value any)
	AddError(attribute, message string)
}

// Guard evaluates whether a transition rule applies to the object.
// A returned error is a programming error and aborts the firing.
type Guard func(ctx context.Context, obj Object) (bool, error)

// HookFunc is a before/after/after_failure_to callback.
// Returning ErrHalt from a before hook aborts the transition.
type HookFunc func(ctx context.Context, obj Object, t *Transition) error

// Action names the host lifecycle phase automatic firing is bound to.
type Action string

const (
	// ActionSave fires pending events around the host's persist call.
	ActionSave Action = "save"
	// ActionValidate fires pending events before the host's validation runs.
	ActionValidate Action = "validate"
)

func (a Action) valid() bool {
	return a == ActionSave || a == ActionValidate
}

// StringState provides a simple string-based state implementation for basic use cases.
type StringState string

func (s StringState) Name() string {
	return string(s)
}

// StringEvent provides a simple string-based event implementation for basic use cases.
type StringEvent string

func (e StringEvent) Name() string {
	return string(e)
}
