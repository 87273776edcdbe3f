package statemachine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDefinition wraps every configuration error found while building a machine.
	ErrInvalidDefinition = errors.New("statemachine: invalid definition")
	ErrUnknownState      = errors.New("statemachine: unknown state")
	ErrUnknownEvent      = errors.New("statemachine: unknown event")
	ErrInvalidEvent      = errors.New("statemachine: event cannot be nil")

	// ErrHalt is returned by a before hook to abort the transition.
	// It is ignored when returned from after and after_failure_to hooks.
	ErrHalt = errors.New("statemachine: transition halted")
)

// definitionError wraps a configuration problem with ErrInvalidDefinition.
func definitionError(machine, format string, args ...any) error {
	return fmt.Errorf("%w: machine %q: %s", ErrInvalidDefinition, machine, fmt.Sprintf(format, args...))
}

// InvalidTransitionError indicates that an event could not transition the
// object, either because no rule matched or because a hook halted it.
type InvalidTransitionError struct {
	Machine   string
	EventName string
	StateName string
	Halted    bool
}

func (e *InvalidTransitionError) Error() string {
	if e.Halted {
		return fmt.Sprintf("transition of %q via %q from '%s' was halted", e.Machine, e.EventName, e.StateName)
	}
	return fmt.Sprintf("cannot transition %q via %q from '%s'", e.Machine, e.EventName, e.StateName)
}

func NewInvalidTransitionError(machine, eventName, stateName string, halted bool) *InvalidTransitionError {
	return &InvalidTransitionError{
		Machine:   machine,
		EventName: eventName,
		StateName: stateName,
		Halted:    halted,
	}
}

// HookError wraps an error returned by a guard or hook body.
type HookError struct {
	Phase string
	Event string
	Err   error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("statemachine: %s hook for event %q failed: %v", e.Phase, e.Event, e.Err)
}

func (e *HookError) Unwrap() error {
	return e.Err
}

func IsInvalidTransition(err error) bool {
	var e *InvalidTransitionError
	return errors.As(err, &e)
}

func IsHookError(err error) bool {
	var e *HookError
	return errors.As(err, &e)
}
