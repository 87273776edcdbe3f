// Package statemachine provides attribute-bound finite state machines whose
// definitions are built once and shared by every object of a host type.
//
// A Machine governs one attribute of an Object. Firing an event resolves the
// event's rules against the attribute's current value, runs before hooks,
// writes the new stored value, optionally calls a wrapped persist step and
// finally runs after hooks. The package never persists anything itself: the
// host decides when firings happen and what persisting means.
//
// # Architecture
//
// The package is split into a definition side and a runtime side:
//  1. Machine (built with New, MustNew or Builder) holds declared states and
//     their stored values, events with their ordered transition rules,
//     initial-state configuration, the binding Action and a hook table.
//  2. Runner performs firings. It resolves every requested event, runs hooks
//     through the machine's hook table, writes attributes, notifies a
//     ChangeRecorder and applies all-or-nothing semantics across machines.
//
// All definition problems (undeclared states, missing action, shadowed
// rules) are reported by New as errors wrapping ErrInvalidDefinition.
//
// # Usage
//
//	import (
//	    "context"
//	    "github.com/dmitrymomot/docstate/pkg/statemachine"
//	)
//
//	const (
//	    Parked = statemachine.StringState("parked")
//	    Idling = statemachine.StringState("idling")
//	    Ignite = statemachine.StringEvent("ignite")
//	)
//
//	machine := statemachine.MustNew("state",
//	    statemachine.WithAction(statemachine.ActionSave),
//	    statemachine.WithStates(Parked, Idling),
//	    statemachine.WithInitial(Parked),
//	    statemachine.WithTransition(Ignite, statemachine.Is(Parked), Idling),
//	)
//
//	runner := statemachine.NewRunner()
//	res, err := runner.Fire(context.Background(), vehicle, machine, Ignite)
//
// # Rule Selection
//
// Rules of an event are evaluated in declaration order. The first rule whose
// from-matcher accepts the current state and whose guards pass is selected.
// A rule without a target state is a loopback. If nothing matches, the firing
// is rejected: the runner adds `cannot transition via "<event>" from "<state>"`
// to the attribute through Object.AddError and runs after_failure_to hooks.
// A before hook returning ErrHalt fails the firing the same way with a
// "was halted" error.
//
// # Hooks and Observers
//
// Hooks are registered with BeforeTransition, AfterTransition and
// AfterFailure using a HookFilter, or through an Observer whose method names
// follow the convention documented on Observer. Observer names are resolved
// into explicit filters when the machine is built. At dispatch time the
// matching registrations run from most to least specific: event+from+to,
// event+from, event+to, event, from+to, from, to, then unfiltered. Callbacks
// run before observers.
//
// A before hook may return ErrHalt to abort the firing without touching the
// attribute. Any other hook or guard error is wrapped in *HookError and
// returned to the caller.
//
// # Concurrency
//
// A built Machine is read-only and safe to share. Firings on a single object
// are not synchronised; callers must not fire on the same object from several
// goroutines at once.
package statemachine
