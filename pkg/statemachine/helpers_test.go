package statemachine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docstate/pkg/statemachine"
)

const (
	Parked    = statemachine.StringState("parked")
	Idling    = statemachine.StringState("idling")
	FirstGear = statemachine.StringState("first_gear")
	Stalled   = statemachine.StringState("stalled")

	Ignite  = statemachine.StringEvent("ignite")
	ShiftUp = statemachine.StringEvent("shift_up")
	Park    = statemachine.StringEvent("park")
	Idle    = statemachine.StringEvent("idle")
	Crash   = statemachine.StringEvent("crash")
)

// record is a minimal map-backed Object.
type record struct {
	attrs  map[string]any
	errors map[string][]string
}

func newRecord(attrs map[string]any) *record {
	if attrs == nil {
		attrs = make(map[string]any)
	}
	return &record{attrs: attrs, errors: make(map[string][]string)}
}

func (r *record) Read(attribute string) any { return r.attrs[attribute] }

func (r *record) Write(attribute string, value any) { r.attrs[attribute] = value }

func (r *record) AddError(attribute, message string) {
	r.errors[attribute] = append(r.errors[attribute], message)
}

func vehicleOptions(extra ...statemachine.Option) []statemachine.Option {
	opts := []statemachine.Option{
		statemachine.WithAction(statemachine.ActionSave),
		statemachine.WithStates(Parked, Idling, FirstGear, Stalled),
		statemachine.WithInitial(Parked),
		statemachine.WithTransition(Ignite, statemachine.Is(Parked), Idling),
		statemachine.WithTransition(ShiftUp, statemachine.Is(Idling), FirstGear),
		statemachine.WithTransition(Park, statemachine.Is(Idling, FirstGear), Parked),
		statemachine.WithTransition(Idle, statemachine.Is(Idling), nil),
		statemachine.WithTransition(Crash, statemachine.Not(Parked), Stalled),
	}
	return append(opts, extra...)
}

func newVehicleMachine(t *testing.T, extra ...statemachine.Option) *statemachine.Machine {
	t.Helper()
	m, err := statemachine.New("state", vehicleOptions(extra...)...)
	require.NoError(t, err)
	return m
}

func vehicleIn(state statemachine.State) *record {
	return newRecord(map[string]any{"state": state.Name()})
}

// trace collects hook invocations in order.
type trace struct {
	calls []string
}

func (tr *trace) hook(name string) statemachine.HookFunc {
	return func(_ context.Context, _ statemachine.Object, _ *statemachine.Transition) error {
		tr.calls = append(tr.calls, name)
		return nil
	}
}
