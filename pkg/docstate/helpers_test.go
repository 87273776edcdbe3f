package docstate_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docstate/pkg/docstate"
	"github.com/dmitrymomot/docstate/pkg/document"
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

func vehicleMachine(t *testing.T, action statemachine.Action, extra ...statemachine.Option) *statemachine.Machine {
	t.Helper()
	opts := []statemachine.Option{
		statemachine.WithAction(action),
		statemachine.WithStates(Parked, Idling, FirstGear, Stalled),
		statemachine.WithInitial(Parked),
		statemachine.WithTransition(Ignite, statemachine.Is(Parked), Idling),
		statemachine.WithTransition(ShiftUp, statemachine.Is(Idling), FirstGear),
		statemachine.WithTransition(Park, statemachine.Is(Idling, FirstGear), Parked),
		statemachine.WithTransition(Idle, statemachine.Is(Idling), nil),
		statemachine.WithTransition(Crash, statemachine.Not(Parked), Stalled),
	}
	m, err := statemachine.New("state", append(opts, extra...)...)
	require.NoError(t, err)
	return m
}

func alarmMachine(t *testing.T) *statemachine.Machine {
	t.Helper()
	active, off := statemachine.StringState("active"), statemachine.StringState("off")
	b := statemachine.NewBuilder("alarm_state").
		Action(statemachine.ActionSave).
		States(active, off).
		Initial(active)
	_, err := b.From(active).When(statemachine.StringEvent("disable")).To(off).Add()
	require.NoError(t, err)
	_, err = b.From(off).When(statemachine.StringEvent("enable")).To(active).Add()
	require.NoError(t, err)
	m, err := b.Build()
	require.NoError(t, err)
	return m
}

type fleet struct {
	*docstate.Integration
	schema *document.Schema
	store  *document.MemoryStore
}

func newFleet(t *testing.T, machines []*statemachine.Machine, opts ...docstate.Option) fleet {
	t.Helper()
	store := document.NewMemoryStore()
	schema := document.NewSchema("vehicles", document.WithStore(store))
	in, err := docstate.Bind(schema, machines, opts...)
	require.NoError(t, err)
	return fleet{Integration: in, schema: schema, store: store}
}

// persisted creates and saves a document, then reloads it so it has no
// pending changes.
func (f fleet) persisted(t *testing.T, attrs map[string]any) *document.Document {
	t.Helper()
	ctx := context.Background()
	doc, err := document.New(ctx, f.schema, attrs)
	require.NoError(t, err)
	ok, err := doc.Save(ctx)
	require.NoError(t, err)
	require.True(t, ok, doc.Errors().FullMessages())
	require.NoError(t, doc.Reload(ctx))
	return doc
}

func (f fleet) storedState(t *testing.T, doc *document.Document, attribute string) any {
	t.Helper()
	rec, err := f.store.Load(context.Background(), "vehicles", doc.ID())
	require.NoError(t, err)
	return rec.Fields[attribute]
}

// trace collects hook invocations in order.
type trace struct {
	calls []string
}

func (tr *trace) hook(name string) statemachine.HookFunc {
	return func(context.Context, statemachine.Object, *statemachine.Transition) error {
		tr.calls = append(tr.calls, name)
		return nil
	}
}
