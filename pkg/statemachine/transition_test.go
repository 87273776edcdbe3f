package statemachine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docstate/pkg/statemachine"
)

func TestTransitionFor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("resolves target state", func(t *testing.T) {
		t.Parallel()
		m := newVehicleMachine(t)
		obj := vehicleIn(Parked)

		tr, err := m.TransitionFor(ctx, obj, Ignite)
		require.NoError(t, err)
		require.NotNil(t, tr)

		assert.Equal(t, Parked, tr.From)
		assert.Equal(t, Idling, tr.To)
		assert.Equal(t, Ignite, tr.Event)
		assert.Equal(t, "state", tr.Attribute())
		assert.Equal(t, "parked", tr.FromValue())
		assert.Equal(t, "idling", tr.ToValue())
		assert.Same(t, m, tr.Machine())
		assert.False(t, tr.Loopback())
		assert.Equal(t, "state: parked -> idling via ignite", tr.String())
	})

	t.Run("returns nil when nothing matches", func(t *testing.T) {
		t.Parallel()
		m := newVehicleMachine(t)

		tr, err := m.TransitionFor(ctx, vehicleIn(Idling), Ignite)
		require.NoError(t, err)
		assert.Nil(t, tr)
	})

	t.Run("loopback keeps current state", func(t *testing.T) {
		t.Parallel()
		m := newVehicleMachine(t)

		tr, err := m.TransitionFor(ctx, vehicleIn(Idling), Idle)
		require.NoError(t, err)
		require.NotNil(t, tr)
		assert.Equal(t, Idling, tr.To)
		assert.True(t, tr.Loopback())
	})

	t.Run("unknown event", func(t *testing.T) {
		t.Parallel()
		m := newVehicleMachine(t)

		_, err := m.TransitionFor(ctx, vehicleIn(Parked), statemachine.StringEvent("fly"))
		assert.ErrorIs(t, err, statemachine.ErrUnknownEvent)

		_, err = m.TransitionFor(ctx, vehicleIn(Parked), nil)
		assert.ErrorIs(t, err, statemachine.ErrInvalidEvent)
	})

	t.Run("unknown current state", func(t *testing.T) {
		t.Parallel()
		m := newVehicleMachine(t)

		_, err := m.TransitionFor(ctx, newRecord(map[string]any{"state": "flying"}), Ignite)
		assert.ErrorIs(t, err, statemachine.ErrUnknownState)

		_, err = m.TransitionFor(ctx, newRecord(nil), Ignite)
		assert.ErrorIs(t, err, statemachine.ErrUnknownState)
	})
}

func TestTransitionFor_Guards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hasKey := func(_ context.Context, obj statemachine.Object) (bool, error) {
		v, _ := obj.Read("key").(bool)
		return v, nil
	}

	m, err := statemachine.New("state",
		statemachine.WithAction(statemachine.ActionSave),
		statemachine.WithStates(Parked, Idling, Stalled),
		statemachine.WithInitial(Parked),
		statemachine.WithTransition(Ignite, statemachine.Is(Parked), Idling, statemachine.WithGuard(hasKey)),
		statemachine.WithTransition(Ignite, statemachine.Is(Parked), Stalled),
		statemachine.WithTransition(Crash, statemachine.Any(), Stalled, statemachine.WithUnless(hasKey)),
	)
	require.NoError(t, err)

	t.Run("first passing rule wins", func(t *testing.T) {
		t.Parallel()
		obj := newRecord(map[string]any{"state": "parked", "key": true})
		tr, err := m.TransitionFor(ctx, obj, Ignite)
		require.NoError(t, err)
		assert.Equal(t, Idling, tr.To)
	})

	t.Run("falls through to next rule", func(t *testing.T) {
		t.Parallel()
		obj := newRecord(map[string]any{"state": "parked", "key": false})
		tr, err := m.TransitionFor(ctx, obj, Ignite)
		require.NoError(t, err)
		assert.Equal(t, Stalled, tr.To)
	})

	t.Run("unless guard", func(t *testing.T) {
		t.Parallel()
		ok, err := m.Can(ctx, newRecord(map[string]any{"state": "idling", "key": true}), Crash)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = m.Can(ctx, newRecord(map[string]any{"state": "idling"}), Crash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("guard error propagates", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		broken, err := statemachine.New("state",
			statemachine.WithAction(statemachine.ActionSave),
			statemachine.WithStates(Parked, Idling),
			statemachine.WithInitial(Parked),
			statemachine.WithTransition(Ignite, statemachine.Is(Parked), Idling,
				statemachine.WithGuard(func(context.Context, statemachine.Object) (bool, error) { return false, boom }),
			),
		)
		require.NoError(t, err)

		_, err = broken.TransitionFor(ctx, vehicleIn(Parked), Ignite)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.True(t, statemachine.IsHookError(err))
	})
}

func TestAvailableEvents(t *testing.T) {
	t.Parallel()
	m := newVehicleMachine(t)

	events, err := m.AvailableEvents(context.Background(), vehicleIn(Idling))
	require.NoError(t, err)
	assert.Equal(t, []statemachine.Event{ShiftUp, Park, Idle, Crash}, events)

	events, err = m.AvailableEvents(context.Background(), vehicleIn(Parked))
	require.NoError(t, err)
	assert.Equal(t, []statemachine.Event{Ignite}, events)
}

func TestInitialize(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("static initial only when unset", func(t *testing.T) {
		t.Parallel()
		m := newVehicleMachine(t)

		obj := newRecord(nil)
		m.InitializeStatic(obj)
		assert.Equal(t, "parked", obj.Read("state"))

		obj.Write("state", "idling")
		m.InitializeStatic(obj)
		assert.Equal(t, "idling", obj.Read("state"))

		empty := newRecord(map[string]any{"state": ""})
		m.InitializeStatic(empty)
		assert.Equal(t, "parked", empty.Read("state"))
	})

	t.Run("dynamic initial sees other attributes", func(t *testing.T) {
		t.Parallel()
		m, err := statemachine.New("state",
			statemachine.WithAction(statemachine.ActionSave),
			statemachine.WithStates(Parked, Idling),
			statemachine.WithDynamicInitial(func(_ context.Context, obj statemachine.Object) (statemachine.State, error) {
				if obj.Read("running") == true {
					return Idling, nil
				}
				return Parked, nil
			}),
		)
		require.NoError(t, err)

		obj := newRecord(map[string]any{"running": true})
		m.InitializeStatic(obj)
		assert.Nil(t, obj.Read("state"))

		require.NoError(t, m.InitializeDynamic(ctx, obj))
		assert.Equal(t, "idling", obj.Read("state"))

		obj.Write("running", false)
		require.NoError(t, m.InitializeDynamic(ctx, obj))
		assert.Equal(t, "idling", obj.Read("state"))
	})

	t.Run("dynamic initial errors propagate", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		m, err := statemachine.New("state",
			statemachine.WithAction(statemachine.ActionSave),
			statemachine.WithStates(Parked),
			statemachine.WithDynamicInitial(func(context.Context, statemachine.Object) (statemachine.State, error) {
				return nil, boom
			}),
		)
		require.NoError(t, err)

		assert.ErrorIs(t, m.InitializeDynamic(ctx, newRecord(nil)), boom)
	})

	t.Run("dynamic initial must be declared", func(t *testing.T) {
		t.Parallel()
		m, err := statemachine.New("state",
			statemachine.WithAction(statemachine.ActionSave),
			statemachine.WithStates(Parked),
			statemachine.WithDynamicInitial(func(context.Context, statemachine.Object) (statemachine.State, error) {
				return Stalled, nil
			}),
		)
		require.NoError(t, err)

		assert.ErrorIs(t, m.InitializeDynamic(ctx, newRecord(nil)), statemachine.ErrUnknownState)
	})
}
