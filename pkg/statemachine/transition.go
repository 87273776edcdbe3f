package statemachine

import (
	"context"
	"fmt"
)

// Transition is a resolved firing of an event on one object. It is created
// per firing and discarded once hooks have run.
type Transition struct {
	Object Object
	Event  Event
	From   State
	To     State

	machine *Machine
}

func newTransition(m *Machine, obj Object, event Event, from, to State) *Transition {
	return &Transition{Object: obj, Event: event, From: from, To: to, machine: m}
}

// Machine returns the machine the transition belongs to.
func (t *Transition) Machine() *Machine { return t.machine }

// Attribute returns the attribute being transitioned.
func (t *Transition) Attribute() string { return t.machine.attribute }

// FromValue returns the stored value of the from-state.
func (t *Transition) FromValue() string { return t.machine.valueOfName(t.From.Name()) }

// ToValue returns the stored value of the to-state.
func (t *Transition) ToValue() string { return t.machine.valueOfName(t.To.Name()) }

// Loopback reports whether the transition keeps the current state.
func (t *Transition) Loopback() bool { return t.From.Name() == t.To.Name() }

func (t *Transition) String() string {
	return fmt.Sprintf("%s: %s -> %s via %s", t.Attribute(), t.From.Name(), t.To.Name(), t.Event.Name())
}

// TransitionFor resolves event against the object's current state.
// It returns nil without error when no rule matches; guard errors are
// returned wrapped in *HookError.
func (m *Machine) TransitionFor(ctx context.Context, obj Object, event Event) (*Transition, error) {
	if event == nil {
		return nil, ErrInvalidEvent
	}
	ev, ok := m.eventsByName[event.Name()]
	if !ok {
		return nil, fmt.Errorf("%w: %q in machine %q", ErrUnknownEvent, event.Name(), m.name)
	}

	from, err := m.StateOf(obj)
	if err != nil {
		return nil, err
	}

	// First rule with a matching from-state and passing guards wins
	for _, r := range ev.rules {
		if !r.from.Matches(from.Name()) {
			continue
		}
		ok, err := r.allows(ctx, obj)
		if err != nil {
			return nil, &HookError{Phase: "guard", Event: event.Name(), Err: err}
		}
		if !ok {
			continue
		}
		to := r.to
		if to == nil {
			to = from
		}
		return newTransition(m, obj, ev.event, from, to), nil
	}
	return nil, nil
}

func (r rule) allows(ctx context.Context, obj Object) (bool, error) {
	for _, g := range r.guards {
		ok, err := g(ctx, obj)
		if err != nil || !ok {
			return false, err
		}
	}
	for _, g := range r.unless {
		ok, err := g(ctx, obj)
		if err != nil || ok {
			return false, err
		}
	}
	return true, nil
}

// Can reports whether event can currently fire on obj.
func (m *Machine) Can(ctx context.Context, obj Object, event Event) (bool, error) {
	t, err := m.TransitionFor(ctx, obj, event)
	if err != nil {
		return false, err
	}
	return t != nil, nil
}

// AvailableEvents lists the events that can currently fire on obj.
func (m *Machine) AvailableEvents(ctx context.Context, obj Object) ([]Event, error) {
	var out []Event
	for _, ev := range m.events {
		ok, err := m.Can(ctx, obj, ev.event)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, ev.event)
		}
	}
	return out, nil
}
