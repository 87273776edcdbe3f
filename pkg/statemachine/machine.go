package statemachine

import (
	"context"
	"fmt"
)

// InitialFunc computes a dynamic initial state from the object's other attributes.
type InitialFunc func(ctx context.Context, obj Object) (State, error)

// Machine is an immutable state machine definition bound to one attribute.
// It holds no per-object state, so a single Machine is shared by every
// object of a host type and is safe for concurrent use once built.
type Machine struct {
	name      string
	attribute string
	action    Action

	states  []stateDef
	byName  map[string]int
	byValue map[string]int

	initial        State
	dynamicInitial InitialFunc

	events       []*eventDef
	eventsByName map[string]*eventDef

	callbacks []HookRegistration
	observers []Observer
	hooks     hookTable
}

type stateDef struct {
	state State
	value string
}

type eventDef struct {
	event Event
	rules []rule
}

type rule struct {
	from   Matcher
	to     State // nil keeps the current state
	guards []Guard
	unless []Guard
}

// New builds a machine named name. The governed attribute defaults to name.
// All configuration errors are reported here, never at firing time.
func New(name string, opts ...Option) (*Machine, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: machine name cannot be empty", ErrInvalidDefinition)
	}

	m := &Machine{
		name:         name,
		attribute:    name,
		byName:       make(map[string]int),
		byValue:      make(map[string]int),
		eventsByName: make(map[string]*eventDef),
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	if err := m.compile(); err != nil {
		return nil, err
	}
	return m, nil
}

// MustNew is like New but panics on configuration errors.
func MustNew(name string, opts ...Option) *Machine {
	m, err := New(name, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

func (m *Machine) compile() error {
	if !m.action.valid() {
		return definitionError(m.name, "action must be %q or %q, got %q", ActionSave, ActionValidate, m.action)
	}
	if m.attribute == "" {
		return definitionError(m.name, "attribute cannot be empty")
	}
	if len(m.states) == 0 {
		return definitionError(m.name, "no states declared")
	}

	switch {
	case m.initial == nil && m.dynamicInitial == nil:
		return definitionError(m.name, "initial state is required")
	case m.initial != nil && m.dynamicInitial != nil:
		return definitionError(m.name, "static and dynamic initial states are mutually exclusive")
	case m.initial != nil:
		if _, ok := m.byName[m.initial.Name()]; !ok {
			return definitionError(m.name, "initial state %q is not declared", m.initial.Name())
		}
	}

	for _, ev := range m.events {
		// "<phase>_transition" is the catch-all observer name
		if ev.event.Name() == "transition" {
			return definitionError(m.name, "event name %q is reserved", "transition")
		}
		for i, r := range ev.rules {
			if err := m.checkMatcher(r.from, "transition from"); err != nil {
				return err
			}
			if r.to != nil {
				if _, ok := m.byName[r.to.Name()]; !ok {
					return definitionError(m.name, "event %q: transition to undeclared state %q", ev.event.Name(), r.to.Name())
				}
			}
			if err := m.checkAmbiguity(ev, i); err != nil {
				return err
			}
		}
	}

	for _, reg := range m.callbacks {
		if err := m.checkMatcher(reg.From, "hook from"); err != nil {
			return err
		}
		if err := m.checkMatcher(reg.To, "hook to"); err != nil {
			return err
		}
		for _, name := range reg.On.explicit() {
			if _, ok := m.eventsByName[name]; !ok {
				return definitionError(m.name, "hook references undeclared event %q", name)
			}
		}
	}

	m.hooks = newHookTable(m)
	return nil
}

func (m *Machine) checkMatcher(mt Matcher, what string) error {
	for _, name := range mt.explicit() {
		if _, ok := m.byName[name]; !ok {
			return definitionError(m.name, "%s undeclared state %q", what, name)
		}
	}
	return nil
}

// checkAmbiguity rejects an unguarded rule that shadows a later rule of the
// same event: the later rule could never be selected under first-match.
func (m *Machine) checkAmbiguity(ev *eventDef, i int) error {
	r := ev.rules[i]
	if len(r.guards) > 0 || len(r.unless) > 0 {
		return nil
	}
	covered := r.from.filter(m.stateNames())
	for j := i + 1; j < len(ev.rules); j++ {
		later := ev.rules[j].from.filter(m.stateNames())
		for _, a := range covered {
			for _, b := range later {
				if a == b {
					return definitionError(m.name, "event %q: ambiguous transitions from state %q", ev.event.Name(), a)
				}
			}
		}
	}
	return nil
}

// Name returns the machine name.
func (m *Machine) Name() string { return m.name }

// Attribute returns the governed attribute.
func (m *Machine) Attribute() string { return m.attribute }

// EventAttribute returns the transient attribute used to request an event,
// e.g. "state_event".
func (m *Machine) EventAttribute() string { return m.name + "_event" }

// Action returns the lifecycle phase automatic firing is bound to.
func (m *Machine) Action() Action { return m.action }

// States returns the declared states in declaration order.
func (m *Machine) States() []State {
	out := make([]State, len(m.states))
	for i, s := range m.states {
		out[i] = s.state
	}
	return out
}

// Values returns the stored values of all declared states.
func (m *Machine) Values() []string {
	out := make([]string, len(m.states))
	for i, s := range m.states {
		out[i] = s.value
	}
	return out
}

// Events returns the declared events in declaration order.
func (m *Machine) Events() []Event {
	out := make([]Event, len(m.events))
	for i, e := range m.events {
		out[i] = e.event
	}
	return out
}

// Event looks up a declared event by name.
func (m *Machine) Event(name string) (Event, bool) {
	ev, ok := m.eventsByName[name]
	if !ok {
		return nil, false
	}
	return ev.event, true
}

// State looks up a declared state by name.
func (m *Machine) State(name string) (State, bool) {
	i, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return m.states[i].state, true
}

// ValueOf returns the stored representation of state.
func (m *Machine) ValueOf(state State) (string, error) {
	if state == nil {
		return "", fmt.Errorf("%w: nil state", ErrUnknownState)
	}
	i, ok := m.byName[state.Name()]
	if !ok {
		return "", fmt.Errorf("%w: %q in machine %q", ErrUnknownState, state.Name(), m.name)
	}
	return m.states[i].value, nil
}

// StateOf reads the object's attribute and maps the stored value back to a state.
func (m *Machine) StateOf(obj Object) (State, error) {
	raw := obj.Read(m.attribute)
	value, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: attribute %q holds %v", ErrUnknownState, m.attribute, raw)
	}
	i, ok := m.byValue[value]
	if !ok {
		return nil, fmt.Errorf("%w: attribute %q holds %q", ErrUnknownState, m.attribute, value)
	}
	return m.states[i].state, nil
}

func (m *Machine) stateNames() []string {
	out := make([]string, len(m.states))
	for i, s := range m.states {
		out[i] = s.state.Name()
	}
	return out
}

func (m *Machine) eventNames() []string {
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.event.Name()
	}
	return out
}

func (m *Machine) valueOfName(name string) string {
	return m.states[m.byName[name]].value
}

func (m *Machine) eventDef(e Event) *eventDef {
	if ev, ok := m.eventsByName[e.Name()]; ok {
		return ev
	}
	ev := &eventDef{event: e}
	m.events = append(m.events, ev)
	m.eventsByName[e.Name()] = ev
	return ev
}
