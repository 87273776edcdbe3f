package statemachine

import (
	"fmt"
)

// Option configures a machine during construction.
type Option func(*Machine) error

// TransitionOption configures a single transition rule.
type TransitionOption func(*rule)

// TransitionDef defines a transition rule. A nil To keeps the current state.
type TransitionDef struct {
	Event  Event
	From   Matcher
	To     State
	Guards []Guard
	Unless []Guard
}

// HookFilter narrows a hook to events, from-states and to-states.
// Zero-value matchers match everything.
type HookFilter struct {
	On   Matcher
	From Matcher
	To   Matcher
}

// WithAttribute overrides the governed attribute name.
func WithAttribute(attribute string) Option {
	return func(m *Machine) error {
		m.attribute = attribute
		return nil
	}
}

// WithAction selects the lifecycle phase automatic firing binds to.
// It is mandatory; there is no default action.
func WithAction(action Action) Option {
	return func(m *Machine) error {
		m.action = action
		return nil
	}
}

// WithStates declares states. Each state is stored under its name unless
// WithStateValue assigns another value.
func WithStates(states ...State) Option {
	return func(m *Machine) error {
		for _, s := range states {
			if s == nil || s.Name() == "" {
				return definitionError(m.name, "state cannot be nil or unnamed")
			}
			if _, ok := m.byName[s.Name()]; ok {
				return definitionError(m.name, "state %q declared twice", s.Name())
			}
			if _, ok := m.byValue[s.Name()]; ok {
				return definitionError(m.name, "stored value %q already used", s.Name())
			}
			m.byName[s.Name()] = len(m.states)
			m.byValue[s.Name()] = len(m.states)
			m.states = append(m.states, stateDef{state: s, value: s.Name()})
		}
		return nil
	}
}

// WithStateValue changes the stored value of a declared state.
func WithStateValue(state State, value string) Option {
	return func(m *Machine) error {
		if state == nil {
			return definitionError(m.name, "state cannot be nil")
		}
		i, ok := m.byName[state.Name()]
		if !ok {
			return definitionError(m.name, "stored value for undeclared state %q", state.Name())
		}
		if j, ok := m.byValue[value]; ok && j != i {
			return definitionError(m.name, "stored value %q already used", value)
		}
		delete(m.byValue, m.states[i].value)
		m.states[i].value = value
		m.byValue[value] = i
		return nil
	}
}

// WithInitial sets the static initial state, applied before any
// attribute assignment.
func WithInitial(state State) Option {
	return func(m *Machine) error {
		m.initial = state
		return nil
	}
}

// WithDynamicInitial sets an initial state computed after attribute assignment.
func WithDynamicInitial(fn InitialFunc) Option {
	return func(m *Machine) error {
		m.dynamicInitial = fn
		return nil
	}
}

// WithEvent declares an event. Events used by WithTransition are declared implicitly.
func WithEvent(events ...Event) Option {
	return func(m *Machine) error {
		for _, e := range events {
			if e == nil || e.Name() == "" {
				return definitionError(m.name, "event cannot be nil or unnamed")
			}
			m.eventDef(e)
		}
		return nil
	}
}

// WithTransition adds a rule to event. Rules of an event are tried in
// declaration order and the first one whose from-matcher and guards pass wins.
func WithTransition(event Event, from Matcher, to State, opts ...TransitionOption) Option {
	return func(m *Machine) error {
		if event == nil || event.Name() == "" {
			return definitionError(m.name, "transition event cannot be nil or unnamed")
		}
		r := rule{from: from, to: to}
		for _, opt := range opts {
			opt(&r)
		}
		ev := m.eventDef(event)
		ev.rules = append(ev.rules, r)
		return nil
	}
}

// WithTransitions adds multiple rules at once.
func WithTransitions(defs []TransitionDef) Option {
	return func(m *Machine) error {
		for i, d := range defs {
			opt := WithTransition(d.Event, d.From, d.To, WithGuards(d.Guards...), WithUnless(d.Unless...))
			if err := opt(m); err != nil {
				return fmt.Errorf("transition[%d]: %w", i, err)
			}
		}
		return nil
	}
}

// WithGuard adds a guard that must pass for the rule to apply.
func WithGuard(guard Guard) TransitionOption {
	return func(r *rule) {
		if guard != nil {
			r.guards = append(r.guards, guard)
		}
	}
}

// WithGuards adds multiple guards to a rule.
func WithGuards(guards ...Guard) TransitionOption {
	return func(r *rule) {
		for _, g := range guards {
			if g != nil {
				r.guards = append(r.guards, g)
			}
		}
	}
}

// WithUnless adds guards that must all fail for the rule to apply.
func WithUnless(guards ...Guard) TransitionOption {
	return func(r *rule) {
		for _, g := range guards {
			if g != nil {
				r.unless = append(r.unless, g)
			}
		}
	}
}

// BeforeTransition registers a hook that runs before the attribute is written.
func BeforeTransition(filter HookFilter, fn HookFunc) Option {
	return addCallback(PhaseBefore, filter, fn)
}

// AfterTransition registers a hook that runs after a successful transition.
func AfterTransition(filter HookFilter, fn HookFunc) Option {
	return addCallback(PhaseAfter, filter, fn)
}

// AfterFailure registers a hook that runs when a transition is rejected,
// halted, or its persist step fails.
func AfterFailure(filter HookFilter, fn HookFunc) Option {
	return addCallback(PhaseAfterFailure, filter, fn)
}

func addCallback(phase HookPhase, filter HookFilter, fn HookFunc) Option {
	return func(m *Machine) error {
		if fn == nil {
			return definitionError(m.name, "%s hook cannot be nil", phase)
		}
		m.callbacks = append(m.callbacks, HookRegistration{
			Phase: phase,
			On:    filter.On,
			From:  filter.From,
			To:    filter.To,
			Fn:    fn,
		})
		return nil
	}
}

// WithObserver registers an observer. Its method names are resolved against
// the machine's events and states once, when the machine is built.
func WithObserver(obs Observer) Option {
	return func(m *Machine) error {
		if len(obs) == 0 {
			return nil
		}
		for name, fn := range obs {
			if fn == nil {
				return definitionError(m.name, "observer method %q cannot be nil", name)
			}
		}
		m.observers = append(m.observers, obs)
		return nil
	}
}
