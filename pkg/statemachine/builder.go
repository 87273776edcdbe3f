package statemachine

// Builder provides a fluent API for building state machines.
type Builder struct {
	name string
	opts []Option

	currentFrom  Matcher
	currentEvent Event
	currentTo    State
	guards       []Guard
	unless       []Guard
}

// NewBuilder creates a builder for a machine named name.
func NewBuilder(name string) *Builder {
	return &Builder{name: name}
}

// Attribute overrides the governed attribute.
func (b *Builder) Attribute(attribute string) *Builder {
	b.opts = append(b.opts, WithAttribute(attribute))
	return b
}

// Action sets the lifecycle phase automatic firing binds to.
func (b *Builder) Action(action Action) *Builder {
	b.opts = append(b.opts, WithAction(action))
	return b
}

// States declares states.
func (b *Builder) States(states ...State) *Builder {
	b.opts = append(b.opts, WithStates(states...))
	return b
}

// StoredAs changes the stored value of a declared state.
func (b *Builder) StoredAs(state State, value string) *Builder {
	b.opts = append(b.opts, WithStateValue(state, value))
	return b
}

// Initial sets the static initial state.
func (b *Builder) Initial(state State) *Builder {
	b.opts = append(b.opts, WithInitial(state))
	return b
}

// InitialFrom sets a dynamic initial state.
func (b *Builder) InitialFrom(fn InitialFunc) *Builder {
	b.opts = append(b.opts, WithDynamicInitial(fn))
	return b
}

// From sets the starting states for a transition. No arguments means any state.
func (b *Builder) From(states ...State) *Builder {
	b.reset()
	if len(states) > 0 {
		b.currentFrom = Is(states...)
	}
	return b
}

// FromAnyExcept sets every state but the given ones as starting states.
func (b *Builder) FromAnyExcept(states ...State) *Builder {
	b.reset()
	b.currentFrom = Not(states...)
	return b
}

// When sets the event that triggers a transition.
func (b *Builder) When(event Event) *Builder {
	b.currentEvent = event
	return b
}

// To sets the target state. Leaving it unset keeps the current state.
func (b *Builder) To(state State) *Builder {
	b.currentTo = state
	return b
}

// WithGuard adds a guard to the current transition.
func (b *Builder) WithGuard(guard Guard) *Builder {
	b.guards = append(b.guards, guard)
	return b
}

// Unless adds a guard that must fail for the current transition to apply.
func (b *Builder) Unless(guard Guard) *Builder {
	b.unless = append(b.unless, guard)
	return b
}

// Add finalizes the current transition.
func (b *Builder) Add() (*Builder, error) {
	if b.currentEvent == nil {
		return b, ErrInvalidEvent
	}
	b.opts = append(b.opts, WithTransition(b.currentEvent, b.currentFrom, b.currentTo,
		WithGuards(b.guards...), WithUnless(b.unless...)))
	b.reset()
	return b, nil
}

// Before registers a before-transition hook.
func (b *Builder) Before(filter HookFilter, fn HookFunc) *Builder {
	b.opts = append(b.opts, BeforeTransition(filter, fn))
	return b
}

// After registers an after-transition hook.
func (b *Builder) After(filter HookFilter, fn HookFunc) *Builder {
	b.opts = append(b.opts, AfterTransition(filter, fn))
	return b
}

// AfterFailure registers an after_failure_to hook.
func (b *Builder) AfterFailure(filter HookFilter, fn HookFunc) *Builder {
	b.opts = append(b.opts, AfterFailure(filter, fn))
	return b
}

// Observe registers an observer.
func (b *Builder) Observe(obs Observer) *Builder {
	b.opts = append(b.opts, WithObserver(obs))
	return b
}

// Build validates the definition and returns the machine.
func (b *Builder) Build() (*Machine, error) {
	return New(b.name, b.opts...)
}

// reset clears the current transition configuration.
func (b *Builder) reset() {
	b.currentFrom = Matcher{}
	b.currentEvent = nil
	b.currentTo = nil
	b.guards = nil
	b.unless = nil
}
