package docstate

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/docstate/pkg/document"
	"github.com/dmitrymomot/docstate/pkg/statemachine"
)

// WithStates returns a predicate matching documents whose machine attribute
// holds the stored value of one of states.
func (in *Integration) WithStates(machine string, states ...string) (document.Predicate, error) {
	m, values, err := in.scopeValues(machine, states)
	if err != nil {
		return nil, err
	}
	return document.In(m.Attribute(), values...), nil
}

// WithoutStates returns the complement of WithStates.
func (in *Integration) WithoutStates(machine string, states ...string) (document.Predicate, error) {
	m, values, err := in.scopeValues(machine, states)
	if err != nil {
		return nil, err
	}
	return document.NotIn(m.Attribute(), values...), nil
}

// FindWithStates loads the documents in one of states.
func (in *Integration) FindWithStates(ctx context.Context, machine string, states ...string) ([]*document.Document, error) {
	pred, err := in.WithStates(machine, states...)
	if err != nil {
		return nil, err
	}
	return in.schema.Where(ctx, pred)
}

// FindWithoutStates loads the documents in none of states.
func (in *Integration) FindWithoutStates(ctx context.Context, machine string, states ...string) ([]*document.Document, error) {
	pred, err := in.WithoutStates(machine, states...)
	if err != nil {
		return nil, err
	}
	return in.schema.Where(ctx, pred)
}

func (in *Integration) scopeValues(machine string, states []string) (*statemachine.Machine, []string, error) {
	m, err := in.machine(machine)
	if err != nil {
		return nil, nil, err
	}
	values := make([]string, 0, len(states))
	for _, name := range states {
		state, ok := m.State(name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: %q of %q", statemachine.ErrUnknownState, name, m.Name())
		}
		v, err := m.ValueOf(state)
		if err != nil {
			return nil, nil, err
		}
		values = append(values, v)
	}
	return m, values, nil
}
