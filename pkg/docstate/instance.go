package docstate

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/docstate/pkg/document"
	"github.com/dmitrymomot/docstate/pkg/statemachine"
)

// SetEvent requests event on the named machine. The event runs on the
// machine's next action (Valid or Save).
func (in *Integration) SetEvent(doc *document.Document, machine, event string) error {
	m, err := in.machine(machine)
	if err != nil {
		return err
	}
	doc.Set(m.EventAttribute(), event)
	return nil
}

// Fire requests event and immediately runs the machine's action: Save for
// save-time machines, Valid for validate-time ones. It reports whether the
// event was applied and the action succeeded; rejections and halts are
// reported as false with a nil error.
func (in *Integration) Fire(ctx context.Context, doc *document.Document, machine, event string) (bool, error) {
	m, err := in.machine(machine)
	if err != nil {
		return false, err
	}
	res, ok := ctx.Value(resultKey{}).(*statemachine.Result)
	if !ok {
		res = &statemachine.Result{}
		ctx = context.WithValue(ctx, resultKey{}, res)
	}

	doc.Set(m.EventAttribute(), event)
	var success bool
	if m.Action() == statemachine.ActionValidate {
		success, err = doc.Valid(ctx)
	} else {
		success, err = doc.Save(ctx)
	}
	if err != nil {
		return false, err
	}
	// a halted validate-time firing leaves no validation error behind
	return success && (res.Transitions == nil || res.Applied()), nil
}

// FireStrict works like Fire but turns every failure into an error: an
// *statemachine.InvalidTransitionError when the transition was rejected or
// halted, the document's validator.ValidationErrors when validation failed,
// or ErrNotSaved otherwise.
func (in *Integration) FireStrict(ctx context.Context, doc *document.Document, machine, event string) error {
	var res statemachine.Result
	ctx = context.WithValue(ctx, resultKey{}, &res)

	ok, err := in.Fire(ctx, doc, machine, event)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if res.Failure != nil {
		return res.Failure
	}
	if errs := doc.Errors(); !errs.IsEmpty() {
		return errs
	}
	return ErrNotSaved
}

// Can reports whether event could fire on the named machine right now.
func (in *Integration) Can(ctx context.Context, doc *document.Document, machine, event string) (bool, error) {
	m, err := in.machine(machine)
	if err != nil {
		return false, err
	}
	ev, ok := m.Event(event)
	if !ok {
		return false, fmt.Errorf("%w: %q", statemachine.ErrUnknownEvent, event)
	}
	return m.Can(ctx, doc, ev)
}

// AvailableEvents lists the events of the named machine that could fire now.
func (in *Integration) AvailableEvents(ctx context.Context, doc *document.Document, machine string) ([]string, error) {
	m, err := in.machine(machine)
	if err != nil {
		return nil, err
	}
	events, err := m.AvailableEvents(ctx, doc)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, ev.Name())
	}
	return names, nil
}

// StateOf returns the current state of the named machine.
func (in *Integration) StateOf(doc *document.Document, machine string) (statemachine.State, error) {
	m, err := in.machine(machine)
	if err != nil {
		return nil, err
	}
	return m.StateOf(doc)
}

// Is reports whether the named machine is in state.
func (in *Integration) Is(doc *document.Document, machine, state string) (bool, error) {
	current, err := in.StateOf(doc, machine)
	if err != nil {
		return false, err
	}
	return current.Name() == state, nil
}
