package docstate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/docstate/pkg/document"
	"github.com/dmitrymomot/docstate/pkg/logger"
	"github.com/dmitrymomot/docstate/pkg/statemachine"
	"github.com/dmitrymomot/docstate/pkg/validator"
)

func (in *Integration) bind() {
	s := in.schema
	for _, m := range in.machines {
		s.Transient(m.EventAttribute())
	}

	s.OnInit(func(doc *document.Document) {
		for _, m := range in.machines {
			m.InitializeStatic(doc)
		}
	})
	s.AfterInitialize(func(ctx context.Context, doc *document.Document) error {
		for _, m := range in.machines {
			if err := m.InitializeDynamic(ctx, doc); err != nil {
				return fmt.Errorf("initialize %s: %w", m.Name(), err)
			}
		}
		return nil
	})
	s.OnAssign(in.eventAssigned)
	s.Validate(in.validate)

	if in.hasAction(statemachine.ActionValidate) {
		s.BeforeValidation(in.beforeValidation)
	}
	if in.hasAction(statemachine.ActionSave) {
		s.PrependAroundSave(in.aroundSave)
	}
}

func (in *Integration) hasAction(action statemachine.Action) bool {
	for _, m := range in.machines {
		if m.Action() == action {
			return true
		}
	}
	return false
}

// eventAssigned surfaces a pending event as a (current, current) change of
// the state attribute so save logic that skips unchanged documents still runs.
func (in *Integration) eventAssigned(doc *document.Document, attribute string, value any) {
	m, ok := in.byEventKey[attribute]
	if !ok || in.tracking == DirtyNative || eventName(value) == "" {
		return
	}
	if !doc.Changed(m.Attribute()) {
		current := doc.Read(m.Attribute())
		doc.ForceChange(m.Attribute(), current, current)
	}
}

func (in *Integration) validate(_ context.Context, doc *document.Document) error {
	rules := make([]validator.Rule, 0, 2*len(in.machines))
	for _, m := range in.machines {
		rules = append(rules,
			validator.ValidEvent(m.EventAttribute(), eventName(doc.Read(m.EventAttribute())), eventNames(m)),
			validator.ValidState(m.Attribute(), stateValue(doc.Read(m.Attribute())), m.Values()),
		)
	}
	return validator.Apply(rules...)
}

// beforeValidation fires pending events of validate-time machines. A
// failed validation afterwards does not undo the in-memory transition.
func (in *Integration) beforeValidation(ctx context.Context, doc *document.Document) error {
	firings := in.pending(doc, statemachine.ActionValidate)
	if len(firings) == 0 {
		return nil
	}
	_, err := in.perform(ctx, doc, firings, nil)
	return err
}

// aroundSave fires pending events of save-time machines around the rest of
// the save chain. A failed persist rolls the state back.
func (in *Integration) aroundSave(ctx context.Context, doc *document.Document, next document.PersistFunc) (bool, error) {
	firings := in.pending(doc, statemachine.ActionSave)
	if len(firings) == 0 {
		return next(ctx)
	}
	res, err := in.perform(ctx, doc, firings, statemachine.PersistFunc(next))
	if err != nil {
		return false, err
	}
	return res.Applied(), nil
}

// pending collects the events requested through the event attributes of
// machines bound to action. Unknown event names are left to the validator.
func (in *Integration) pending(doc *document.Document, action statemachine.Action) []statemachine.Firing {
	var firings []statemachine.Firing
	for _, m := range in.machines {
		if m.Action() != action {
			continue
		}
		// a native dirty flag means this machine already fired in the current cycle
		if action == statemachine.ActionValidate && in.tracking == DirtyNative && doc.MarkedForChange(m.Attribute()) {
			continue
		}
		name := eventName(doc.Read(m.EventAttribute()))
		if name == "" {
			continue
		}
		if ev, ok := m.Event(name); ok {
			firings = append(firings, statemachine.Firing{Machine: m, Event: ev})
		}
	}
	return firings
}

func (in *Integration) perform(ctx context.Context, doc *document.Document, firings []statemachine.Firing, persist statemachine.PersistFunc) (statemachine.Result, error) {
	ctx = logger.WithDocumentID(ctx, doc.ID())
	res, err := in.runner.Perform(ctx, doc, firings, persist)
	if sink, ok := ctx.Value(resultKey{}).(*statemachine.Result); ok {
		*sink = res
	}

	if err != nil {
		in.logger.ErrorContext(ctx, "transition failed",
			logger.DocumentID(doc.ID()),
			logger.Error(err),
		)
		return res, err
	}
	for _, t := range res.Transitions {
		level := slog.LevelDebug
		msg := "transition applied"
		if !res.Applied() {
			level = slog.LevelInfo
			msg = "transition not applied"
		}
		in.logger.Log(ctx, level, msg,
			logger.DocumentID(doc.ID()),
			logger.Machine(t.Machine().Name()),
			logger.Event(t.Event.Name()),
			logger.From(t.From.Name()),
			logger.To(t.To.Name()),
			logger.Status(res.Status.String()),
		)
	}
	return res, nil
}

type resultKey struct{}

func eventName(v any) string {
	switch ev := v.(type) {
	case nil:
		return ""
	case string:
		return ev
	case statemachine.Event:
		return ev.Name()
	default:
		return fmt.Sprint(ev)
	}
}

func stateValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func eventNames(m *statemachine.Machine) []string {
	events := m.Events()
	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, ev.Name())
	}
	return names
}
