package statemachine

import (
	"context"
	"fmt"
)

// InitializeStatic writes the static initial state when the attribute has no
// value yet. Hosts call it before any user attribute is assigned.
func (m *Machine) InitializeStatic(obj Object) {
	if m.initial == nil || !blank(obj.Read(m.attribute)) {
		return
	}
	obj.Write(m.attribute, m.valueOfName(m.initial.Name()))
}

// InitializeDynamic computes and writes the dynamic initial state when the
// attribute is still unset. Hosts call it after attribute assignment so the
// computation can see user input. Errors from the computation are returned as-is.
func (m *Machine) InitializeDynamic(ctx context.Context, obj Object) error {
	if m.dynamicInitial == nil || !blank(obj.Read(m.attribute)) {
		return nil
	}
	state, err := m.dynamicInitial(ctx, obj)
	if err != nil {
		return err
	}
	if state == nil {
		return fmt.Errorf("%w: dynamic initial state of %q is nil", ErrUnknownState, m.name)
	}
	value, err := m.ValueOf(state)
	if err != nil {
		return err
	}
	obj.Write(m.attribute, value)
	return nil
}

func blank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}
