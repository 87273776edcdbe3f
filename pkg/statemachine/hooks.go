package statemachine

import (
	"context"
	"errors"
	"sort"
)

// HookPhase is the prefix of a hook and of every observer method name.
type HookPhase string

const (
	PhaseBefore       HookPhase = "before"
	PhaseAfter        HookPhase = "after"
	PhaseAfterFailure HookPhase = "after_failure_to"
)

// Observer maps method names to callbacks, e.g.
//
//	statemachine.Observer{
//	    "before_ignite":                        putOnSeatbelt,
//	    "after_transition_state_to_idling":     startEngine,
//	    "after_failure_to_transition":          audit,
//	}
//
// Recognised names, from most to least specific:
//
//	<phase>_<event>_from_<from>_to_<to>
//	<phase>_<event>_from_<from>
//	<phase>_<event>_to_<to>
//	<phase>_<event>
//	<phase>_transition_<attribute>_from_<from>_to_<to>
//	<phase>_transition_<attribute>_from_<from>
//	<phase>_transition_<attribute>_to_<to>
//	<phase>_transition_<attribute>
//	<phase>_transition
//
// where phase is one of before, after and after_failure_to.
// Names that match nothing in the machine are ignored, so one observer
// can serve several machines.
type Observer map[string]HookFunc

// HookRegistration is a resolved hook with explicit filters.
type HookRegistration struct {
	Phase HookPhase
	On    Matcher
	From  Matcher
	To    Matcher
	// Name is the observer method name; empty for callbacks.
	Name string
	Fn   HookFunc

	seq int
}

// rank orders registrations from most to least specific:
// event+from+to, event+from, event+to, event, from+to, from, to, none.
func (r HookRegistration) rank() int {
	rank := 0
	if r.On.IsAny() {
		rank += 4
	}
	if r.From.IsAny() {
		rank += 2
	}
	if r.To.IsAny() {
		rank++
	}
	return rank
}

func (r HookRegistration) matches(t *Transition) bool {
	return r.On.Matches(t.Event.Name()) &&
		r.From.Matches(t.From.Name()) &&
		r.To.Matches(t.To.Name())
}

// hookTable holds every registration of a machine, callbacks first, each
// group sorted by specificity. Read-only after the machine is built.
type hookTable struct {
	regs []HookRegistration
}

func newHookTable(m *Machine) hookTable {
	regs := make([]HookRegistration, 0, len(m.callbacks))
	for i, cb := range m.callbacks {
		cb.seq = i
		regs = append(regs, cb)
	}
	sortBySpecificity(regs)

	observed := resolveObservers(m)
	sortBySpecificity(observed)

	return hookTable{regs: append(regs, observed...)}
}

func sortBySpecificity(regs []HookRegistration) {
	sort.SliceStable(regs, func(i, j int) bool {
		ri, rj := regs[i].rank(), regs[j].rank()
		if ri != rj {
			return ri < rj
		}
		return regs[i].seq < regs[j].seq
	})
}

// resolveObservers turns observer method names into registrations by
// enumerating every (event, from, to) combination of the machine once.
func resolveObservers(m *Machine) []HookRegistration {
	var out []HookRegistration
	seq := 0
	for _, obs := range m.observers {
		seen := make(map[string]bool)
		for _, phase := range []HookPhase{PhaseBefore, PhaseAfter, PhaseAfterFailure} {
			for _, event := range m.eventNames() {
				for _, from := range m.stateNames() {
					for _, to := range m.stateNames() {
						for _, form := range observerForms(phase, m.attribute, event, from, to) {
							fn, ok := obs[form.name]
							if !ok || seen[form.name] {
								continue
							}
							seen[form.name] = true
							reg := HookRegistration{Phase: phase, Name: form.name, Fn: fn, seq: seq}
							if form.event {
								reg.On = isNames(event)
							}
							if form.from {
								reg.From = isNames(from)
							}
							if form.to {
								reg.To = isNames(to)
							}
							out = append(out, reg)
							seq++
						}
					}
				}
			}
		}
	}
	return out
}

type observerForm struct {
	name            string
	event, from, to bool
}

func observerForms(phase HookPhase, attribute, event, from, to string) []observerForm {
	p := string(phase)
	tr := p + "_transition_" + attribute
	return []observerForm{
		{name: p + "_" + event + "_from_" + from + "_to_" + to, event: true, from: true, to: true},
		{name: p + "_" + event + "_from_" + from, event: true, from: true},
		{name: p + "_" + event + "_to_" + to, event: true, to: true},
		{name: p + "_" + event, event: true},
		{name: tr + "_from_" + from + "_to_" + to, from: true, to: true},
		{name: tr + "_from_" + from, from: true},
		{name: tr + "_to_" + to, to: true},
		{name: tr},
		{name: p + "_transition"},
	}
}

// HookNames returns the observer method names consulted for a transition in
// the given phase, most specific first.
func HookNames(phase HookPhase, t *Transition) []string {
	forms := observerForms(phase, t.Attribute(), t.Event.Name(), t.From.Name(), t.To.Name())
	names := make([]string, len(forms))
	for i, f := range forms {
		names[i] = f.name
	}
	return names
}

func isNames(names ...string) Matcher {
	m := Matcher{names: make(map[string]struct{}, len(names)), only: true}
	for _, n := range names {
		m.names[n] = struct{}{}
	}
	return m
}

// Hooks returns the registrations that apply to t in phase, in invocation order.
func (m *Machine) Hooks(phase HookPhase, t *Transition) []HookRegistration {
	var out []HookRegistration
	for _, reg := range m.hooks.regs {
		if reg.Phase == phase && reg.matches(t) {
			out = append(out, reg)
		}
	}
	return out
}

// dispatch invokes the matching hooks of phase in order. A before hook
// returning ErrHalt stops the chain and ErrHalt is returned as-is; in the
// other phases ErrHalt is ignored. Any other error is wrapped in *HookError.
func (m *Machine) dispatch(ctx context.Context, phase HookPhase, t *Transition) error {
	for _, reg := range m.Hooks(phase, t) {
		err := reg.Fn(ctx, t.Object, t)
		switch {
		case err == nil:
		case errors.Is(err, ErrHalt):
			if phase == PhaseBefore {
				return ErrHalt
			}
		default:
			return &HookError{Phase: string(phase), Event: t.Event.Name(), Err: err}
		}
	}
	return nil
}
