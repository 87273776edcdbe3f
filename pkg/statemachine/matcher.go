package statemachine

// Named is satisfied by both State and Event.
type Named interface {
	Name() string
}

// Matcher selects states or events by name.
// The zero value matches everything.
type Matcher struct {
	names map[string]struct{}
	only  bool
}

// Any matches every state or event.
func Any() Matcher {
	return Matcher{}
}

// Is matches only the given values.
func Is[T Named](values ...T) Matcher {
	m := Matcher{names: make(map[string]struct{}, len(values)), only: true}
	for _, v := range values {
		m.names[v.Name()] = struct{}{}
	}
	return m
}

// Not matches everything except the given values.
func Not[T Named](values ...T) Matcher {
	m := Matcher{names: make(map[string]struct{}, len(values))}
	for _, v := range values {
		m.names[v.Name()] = struct{}{}
	}
	return m
}

// Matches reports whether name is selected.
func (m Matcher) Matches(name string) bool {
	_, ok := m.names[name]
	if m.only {
		return ok
	}
	return !ok
}

// IsAny reports whether the matcher places no restriction.
func (m Matcher) IsAny() bool {
	return !m.only && len(m.names) == 0
}

// explicit returns the listed names of an Is matcher. Used to validate
// definitions against the declared state set.
func (m Matcher) explicit() []string {
	out := make([]string, 0, len(m.names))
	for name := range m.names {
		out = append(out, name)
	}
	return out
}

// filter returns the subset of names the matcher selects, keeping order.
func (m Matcher) filter(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if m.Matches(n) {
			out = append(out, n)
		}
	}
	return out
}
