package document

import (
	"fmt"
	"slices"
)

// Operator is a membership operator understood by every Store.
type Operator string

const (
	OpIn    Operator = "in"
	OpNotIn Operator = "not_in"
)

// Condition restricts one attribute to (or away from) a set of stored values.
type Condition struct {
	Attribute string
	Op        Operator
	Values    []string
}

// Predicate is a conjunction of conditions. The empty predicate matches
// every document.
type Predicate []Condition

// In matches documents whose attribute holds one of values.
func In(attribute string, values ...string) Predicate {
	return Predicate{{Attribute: attribute, Op: OpIn, Values: values}}
}

// NotIn matches documents whose attribute holds none of values.
func NotIn(attribute string, values ...string) Predicate {
	return Predicate{{Attribute: attribute, Op: OpNotIn, Values: values}}
}

// And returns a predicate requiring both p and q.
func (p Predicate) And(q Predicate) Predicate {
	out := make(Predicate, 0, len(p)+len(q))
	out = append(out, p...)
	return append(out, q...)
}

// Matches evaluates the predicate against raw document fields.
// A missing attribute never satisfies OpIn and always satisfies OpNotIn.
func (p Predicate) Matches(fields map[string]any) bool {
	for _, c := range p {
		v, ok := fields[c.Attribute]
		var s string
		if ok && v != nil {
			s = fmt.Sprint(v)
		}
		in := ok && v != nil && slices.Contains(c.Values, s)
		switch c.Op {
		case OpIn:
			if !in {
				return false
			}
		case OpNotIn:
			if in {
				return false
			}
		default:
			return false
		}
	}
	return true
}
