package mongo

import (
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/docstate/pkg/document"
)

var operators = map[document.Operator]string{
	document.OpIn:    "$in",
	document.OpNotIn: "$nin",
}

// Filter translates a predicate into a query filter. A single condition
// becomes {attr: {$in: [...]}}; several conditions are combined with $and.
func Filter(pred document.Predicate) (bson.D, error) {
	clauses := make(bson.A, 0, len(pred))
	for _, c := range pred {
		op, ok := operators[c.Op]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperator, c.Op)
		}
		values := c.Values
		if values == nil {
			values = []string{}
		}
		clauses = append(clauses, bson.D{{Key: c.Attribute, Value: bson.D{{Key: op, Value: values}}}})
	}

	switch len(clauses) {
	case 0:
		return bson.D{}, nil
	case 1:
		return clauses[0].(bson.D), nil
	default:
		return bson.D{{Key: "$and", Value: clauses}}, nil
	}
}
