package validator

import (
	"slices"
	"strings"
)

// ValidState checks that an attribute holds one of the declared stored state values.
func ValidState(field, value string, states []string) Rule {
	return Rule{
		Check: func() bool {
			return slices.Contains(states, value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "is invalid",
			TranslationKey: "validation.valid_state",
			TranslationValues: map[string]any{
				"field":  field,
				"value":  value,
				"states": strings.Join(states, ", "),
			},
		},
	}
}

// ValidEvent checks that a requested event name is known. An empty value
// means no event was requested and always passes.
func ValidEvent(field, value string, events []string) Rule {
	return Rule{
		Check: func() bool {
			return value == "" || slices.Contains(events, value)
		},
		Error: ValidationError{
			Field:          field,
			Message:        "is invalid",
			TranslationKey: "validation.valid_event",
			TranslationValues: map[string]any{
				"field":  field,
				"value":  value,
				"events": strings.Join(events, ", "),
			},
		},
	}
}
