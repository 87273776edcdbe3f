package validator

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HumanizeField turns an attribute name such as "state_event" into "State event".
func HumanizeField(field string) string {
	words := strings.Fields(strings.ReplaceAll(field, "_", " "))
	if len(words) == 0 {
		return ""
	}
	// Caser is stateful and must not be shared between goroutines
	words[0] = cases.Title(language.English).String(words[0])
	return strings.Join(words, " ")
}

// FullMessages returns every error prefixed with its humanized field,
// e.g. `State cannot transition via "ignite"`.
func (ve ValidationErrors) FullMessages() []string {
	out := make([]string, 0, len(ve))
	for _, err := range ve {
		field := HumanizeField(err.Field)
		if field == "" {
			out = append(out, err.Message)
			continue
		}
		out = append(out, field+" "+err.Message)
	}
	return out
}

// FullMessagesFor returns the full messages of a single field.
func (ve ValidationErrors) FullMessagesFor(field string) []string {
	return ve.GetErrors(field).FullMessages()
}
