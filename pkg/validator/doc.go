// Package validator collects field-level validation failures.
//
// A Rule pairs a Check function with the ValidationError reported when the
// check fails. Apply evaluates rules and returns the failures as
// ValidationErrors, which implements error and can be recovered with
// ExtractValidationErrors or errors.As.
//
// ValidState and ValidEvent are the rules used by state machine
// integrations; both report "is invalid" on the offending attribute.
//
//	err := validator.Apply(
//		validator.ValidState("state", "parked", []string{"parked", "idling"}),
//		validator.ValidEvent("state_event", "fly", []string{"ignite", "park"}),
//	)
//	for _, msg := range validator.ExtractValidationErrors(err).FullMessages() {
//		fmt.Println(msg) // State event is invalid
//	}
//
// FullMessages prefixes each message with the humanized field name, so
// "state_event" becomes "State event".
package validator
