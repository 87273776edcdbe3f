// Package docstate binds statemachine machines to document schemas.
//
// Bind wires each machine into the document lifecycle:
//
//   - new documents get the static initial state before attributes are
//     assigned and the dynamic initial state after;
//   - the event attribute (e.g. "state_event") becomes a transient field
//     through which callers request an event;
//   - validators report unknown events as "is invalid" on the event
//     attribute and undeclared values on the state attribute;
//   - machines with the validate action fire their pending event before
//     validation, machines with the save action fire it around the store
//     write so a failed write rolls the state back.
//
// Rejected or halted events add an error such as
// `cannot transition via "<event>" from "<state>"` to the state attribute
// and make Valid or Save return false. Errors returned by guards and hooks
// abort the operation and are returned wrapped in *statemachine.HookError.
//
// # Usage
//
//	vehicles := document.NewSchema("vehicles", document.WithStore(store))
//	fleet := docstate.MustBind(vehicles, []*statemachine.Machine{stateMachine})
//
//	doc, err := document.New(ctx, vehicles, nil) // state == "parked"
//	if err != nil {
//		return err
//	}
//	if err := fleet.FireStrict(ctx, doc, "state", "ignite"); err != nil {
//		return err
//	}
//
//	idle, err := fleet.FindWithStates(ctx, "state", "idling")
//
// # Change tracking
//
// Every executed transition shows up in Document.Changed for the state
// attribute, loopbacks included. DirtyEmulated records a synthetic change;
// DirtyNative marks the attribute with Document.WillChange. Assigning an
// event in emulated mode records a (current, current) change right away.
package docstate
