package docstate

import "errors"

var (
	ErrNilSchema        = errors.New("docstate: schema is nil")
	ErrNoMachines       = errors.New("docstate: no machines to bind")
	ErrDuplicateMachine = errors.New("docstate: machine name or attribute bound twice")
	ErrUnknownMachine   = errors.New("docstate: unknown machine")
	ErrNotSaved         = errors.New("docstate: document was not saved")
)
