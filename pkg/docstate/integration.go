package docstate

import (
	"fmt"
	"log/slog"

	"github.com/dmitrymomot/docstate/pkg/document"
	"github.com/dmitrymomot/docstate/pkg/logger"
	"github.com/dmitrymomot/docstate/pkg/statemachine"
)

// DirtyTracking selects how transitions surface their writes to the
// document change set.
type DirtyTracking int

const (
	// DirtyEmulated force-records a change for every executed transition,
	// including loopbacks, unless the value already differs from the
	// persisted one.
	DirtyEmulated DirtyTracking = iota
	// DirtyNative marks the state attribute with Document.WillChange and
	// leaves the change set to the document.
	DirtyNative
)

// Integration binds state machines to a document schema. Build it once per
// schema with Bind; it is safe for concurrent use across documents.
type Integration struct {
	schema     *document.Schema
	machines   []*statemachine.Machine
	byName     map[string]*statemachine.Machine
	byEventKey map[string]*statemachine.Machine
	runner     *statemachine.Runner
	tracking   DirtyTracking
	logger     *slog.Logger
}

// Option configures an Integration.
type Option func(*Integration)

// WithDirtyTracking sets the change recording mode. Default is DirtyEmulated.
func WithDirtyTracking(mode DirtyTracking) Option {
	return func(in *Integration) {
		in.tracking = mode
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(in *Integration) {
		if l != nil {
			in.logger = l
		}
	}
}

// Bind registers machines on schema: initial states, event attributes,
// validators and the validate-time or save-time firing hook of each
// machine's action. Machines must have distinct names and attributes.
func Bind(schema *document.Schema, machines []*statemachine.Machine, opts ...Option) (*Integration, error) {
	if schema == nil {
		return nil, fmt.Errorf("%w: %w", statemachine.ErrInvalidDefinition, ErrNilSchema)
	}
	if len(machines) == 0 {
		return nil, fmt.Errorf("%w: %w", statemachine.ErrInvalidDefinition, ErrNoMachines)
	}

	in := &Integration{
		schema:     schema,
		byName:     make(map[string]*statemachine.Machine, len(machines)),
		byEventKey: make(map[string]*statemachine.Machine, len(machines)),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.logger = in.logger.With(logger.Component("docstate"), logger.Collection(schema.Collection()))

	attributes := make(map[string]bool, len(machines))
	for _, m := range machines {
		if m == nil {
			return nil, fmt.Errorf("%w: nil machine", statemachine.ErrInvalidDefinition)
		}
		if _, dup := in.byName[m.Name()]; dup || attributes[m.Attribute()] {
			return nil, fmt.Errorf("%w: %w: %q", statemachine.ErrInvalidDefinition, ErrDuplicateMachine, m.Name())
		}
		in.byName[m.Name()] = m
		in.byEventKey[m.EventAttribute()] = m
		attributes[m.Attribute()] = true
		in.machines = append(in.machines, m)
	}
	in.runner = statemachine.NewRunner(statemachine.WithChangeRecorder(changeRecorder{mode: in.tracking}))

	in.bind()
	return in, nil
}

// MustBind works like Bind but panics on error.
func MustBind(schema *document.Schema, machines []*statemachine.Machine, opts ...Option) *Integration {
	in, err := Bind(schema, machines, opts...)
	if err != nil {
		panic(err)
	}
	return in
}

// Schema returns the bound schema.
func (in *Integration) Schema() *document.Schema { return in.schema }

// Machines returns the bound machines in bind order.
func (in *Integration) Machines() []*statemachine.Machine {
	out := make([]*statemachine.Machine, len(in.machines))
	copy(out, in.machines)
	return out
}

// Machine returns the machine called name.
func (in *Integration) Machine(name string) (*statemachine.Machine, bool) {
	m, ok := in.byName[name]
	return m, ok
}

func (in *Integration) machine(name string) (*statemachine.Machine, error) {
	m, ok := in.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMachine, name)
	}
	return m, nil
}
