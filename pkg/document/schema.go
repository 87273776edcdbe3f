package document

import (
	"context"
	"fmt"
	"slices"
)

// Callback runs at a lifecycle point of a document.
type Callback func(ctx context.Context, doc *Document) error

// InitFunc runs while a new document is being built.
type InitFunc func(doc *Document)

// AssignHook runs after Set wrote value to attribute.
type AssignHook func(doc *Document, attribute string, value any)

// ValidateFunc reports validation failures. A validator.ValidationErrors
// result is merged into the document errors; any other error aborts validation.
type ValidateFunc func(ctx context.Context, doc *Document) error

// PersistFunc is the remainder of the save chain.
type PersistFunc func(ctx context.Context) (bool, error)

// AroundFunc wraps the persist step. It must call next to continue the
// chain and may return false to abort the save.
type AroundFunc func(ctx context.Context, doc *Document, next PersistFunc) (bool, error)

// Schema describes a document kind: its collection, persistence and
// lifecycle callbacks. Register callbacks before creating documents;
// a Schema is not safe for concurrent registration.
type Schema struct {
	collection string
	store      Store
	transient  map[string]bool
	defaults   map[string]any

	onInit           []InitFunc
	afterInitialize  []Callback
	onAssign         []AssignHook
	beforeValidation []Callback
	validators       []ValidateFunc
	aroundSave       []AroundFunc
	afterSave        []Callback
}

// SchemaOption configures a Schema.
type SchemaOption func(*Schema)

// WithStore sets the backing store. Without it Save and Reload fail with ErrNoStore.
func WithStore(store Store) SchemaOption {
	return func(s *Schema) {
		s.store = store
	}
}

// WithTransient marks attributes that are never persisted or reported as changed.
func WithTransient(attributes ...string) SchemaOption {
	return func(s *Schema) {
		for _, a := range attributes {
			s.transient[a] = true
		}
	}
}

// WithDefault sets a value applied to new documents before any attribute assignment.
func WithDefault(attribute string, value any) SchemaOption {
	return func(s *Schema) {
		s.defaults[attribute] = value
	}
}

// NewSchema creates a schema for the named collection.
func NewSchema(collection string, opts ...SchemaOption) *Schema {
	s := &Schema{
		collection: collection,
		transient:  make(map[string]bool),
		defaults:   make(map[string]any),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Collection returns the collection name.
func (s *Schema) Collection() string { return s.collection }

// Store returns the backing store, possibly nil.
func (s *Schema) Store() Store { return s.store }

// Transient marks attributes as never persisted.
func (s *Schema) Transient(attributes ...string) {
	for _, a := range attributes {
		s.transient[a] = true
	}
}

// IsTransient reports whether attribute is excluded from persistence.
func (s *Schema) IsTransient(attribute string) bool { return s.transient[attribute] }

// OnInit registers fn to run on new documents after defaults are applied
// and before user attributes are assigned.
func (s *Schema) OnInit(fn InitFunc) { s.onInit = append(s.onInit, fn) }

// AfterInitialize registers cb to run once user attributes are assigned.
func (s *Schema) AfterInitialize(cb Callback) {
	s.afterInitialize = append(s.afterInitialize, cb)
}

// OnAssign registers a hook run by Set.
func (s *Schema) OnAssign(hook AssignHook) { s.onAssign = append(s.onAssign, hook) }

// BeforeValidation registers cb to run at the start of Valid.
func (s *Schema) BeforeValidation(cb Callback) {
	s.beforeValidation = append(s.beforeValidation, cb)
}

// Validate registers a validator.
func (s *Schema) Validate(fn ValidateFunc) { s.validators = append(s.validators, fn) }

// AroundSave appends fn to the save chain.
func (s *Schema) AroundSave(fn AroundFunc) { s.aroundSave = append(s.aroundSave, fn) }

// PrependAroundSave makes fn the outermost link of the save chain.
func (s *Schema) PrependAroundSave(fn AroundFunc) {
	s.aroundSave = slices.Insert(s.aroundSave, 0, fn)
}

// AfterSave registers cb to run after a successful save.
func (s *Schema) AfterSave(cb Callback) { s.afterSave = append(s.afterSave, cb) }

// Find loads a persisted document by id.
func (s *Schema) Find(ctx context.Context, id string) (*Document, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	rec, err := s.store.Load(ctx, s.collection, id)
	if err != nil {
		return nil, err
	}
	return s.load(rec), nil
}

// Where loads every persisted document matching pred.
func (s *Schema) Where(ctx context.Context, pred Predicate) ([]*Document, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	recs, err := s.store.Find(ctx, s.collection, pred)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", s.collection, err)
	}
	docs := make([]*Document, 0, len(recs))
	for _, rec := range recs {
		docs = append(docs, s.load(rec))
	}
	return docs, nil
}

func (s *Schema) load(rec Record) *Document {
	d := newDocument(s, rec.ID, false)
	for k, v := range rec.Fields {
		d.fields[k] = v
	}
	d.snapshot()
	return d
}
