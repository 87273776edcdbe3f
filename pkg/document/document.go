package document

import (
	"context"
	"maps"
	"reflect"
	"slices"

	"github.com/google/uuid"

	"github.com/dmitrymomot/docstate/pkg/validator"
)

// Change holds the old and new value of an attribute.
type Change struct {
	Old any
	New any
}

// Document is a schemaless record with dirty tracking, validation and a
// wrappable save. It is not safe for concurrent use.
type Document struct {
	id        string
	schema    *Schema
	fields    map[string]any
	original  map[string]any
	forced    map[string]Change
	marked    map[string]bool
	errors    validator.ValidationErrors
	newRecord bool
}

func newDocument(schema *Schema, id string, newRecord bool) *Document {
	return &Document{
		id:        id,
		schema:    schema,
		fields:    make(map[string]any),
		original:  make(map[string]any),
		forced:    make(map[string]Change),
		marked:    make(map[string]bool),
		newRecord: newRecord,
	}
}

// New builds an unsaved document. Schema defaults and init hooks run first,
// then attrs are assigned through Set in key order, then AfterInitialize
// callbacks run.
func New(ctx context.Context, schema *Schema, attrs map[string]any) (*Document, error) {
	if schema == nil {
		return nil, ErrNilSchema
	}
	d := newDocument(schema, uuid.NewString(), true)
	maps.Copy(d.fields, schema.defaults)
	for _, fn := range schema.onInit {
		fn(d)
	}
	d.Assign(attrs)
	for _, cb := range schema.afterInitialize {
		if err := cb(ctx, d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Document) ID() string { return d.id }

func (d *Document) Schema() *Schema { return d.schema }

// IsNewRecord reports whether the document was never persisted.
func (d *Document) IsNewRecord() bool { return d.newRecord }

// Read returns the raw attribute value, nil when unset.
func (d *Document) Read(attribute string) any { return d.fields[attribute] }

// Write stores value without running assignment hooks.
func (d *Document) Write(attribute string, value any) {
	if value == nil {
		delete(d.fields, attribute)
		return
	}
	d.fields[attribute] = value
}

// Set writes value and runs the schema assignment hooks.
func (d *Document) Set(attribute string, value any) {
	d.Write(attribute, value)
	for _, hook := range d.schema.onAssign {
		hook(d, attribute, value)
	}
}

// Assign sets every attribute of attrs in key order.
func (d *Document) Assign(attrs map[string]any) {
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		d.Set(k, attrs[k])
	}
}

// Fields returns a copy of the current attributes.
func (d *Document) Fields() map[string]any { return maps.Clone(d.fields) }

// AddError attaches a validation message to attribute.
func (d *Document) AddError(attribute, message string) {
	d.errors.Add(validator.ValidationError{
		Field:          attribute,
		Message:        message,
		TranslationKey: "validation." + attribute,
		TranslationValues: map[string]any{
			"field": attribute,
		},
	})
}

// Errors returns the errors collected by the last validation or firing.
func (d *Document) Errors() validator.ValidationErrors { return d.errors }

// ValueChanged reports whether attribute differs from its last persisted value.
func (d *Document) ValueChanged(attribute string) bool {
	return !reflect.DeepEqual(d.original[attribute], d.fields[attribute])
}

// Changed reports whether attribute differs from its persisted value, was
// marked with WillChange or carries a forced change.
func (d *Document) Changed(attribute string) bool {
	if _, ok := d.forced[attribute]; ok {
		return true
	}
	return d.marked[attribute] || d.ValueChanged(attribute)
}

// ForceChange records a change for attribute even when old equals new.
func (d *Document) ForceChange(attribute string, old, new any) {
	d.forced[attribute] = Change{Old: old, New: new}
}

// WillChange marks attribute as changed, mirroring a native dirty flag.
func (d *Document) WillChange(attribute string) { d.marked[attribute] = true }

// MarkedForChange reports whether WillChange was called since the last save.
func (d *Document) MarkedForChange(attribute string) bool { return d.marked[attribute] }

// Changes returns every changed persistent attribute. A forced change is
// reported as recorded unless the value itself differs from the persisted one.
func (d *Document) Changes() map[string]Change {
	out := make(map[string]Change)
	for _, attr := range d.changedAttributes() {
		if c, ok := d.forced[attr]; ok && !d.ValueChanged(attr) {
			out[attr] = c
			continue
		}
		out[attr] = Change{Old: d.original[attr], New: d.fields[attr]}
	}
	return out
}

// HasChanges reports whether any persistent attribute changed.
func (d *Document) HasChanges() bool { return len(d.changedAttributes()) > 0 }

func (d *Document) changedAttributes() []string {
	keys := make(map[string]struct{})
	for k := range d.fields {
		keys[k] = struct{}{}
	}
	for k := range d.original {
		keys[k] = struct{}{}
	}
	for k := range d.forced {
		keys[k] = struct{}{}
	}
	for k := range d.marked {
		keys[k] = struct{}{}
	}
	var out []string
	for _, k := range slices.Sorted(maps.Keys(keys)) {
		if !d.schema.IsTransient(k) && d.Changed(k) {
			out = append(out, k)
		}
	}
	return out
}

// Valid clears the errors, runs BeforeValidation callbacks and the
// validators. It returns false when any validation error was collected.
func (d *Document) Valid(ctx context.Context) (bool, error) {
	d.errors = nil
	for _, cb := range d.schema.beforeValidation {
		if err := cb(ctx, d); err != nil {
			return false, err
		}
	}
	for _, fn := range d.schema.validators {
		err := fn(ctx, d)
		if err == nil {
			continue
		}
		verrs := validator.ExtractValidationErrors(err)
		if verrs == nil {
			return false, err
		}
		d.errors = append(d.errors, verrs...)
	}
	return d.errors.IsEmpty(), nil
}

// Save validates the document and runs the AroundSave chain around the
// store write. It returns false when validation fails or a link of the
// chain aborts.
func (d *Document) Save(ctx context.Context) (bool, error) {
	if d.schema.store == nil {
		return false, ErrNoStore
	}
	ok, err := d.Valid(ctx)
	if err != nil || !ok {
		return false, err
	}

	run := PersistFunc(d.persist)
	for i := len(d.schema.aroundSave) - 1; i >= 0; i-- {
		fn, next := d.schema.aroundSave[i], run
		run = func(ctx context.Context) (bool, error) {
			return fn(ctx, d, next)
		}
	}
	ok, err = run(ctx)
	if err != nil || !ok {
		return false, err
	}

	for _, cb := range d.schema.afterSave {
		if err := cb(ctx, d); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (d *Document) persist(ctx context.Context) (bool, error) {
	if !d.newRecord && !d.HasChanges() {
		return true, nil
	}
	rec := Record{ID: d.id, Fields: d.persistable()}
	if d.newRecord {
		if err := d.schema.store.Insert(ctx, d.schema.collection, rec); err != nil {
			return false, err
		}
		d.newRecord = false
	} else if err := d.schema.store.Update(ctx, d.schema.collection, rec); err != nil {
		return false, err
	}
	d.snapshot()
	return true, nil
}

func (d *Document) persistable() map[string]any {
	out := make(map[string]any, len(d.fields))
	for k, v := range d.fields {
		if !d.schema.IsTransient(k) {
			out[k] = v
		}
	}
	return out
}

// Reload replaces the attributes with the persisted ones and drops every
// change and error.
func (d *Document) Reload(ctx context.Context) error {
	if d.schema.store == nil {
		return ErrNoStore
	}
	if d.newRecord {
		return ErrNotPersisted
	}
	rec, err := d.schema.store.Load(ctx, d.schema.collection, d.id)
	if err != nil {
		return err
	}
	d.fields = maps.Clone(rec.Fields)
	if d.fields == nil {
		d.fields = make(map[string]any)
	}
	d.errors = nil
	d.snapshot()
	return nil
}

func (d *Document) snapshot() {
	d.original = maps.Clone(d.fields)
	clear(d.forced)
	clear(d.marked)
}
