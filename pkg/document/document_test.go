package document_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/docstate/pkg/document"
	"github.com/dmitrymomot/docstate/pkg/validator"
)

func TestNew(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var order []string
	schema := document.NewSchema("vehicles", document.WithDefault("wheels", 4))
	schema.OnInit(func(doc *document.Document) {
		order = append(order, "init")
		assert.Equal(t, 4, doc.Read("wheels"))
		assert.Nil(t, doc.Read("name"))
	})
	schema.OnAssign(func(_ *document.Document, attribute string, _ any) {
		order = append(order, "assign:"+attribute)
	})
	schema.AfterInitialize(func(_ context.Context, doc *document.Document) error {
		order = append(order, "after")
		assert.Equal(t, "Herbie", doc.Read("name"))
		return nil
	})

	doc, err := document.New(ctx, schema, map[string]any{"name": "Herbie", "color": "white"})
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID())
	assert.True(t, doc.IsNewRecord())
	assert.Same(t, schema, doc.Schema())
	assert.Equal(t, []string{"init", "assign:color", "assign:name", "after"}, order)
	assert.Equal(t, map[string]any{"wheels": 4, "name": "Herbie", "color": "white"}, doc.Fields())

	t.Run("nil schema", func(t *testing.T) {
		t.Parallel()
		_, err := document.New(ctx, nil, nil)
		assert.ErrorIs(t, err, document.ErrNilSchema)
	})

	t.Run("after initialize error", func(t *testing.T) {
		t.Parallel()
		s := document.NewSchema("vehicles")
		s.AfterInitialize(func(context.Context, *document.Document) error { return assert.AnError })
		_, err := document.New(ctx, s, nil)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestDocument_DirtyTracking(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	schema := document.NewSchema("vehicles",
		document.WithStore(document.NewMemoryStore()),
		document.WithTransient("state_event"),
	)

	doc, err := document.New(ctx, schema, map[string]any{"state": "parked"})
	require.NoError(t, err)
	assert.True(t, doc.Changed("state"))

	ok, err := doc.Save(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, doc.IsNewRecord())
	assert.False(t, doc.HasChanges())

	doc.Set("state_event", "ignite")
	assert.False(t, doc.HasChanges(), "transient attributes are not tracked")

	doc.ForceChange("state", "parked", "parked")
	assert.True(t, doc.Changed("state"))
	assert.False(t, doc.ValueChanged("state"))
	assert.Equal(t, map[string]document.Change{"state": {Old: "parked", New: "parked"}}, doc.Changes())

	ok, err = doc.Save(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, doc.Changed("state"))

	doc.WillChange("state")
	assert.True(t, doc.MarkedForChange("state"))
	assert.True(t, doc.Changed("state"))

	doc.Write("state", "idling")
	assert.True(t, doc.ValueChanged("state"))
	assert.Equal(t, document.Change{Old: "parked", New: "idling"}, doc.Changes()["state"])

	stored, err := schema.Find(ctx, doc.ID())
	require.NoError(t, err)
	assert.Equal(t, "parked", stored.Read("state"))
	assert.Nil(t, stored.Read("state_event"))
}

func TestDocument_Valid(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	schema := document.NewSchema("vehicles")
	schema.BeforeValidation(func(_ context.Context, doc *document.Document) error {
		doc.AddError("state", "cannot transition via \"ignite\"")
		return nil
	})
	schema.Validate(func(_ context.Context, doc *document.Document) error {
		color, _ := doc.Read("color").(string)
		return validator.Apply(validator.ValidState("color", color, []string{"red", "white"}))
	})

	doc, err := document.New(ctx, schema, nil)
	require.NoError(t, err)

	ok, err := doc.Valid(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, len(doc.Errors()))
	assert.Equal(t, []string{`State cannot transition via "ignite"`}, doc.Errors().FullMessagesFor("state"))

	// errors do not accumulate between runs
	ok, err = doc.Valid(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, len(doc.Errors()))

	t.Run("unexpected validator error aborts", func(t *testing.T) {
		t.Parallel()
		s := document.NewSchema("vehicles")
		s.Validate(func(context.Context, *document.Document) error { return assert.AnError })
		d, err := document.New(ctx, s, nil)
		require.NoError(t, err)
		_, err = d.Valid(ctx)
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestDocument_SaveChain(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("around callbacks wrap persist in order", func(t *testing.T) {
		t.Parallel()
		var order []string
		store := document.NewMemoryStore()
		schema := document.NewSchema("vehicles", document.WithStore(store))
		wrap := func(name string) document.AroundFunc {
			return func(ctx context.Context, doc *document.Document, next document.PersistFunc) (bool, error) {
				order = append(order, name+":before")
				ok, err := next(ctx)
				order = append(order, name+":after")
				return ok, err
			}
		}
		schema.AroundSave(wrap("second"))
		schema.PrependAroundSave(wrap("first"))
		schema.AfterSave(func(_ context.Context, doc *document.Document) error {
			order = append(order, "after_save")
			assert.False(t, doc.IsNewRecord())
			return nil
		})

		doc, err := document.New(ctx, schema, map[string]any{"state": "parked"})
		require.NoError(t, err)
		ok, err := doc.Save(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []string{"first:before", "second:before", "second:after", "first:after", "after_save"}, order)

		recs, err := store.Find(ctx, "vehicles", nil)
		require.NoError(t, err)
		assert.Len(t, recs, 1)
	})

	t.Run("aborted chain skips persist", func(t *testing.T) {
		t.Parallel()
		store := document.NewMemoryStore()
		schema := document.NewSchema("vehicles", document.WithStore(store))
		schema.AroundSave(func(context.Context, *document.Document, document.PersistFunc) (bool, error) {
			return false, nil
		})

		doc, err := document.New(ctx, schema, nil)
		require.NoError(t, err)
		ok, err := doc.Save(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, doc.IsNewRecord())
	})

	t.Run("invalid document is not saved", func(t *testing.T) {
		t.Parallel()
		schema := document.NewSchema("vehicles", document.WithStore(document.NewMemoryStore()))
		schema.Validate(func(context.Context, *document.Document) error {
			return validator.ValidationErrors{{Field: "state", Message: "is invalid"}}
		})

		doc, err := document.New(ctx, schema, nil)
		require.NoError(t, err)
		ok, err := doc.Save(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.True(t, doc.Errors().Has("state"))
	})

	t.Run("store error propagates", func(t *testing.T) {
		t.Parallel()
		doc, err := document.New(ctx, document.NewSchema("vehicles", document.WithStore(failingStore{})), nil)
		require.NoError(t, err)
		_, err = doc.Save(ctx)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("no store", func(t *testing.T) {
		t.Parallel()
		doc, err := document.New(ctx, document.NewSchema("vehicles"), nil)
		require.NoError(t, err)
		_, err = doc.Save(ctx)
		assert.ErrorIs(t, err, document.ErrNoStore)
		assert.ErrorIs(t, doc.Reload(ctx), document.ErrNoStore)
	})
}

func TestDocument_Reload(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	schema := document.NewSchema("vehicles", document.WithStore(document.NewMemoryStore()))

	doc, err := document.New(ctx, schema, map[string]any{"state": "parked"})
	require.NoError(t, err)
	assert.ErrorIs(t, doc.Reload(ctx), document.ErrNotPersisted)

	_, err = doc.Save(ctx)
	require.NoError(t, err)

	doc.Write("state", "idling")
	doc.AddError("state", "is invalid")
	doc.ForceChange("state", "parked", "idling")

	require.NoError(t, doc.Reload(ctx))
	assert.Equal(t, "parked", doc.Read("state"))
	assert.False(t, doc.HasChanges())
	assert.True(t, doc.Errors().IsEmpty())
}

func TestSchema_Where(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	schema := document.NewSchema("vehicles", document.WithStore(document.NewMemoryStore()))

	for _, state := range []string{"parked", "idling", "stalled"} {
		doc, err := document.New(ctx, schema, map[string]any{"state": state})
		require.NoError(t, err)
		_, err = doc.Save(ctx)
		require.NoError(t, err)
	}

	docs, err := schema.Where(ctx, document.In("state", "parked", "stalled"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "parked", docs[0].Read("state"))
	assert.Equal(t, "stalled", docs[1].Read("state"))
	assert.False(t, docs[0].IsNewRecord())
	assert.False(t, docs[0].HasChanges())

	_, err = schema.Find(ctx, "missing")
	assert.True(t, errors.Is(err, document.ErrNotFound))

	_, err = document.NewSchema("vehicles").Where(ctx, nil)
	assert.ErrorIs(t, err, document.ErrNoStore)
}

type failingStore struct{}

func (failingStore) Insert(context.Context, string, document.Record) error { return assert.AnError }

func (failingStore) Update(context.Context, string, document.Record) error { return assert.AnError }

func (failingStore) Load(context.Context, string, string) (document.Record, error) {
	return document.Record{}, assert.AnError
}

func (failingStore) Find(context.Context, string, document.Predicate) ([]document.Record, error) {
	return nil, assert.AnError
}
