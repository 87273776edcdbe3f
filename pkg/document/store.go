package document

import "context"

// Record is the persisted form of a document.
type Record struct {
	ID     string
	Fields map[string]any
}

// Store persists records grouped by collection.
type Store interface {
	Insert(ctx context.Context, collection string, rec Record) error
	Update(ctx context.Context, collection string, rec Record) error
	Load(ctx context.Context, collection, id string) (Record, error)
	Find(ctx context.Context, collection string, pred Predicate) ([]Record, error)
}
