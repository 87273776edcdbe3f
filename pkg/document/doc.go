// Package document provides a small schemaless document model with the
// lifecycle hooks a persistence integration needs.
//
// A Schema names a collection, holds the backing Store and collects
// callbacks: defaults and init hooks for new documents, assignment hooks,
// before-validation callbacks, validators, an around-save chain and
// after-save callbacks. A Document keeps its attributes in a map and tracks
// changes against the last persisted snapshot.
//
// # Dirty tracking
//
// Changed reports an attribute as modified when its value differs from the
// persisted one, when WillChange marked it, or when ForceChange recorded a
// synthetic change. ValueChanged only looks at values. Transient attributes
// are never persisted and never appear in Changes.
//
// # Usage
//
//	schema := document.NewSchema("vehicles", document.WithStore(document.NewMemoryStore()))
//	doc, err := document.New(ctx, schema, map[string]any{"name": "Herbie"})
//	if err != nil {
//		return err
//	}
//	ok, err := doc.Save(ctx)
//	if err != nil {
//		return err
//	}
//	if !ok {
//		fmt.Println(doc.Errors().FullMessages())
//	}
//
// # Queries
//
// Predicates are conjunctions of In / NotIn conditions on stored values.
// MemoryStore evaluates them in process; the mongo package translates them to
// $in / $nin filters.
package document
