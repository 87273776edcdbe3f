package document

import (
	"context"
	"fmt"
	"maps"
	"sync"
)

// MemoryStore is an in-process Store. It is safe for concurrent use and
// returns records in insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	order   []string
	records map[string]map[string]any
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryStore) collection(name string) *memoryCollection {
	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{records: make(map[string]map[string]any)}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Insert(ctx context.Context, collection string, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	if _, exists := c.records[rec.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
	}
	c.records[rec.ID] = maps.Clone(rec.Fields)
	c.order = append(c.order, rec.ID)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, collection string, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.collection(collection)
	if _, ok := c.records[rec.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, rec.ID)
	}
	c.records[rec.ID] = maps.Clone(rec.Fields)
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, collection, id string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	fields, ok := c.records[id]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return Record{ID: id, Fields: maps.Clone(fields)}, nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, pred Predicate) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return nil, nil
	}
	var out []Record
	for _, id := range c.order {
		fields := c.records[id]
		if pred.Matches(fields) {
			out = append(out, Record{ID: id, Fields: maps.Clone(fields)})
		}
	}
	return out, nil
}
