package mongo

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/dmitrymomot/docstate/pkg/document"
)

const idField = "_id"

// Store implements document.Store on top of a database. Each document
// collection maps to a collection of the same name.
type Store struct {
	db *mongo.Database
}

// NewStore wraps db.
func NewStore(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Open connects with cfg and returns a store on cfg.Database.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	db, err := NewWithDatabase(ctx, cfg, "")
	if err != nil {
		return nil, err
	}
	return NewStore(db), nil
}

func (s *Store) Insert(ctx context.Context, collection string, rec document.Record) error {
	_, err := s.db.Collection(collection).InsertOne(ctx, toBSON(rec))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", document.ErrDuplicateID, rec.ID)
	}
	return err
}

func (s *Store) Update(ctx context.Context, collection string, rec document.Record) error {
	res, err := s.db.Collection(collection).ReplaceOne(ctx, bson.D{{Key: idField, Value: rec.ID}}, toBSON(rec))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", document.ErrNotFound, rec.ID)
	}
	return nil
}

func (s *Store) Load(ctx context.Context, collection, id string) (document.Record, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.D{{Key: idField, Value: id}}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return document.Record{}, fmt.Errorf("%w: %s", document.ErrNotFound, id)
	}
	if err != nil {
		return document.Record{}, err
	}
	return fromBSON(raw), nil
}

func (s *Store) Find(ctx context.Context, collection string, pred document.Predicate) ([]document.Record, error) {
	filter, err := Filter(pred)
	if err != nil {
		return nil, err
	}
	cur, err := s.db.Collection(collection).Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var raws []bson.M
	if err := cur.All(ctx, &raws); err != nil {
		return nil, err
	}
	out := make([]document.Record, 0, len(raws))
	for _, raw := range raws {
		out = append(out, fromBSON(raw))
	}
	return out, nil
}

func toBSON(rec document.Record) bson.M {
	m := make(bson.M, len(rec.Fields)+1)
	maps.Copy(m, rec.Fields)
	m[idField] = rec.ID
	return m
}

func fromBSON(raw bson.M) document.Record {
	id, _ := raw[idField].(string)
	fields := maps.Clone(map[string]any(raw))
	delete(fields, idField)
	return document.Record{ID: id, Fields: fields}
}
