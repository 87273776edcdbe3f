package document

import "errors"

var (
	ErrNotFound     = errors.New("document not found")
	ErrNotPersisted = errors.New("document has not been persisted")
	ErrNoStore      = errors.New("schema has no store")
	ErrDuplicateID  = errors.New("document id already exists")
	ErrNilSchema    = errors.New("document schema is nil")
)
