package logger

import (
	"context"
	"log/slog"
)

type documentIDKey struct{}

// WithDocumentID stores the id of the document being processed in ctx.
func WithDocumentID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, documentIDKey{}, id)
}

// DocumentIDFromContext returns the id stored by WithDocumentID.
func DocumentIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(documentIDKey{}).(string)
	return id, ok && id != ""
}

// DocumentIDExtractor adds "document_id" to every record logged with a
// context carrying WithDocumentID.
func DocumentIDExtractor() ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := DocumentIDFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return DocumentID(id), true
	}
}
