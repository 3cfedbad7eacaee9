package storage

import (
	"context"

	"github.com/poiesic/rankit/core"
)

// CorpusRepository provides operations for managing the stored corpus.
// Implementations must be thread-safe and support concurrent access.
type CorpusRepository interface {
	// AddDocuments stores raw documents, deduplicating by content hash.
	// New documents get the next insertion sequence numbers; documents
	// whose content is already stored are returned with their existing
	// sequence position. Returns one StoredDocument per input text, in
	// input order.
	AddDocuments(ctx context.Context, texts ...string) ([]*core.StoredDocument, error)

	// AllDocuments returns every stored document in insertion order.
	// This is the sequence an index build consumes.
	AllDocuments(ctx context.Context) ([]*core.StoredDocument, error)

	// CountDocuments returns the number of stored documents.
	CountDocuments(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}
