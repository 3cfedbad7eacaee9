package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/rankit/core"
	"github.com/poiesic/rankit/storage"
)

// CorpusRepository implements storage.CorpusRepository for BadgerDB.
type CorpusRepository struct {
	backend *Backend
	seq     *badger.Sequence
}

var _ storage.CorpusRepository = (*CorpusRepository)(nil)

// NewCorpusRepository creates a new CorpusRepository.
func NewCorpusRepository(backend *Backend) (*CorpusRepository, error) {
	if backend == nil {
		return nil, storage.ErrBackendRequired
	}
	seq, err := backend.GetSequence(corpusSeqName)
	if err != nil {
		return nil, err
	}

	return &CorpusRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// Close releases the insertion sequence.
func (r *CorpusRepository) Close() error {
	return r.seq.Release()
}

// AddDocuments stores raw documents, deduplicating by content hash.
func (r *CorpusRepository) AddDocuments(ctx context.Context, texts ...string) ([]*core.StoredDocument, error) {
	docs := make([]*core.StoredDocument, len(texts))

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for i, text := range texts {
			id := core.IDFromContent(text)
			key := makeDocumentKey(id)

			// Already stored: return the existing record and keep its
			// insertion position.
			existing, err := r.readDocument(tx, key)
			if err != nil {
				return err
			}
			if existing != nil {
				docs[i] = existing
				continue
			}

			seq, err := r.nextSeq()
			if err != nil {
				return err
			}

			doc := &core.StoredDocument{
				Id:       id,
				Seq:      seq,
				Contents: text,
			}
			if err := tx.Set(key, storage.MarshalStoredDocument(doc)); err != nil {
				return err
			}
			// Insertion-order index maps sequence position to content ID.
			if err := tx.Set(makeSeqKey(seq), storage.MarshalID(id)); err != nil {
				return err
			}
			docs[i] = doc
		}
		return tx.Commit()
	}, true)

	if err != nil {
		return nil, err
	}
	return docs, nil
}

// AllDocuments returns every stored document in insertion order.
func (r *CorpusRepository) AllDocuments(ctx context.Context) ([]*core.StoredDocument, error) {
	var docs []*core.StoredDocument

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(corpusSeqPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Sequence keys are big-endian, so badger's lexicographic
		// iteration yields insertion order.
		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			doc, err := r.readDocument(tx, makeDocumentKey(id))
			if err != nil {
				return err
			}
			if doc == nil {
				return storage.ErrNotFound
			}
			docs = append(docs, doc)
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return docs, nil
}

// CountDocuments returns the number of stored documents.
func (r *CorpusRepository) CountDocuments(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(corpusSeqPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)

	if err != nil {
		return 0, err
	}
	return count, nil
}

// readDocument fetches and unmarshals one document, or nil if absent.
func (r *CorpusRepository) readDocument(tx *badger.Txn, key []byte) (*core.StoredDocument, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc *core.StoredDocument
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalStoredDocument(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// nextSeq returns the next insertion sequence number.
// BadgerDB sequences can return 0 on first call, so we skip it.
func (r *CorpusRepository) nextSeq() (uint64, error) {
	seq, err := r.seq.Next()
	if err != nil {
		return 0, err
	}
	if seq == 0 {
		seq, err = r.seq.Next()
		if err != nil {
			return 0, err
		}
	}
	return seq, nil
}
