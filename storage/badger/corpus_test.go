package badger

import (
	"context"
	"testing"

	"github.com/poiesic/rankit/core"
	"github.com/poiesic/rankit/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCorpus(t *testing.T) storage.CorpusRepository {
	t.Helper()
	repo, backend, err := NewMemoryCorpus()
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestNewCorpusRepository(t *testing.T) {
	t.Run("nil backend", func(t *testing.T) {
		_, err := NewCorpusRepository(nil)
		assert.Equal(t, storage.ErrBackendRequired, err)
	})
}

func TestAddDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns insertion order", func(t *testing.T) {
		repo := newTestCorpus(t)

		docs, err := repo.AddDocuments(ctx, "first", "second", "third")
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Less(t, docs[0].Seq, docs[1].Seq)
		assert.Less(t, docs[1].Seq, docs[2].Seq)
		for i, text := range []string{"first", "second", "third"} {
			assert.Equal(t, text, docs[i].Contents)
			assert.Equal(t, core.IDFromContent(text), docs[i].Id)
		}
	})

	t.Run("deduplicates by content", func(t *testing.T) {
		repo := newTestCorpus(t)

		first, err := repo.AddDocuments(ctx, "the cat sat")
		require.NoError(t, err)
		again, err := repo.AddDocuments(ctx, "the cat sat")
		require.NoError(t, err)

		assert.Equal(t, first[0], again[0])

		count, err := repo.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("deduplicates within one batch", func(t *testing.T) {
		repo := newTestCorpus(t)

		docs, err := repo.AddDocuments(ctx, "same text", "same text")
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, docs[0], docs[1])

		count, err := repo.CountDocuments(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("no documents is a no-op", func(t *testing.T) {
		repo := newTestCorpus(t)

		docs, err := repo.AddDocuments(ctx)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestAllDocuments(t *testing.T) {
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		repo := newTestCorpus(t)

		docs, err := repo.AllDocuments(ctx)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("returns insertion order across batches", func(t *testing.T) {
		repo := newTestCorpus(t)

		_, err := repo.AddDocuments(ctx, "alpha", "beta")
		require.NoError(t, err)
		_, err = repo.AddDocuments(ctx, "gamma")
		require.NoError(t, err)

		docs, err := repo.AllDocuments(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 3)
		assert.Equal(t, "alpha", docs[0].Contents)
		assert.Equal(t, "beta", docs[1].Contents)
		assert.Equal(t, "gamma", docs[2].Contents)
	})
}

func TestCountDocuments(t *testing.T) {
	ctx := context.Background()
	repo := newTestCorpus(t)

	count, err := repo.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = repo.AddDocuments(ctx, "one", "two", "three")
	require.NoError(t, err)

	count, err = repo.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
