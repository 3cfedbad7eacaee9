package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/poiesic/rankit/ai/mock"
	"github.com/poiesic/rankit/core"
	"github.com/poiesic/rankit/index"
	"github.com/poiesic/rankit/rank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCorpus = []string{
	"the cat sat",
	"the dog barked",
	"cats and dogs are pets",
}

func newTestSearcher(t *testing.T, scorer *mock.MockScorer, opts ...Option) *Searcher {
	t.Helper()
	idx, err := index.Build(testCorpus)
	require.NoError(t, err)
	searcher, err := NewSearcher(idx, scorer, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { searcher.Close() })
	return searcher
}

// recordingMonitor captures every pipeline callback for assertions.
type recordingMonitor struct {
	query      string
	tokens     []string
	candidates []core.Candidate
	reranked   []core.Candidate
	results    []core.ScoredResult
	finished   bool
}

var _ SearchMonitor = (*recordingMonitor)(nil)

func (m *recordingMonitor) Start(query string)                           { m.query = query }
func (m *recordingMonitor) AfterTokenize(tokens []string)                { m.tokens = tokens }
func (m *recordingMonitor) AfterLexicalRetrieval(cands []core.Candidate) { m.candidates = cands }
func (m *recordingMonitor) AfterRerank(cands []core.Candidate)           { m.reranked = cands }
func (m *recordingMonitor) Finish(results []core.ScoredResult)           { m.results = results; m.finished = true }

func TestNewSearcher(t *testing.T) {
	idx, err := index.Build(testCorpus)
	require.NoError(t, err)

	t.Run("valid configuration", func(t *testing.T) {
		searcher, err := NewSearcher(idx, mock.NewMockScorer())
		require.NoError(t, err)
		defer searcher.Close()
		assert.NotNil(t, searcher)
	})

	t.Run("with custom logger", func(t *testing.T) {
		searcher, err := NewSearcher(idx, mock.NewMockScorer(), WithLogger(slog.Default()))
		require.NoError(t, err)
		defer searcher.Close()
		assert.NotNil(t, searcher)
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		searcher, err := NewSearcher(idx, mock.NewMockScorer(), WithLogger(nil))
		require.NoError(t, err)
		defer searcher.Close()
		assert.NotNil(t, searcher)
	})

	t.Run("nil index", func(t *testing.T) {
		_, err := NewSearcher(nil, mock.NewMockScorer())
		assert.Equal(t, ErrIndexRequired, err)
	})

	t.Run("nil scorer", func(t *testing.T) {
		_, err := NewSearcher(idx, nil)
		assert.Equal(t, ErrScorerRequired, err)
	})
}

func TestSearchArgumentValidation(t *testing.T) {
	searcher := newTestSearcher(t, mock.NewMockScorer())
	ctx := context.Background()

	t.Run("non-positive topKLexical", func(t *testing.T) {
		_, err := searcher.Search(ctx, "cat", 0, 0)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
		_, err = searcher.Search(ctx, "cat", -1, -1)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("non-positive topNFinal", func(t *testing.T) {
		_, err := searcher.Search(ctx, "cat", 5, 0)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})

	t.Run("topNFinal exceeding topKLexical fails rather than clamps", func(t *testing.T) {
		_, err := searcher.Search(ctx, "cat", 3, 5)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})
}

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("only lexically matching document is returned", func(t *testing.T) {
		searcher := newTestSearcher(t, mock.NewMockScorer())

		results, err := searcher.Search(ctx, "cat", 3, 3)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, 0, results[0].DocID)
		// Documents without "cat" never reach the reranker.
		for _, result := range results {
			assert.NotEqual(t, 1, result.DocID)
		}
	})

	t.Run("ranks are contiguous from 1 and scores non-increasing", func(t *testing.T) {
		searcher := newTestSearcher(t, mock.NewMockScorer())

		results, err := searcher.Search(ctx, "the cats dogs pets", 3, 3)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		for i, result := range results {
			assert.Equal(t, i+1, result.Rank)
			if i > 0 {
				assert.GreaterOrEqual(t, results[i-1].Score, result.Score)
			}
		}
	})

	t.Run("truncates to topNFinal", func(t *testing.T) {
		searcher := newTestSearcher(t, mock.NewMockScorer())

		results, err := searcher.Search(ctx, "the cats dogs pets", 3, 1)
		require.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Equal(t, 1, results[0].Rank)
	})

	t.Run("no lexical matches yields empty results", func(t *testing.T) {
		scorer := mock.NewMockScorer()
		searcher := newTestSearcher(t, scorer)

		results, err := searcher.Search(ctx, "zeppelin", 5, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
		// The reranker is never invoked for an empty candidate set.
		assert.Zero(t, scorer.CallCount())
	})

	t.Run("empty query yields empty results", func(t *testing.T) {
		searcher := newTestSearcher(t, mock.NewMockScorer())

		results, err := searcher.Search(ctx, "", 5, 5)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("semantic ordering overrides lexical ordering", func(t *testing.T) {
		scorer := mock.NewMockScorer()
		scorer.ScoreBatchFunc = func(_ context.Context, _ string, documents []string) ([]float64, error) {
			scores := make([]float64, len(documents))
			for i, document := range documents {
				if document == "cats and dogs are pets" {
					scores[i] = 9.0
				} else {
					scores[i] = 1.0
				}
			}
			return scores, nil
		}
		searcher := newTestSearcher(t, scorer)

		results, err := searcher.Search(ctx, "the cat dogs", 3, 3)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, 2, results[0].DocID)
		assert.Equal(t, 9.0, results[0].Score)
	})

	t.Run("scoring failure aborts the search", func(t *testing.T) {
		cause := errors.New("model unavailable")
		scorer := mock.NewMockScorer()
		scorer.ScoreBatchFunc = func(context.Context, string, []string) ([]float64, error) {
			return nil, cause
		}
		searcher := newTestSearcher(t, scorer)

		results, err := searcher.Search(ctx, "cat", 3, 3)
		assert.Nil(t, results)
		var scoringErr *ScoringError
		require.ErrorAs(t, err, &scoringErr)
		assert.ErrorIs(t, err, cause)
	})
}

func TestSearchWithMonitor(t *testing.T) {
	searcher := newTestSearcher(t, mock.NewMockScorer())
	monitor := &recordingMonitor{}

	results, err := searcher.SearchWithMonitor(context.Background(), "the cat", 3, 2, monitor)
	require.NoError(t, err)

	assert.Equal(t, "the cat", monitor.query)
	assert.Equal(t, []string{"the", "cat"}, monitor.tokens)
	assert.NotEmpty(t, monitor.candidates)
	assert.Len(t, monitor.reranked, len(monitor.candidates))
	assert.Equal(t, results, monitor.results)
	assert.True(t, monitor.finished)
}

func TestRebuild(t *testing.T) {
	ctx := context.Background()

	t.Run("new snapshot becomes visible to later searches", func(t *testing.T) {
		searcher := newTestSearcher(t, mock.NewMockScorer())

		results, err := searcher.Search(ctx, "zeppelin", 5, 5)
		require.NoError(t, err)
		require.Empty(t, results)

		require.NoError(t, searcher.Rebuild([]string{"the zeppelin flew", "something else"}))

		results, err = searcher.Search(ctx, "zeppelin", 5, 5)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 0, results[0].DocID)
	})

	t.Run("rebuilding from zero documents fails and keeps the old snapshot", func(t *testing.T) {
		searcher := newTestSearcher(t, mock.NewMockScorer())

		err := searcher.Rebuild(nil)
		assert.ErrorIs(t, err, core.ErrEmptyCorpus)
		assert.Equal(t, len(testCorpus), searcher.Index().CorpusSize())
	})

	t.Run("concurrent searches during rebuilds see a consistent snapshot", func(t *testing.T) {
		searcher := newTestSearcher(t, mock.NewMockScorer())

		var wg sync.WaitGroup
		for i := 0; i < 4; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 25; j++ {
					results, err := searcher.Search(ctx, "cat", 3, 3)
					assert.NoError(t, err)
					// Either corpus has exactly one document containing "cat".
					assert.LessOrEqual(t, len(results), 1)
				}
			}()
		}
		for j := 0; j < 25; j++ {
			require.NoError(t, searcher.Rebuild([]string{"a cat appears", "unrelated text", "more filler"}))
			require.NoError(t, searcher.Rebuild(testCorpus))
		}
		wg.Wait()
	})
}

func TestSearchCustomBM25Params(t *testing.T) {
	idx, err := index.Build(testCorpus)
	require.NoError(t, err)

	searcher, err := NewSearcher(idx, mock.NewMockScorer(), WithBM25Params(rank.Params{K1: 1.2, B: 0.5}))
	require.NoError(t, err)
	defer searcher.Close()

	results, err := searcher.Search(context.Background(), "cat", 3, 3)
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}
