package search

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/poiesic/rankit/ai/mock"
	"github.com/poiesic/rankit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReranker(t *testing.T) {
	t.Run("nil scorer", func(t *testing.T) {
		_, err := NewReranker(nil)
		assert.Equal(t, ErrScorerRequired, err)
	})

	t.Run("valid configuration", func(t *testing.T) {
		reranker, err := NewReranker(mock.NewMockScorer(),
			WithBatchSize(8),
			WithMaxConcurrentBatches(2),
		)
		require.NoError(t, err)
		defer reranker.Release()
		assert.Equal(t, 8, reranker.batchSize)
	})

	t.Run("batch size floor is one", func(t *testing.T) {
		reranker, err := NewReranker(mock.NewMockScorer(), WithBatchSize(-5))
		require.NoError(t, err)
		defer reranker.Release()
		assert.Equal(t, 1, reranker.batchSize)
	})
}

func TestRerank(t *testing.T) {
	ctx := context.Background()

	t.Run("orders by descending semantic score", func(t *testing.T) {
		scorer := mock.NewMockScorer()
		scorer.ScoreBatchFunc = func(_ context.Context, _ string, documents []string) ([]float64, error) {
			scores := make([]float64, len(documents))
			for i, document := range documents {
				// Longer text scores higher under this stub.
				scores[i] = float64(len(document))
			}
			return scores, nil
		}
		reranker, err := NewReranker(scorer)
		require.NoError(t, err)
		defer reranker.Release()

		candidates := []core.Candidate{
			{DocID: 3, Score: 2.0},
			{DocID: 7, Score: 1.5},
			{DocID: 1, Score: 1.0},
		}
		texts := []string{"aa", "aaaa", "a"}

		reranked, err := reranker.Rerank(ctx, "query", candidates, texts)
		require.NoError(t, err)
		require.Len(t, reranked, 3)
		assert.Equal(t, 7, reranked[0].DocID)
		assert.Equal(t, 3, reranked[1].DocID)
		assert.Equal(t, 1, reranked[2].DocID)
		assert.Equal(t, 4.0, reranked[0].Score)
	})

	t.Run("output is a permutation of the input", func(t *testing.T) {
		reranker, err := NewReranker(mock.NewMockScorer(), WithBatchSize(2))
		require.NoError(t, err)
		defer reranker.Release()

		candidates := []core.Candidate{
			{DocID: 10}, {DocID: 11}, {DocID: 12}, {DocID: 13}, {DocID: 14},
		}
		texts := []string{"one", "two", "three", "four", "five"}

		reranked, err := reranker.Rerank(ctx, "three two", candidates, texts)
		require.NoError(t, err)
		require.Len(t, reranked, len(candidates))

		ids := make([]int, len(reranked))
		for i, candidate := range reranked {
			ids[i] = candidate.DocID
		}
		sort.Ints(ids)
		assert.Equal(t, []int{10, 11, 12, 13, 14}, ids)
	})

	t.Run("equal scores preserve incoming order", func(t *testing.T) {
		scorer := mock.NewMockScorer()
		scorer.ScoreBatchFunc = func(_ context.Context, _ string, documents []string) ([]float64, error) {
			scores := make([]float64, len(documents))
			for i := range scores {
				scores[i] = 0.5
			}
			return scores, nil
		}
		reranker, err := NewReranker(scorer)
		require.NoError(t, err)
		defer reranker.Release()

		candidates := []core.Candidate{
			{DocID: 5, Score: 3.0}, // lexical rank 1
			{DocID: 9, Score: 2.0}, // lexical rank 2
		}
		reranked, err := reranker.Rerank(ctx, "query", candidates, []string{"doc five", "doc nine"})
		require.NoError(t, err)
		require.Len(t, reranked, 2)
		assert.Equal(t, 5, reranked[0].DocID)
		assert.Equal(t, 9, reranked[1].DocID)
	})

	t.Run("empty candidate set is not an error", func(t *testing.T) {
		reranker, err := NewReranker(mock.NewMockScorer())
		require.NoError(t, err)
		defer reranker.Release()

		reranked, err := reranker.Rerank(ctx, "query", nil, nil)
		require.NoError(t, err)
		assert.Empty(t, reranked)
	})

	t.Run("candidate and text counts must agree", func(t *testing.T) {
		reranker, err := NewReranker(mock.NewMockScorer())
		require.NoError(t, err)
		defer reranker.Release()

		_, err = reranker.Rerank(ctx, "query", []core.Candidate{{DocID: 1}}, nil)
		assert.ErrorIs(t, err, core.ErrInvalidArgument)
	})
}

func TestRerankBatching(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the minimum number of batches", func(t *testing.T) {
		scorer := mock.NewMockScorer()
		reranker, err := NewReranker(scorer, WithBatchSize(2), WithMaxConcurrentBatches(2))
		require.NoError(t, err)
		defer reranker.Release()

		candidates := make([]core.Candidate, 5)
		texts := make([]string, 5)
		for i := range candidates {
			candidates[i] = core.Candidate{DocID: i}
			texts[i] = "document"
		}

		_, err = reranker.Rerank(ctx, "query", candidates, texts)
		require.NoError(t, err)
		// ceil(5/2) model invocations
		assert.Equal(t, 3, scorer.BatchCallCount())
	})

	t.Run("single batch avoids the pool", func(t *testing.T) {
		scorer := mock.NewMockScorer()
		reranker, err := NewReranker(scorer, WithBatchSize(10))
		require.NoError(t, err)
		defer reranker.Release()

		_, err = reranker.Rerank(ctx, "query",
			[]core.Candidate{{DocID: 0}, {DocID: 1}},
			[]string{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, 1, scorer.BatchCallCount())
	})
}

func TestRerankScoringFailure(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("model unavailable")

	t.Run("single batch failure surfaces as ScoringError", func(t *testing.T) {
		scorer := mock.NewMockScorer()
		scorer.ScoreBatchFunc = func(context.Context, string, []string) ([]float64, error) {
			return nil, cause
		}
		reranker, err := NewReranker(scorer)
		require.NoError(t, err)
		defer reranker.Release()

		_, err = reranker.Rerank(ctx, "query", []core.Candidate{{DocID: 1}}, []string{"doc"})
		var scoringErr *ScoringError
		require.ErrorAs(t, err, &scoringErr)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("any failing batch aborts a multi-batch call", func(t *testing.T) {
		calls := 0
		scorer := mock.NewMockScorer()
		scorer.ScoreBatchFunc = func(_ context.Context, _ string, documents []string) ([]float64, error) {
			calls++
			if calls == 2 {
				return nil, cause
			}
			return make([]float64, len(documents)), nil
		}
		reranker, err := NewReranker(scorer, WithBatchSize(1), WithMaxConcurrentBatches(1))
		require.NoError(t, err)
		defer reranker.Release()

		_, err = reranker.Rerank(ctx, "query",
			[]core.Candidate{{DocID: 0}, {DocID: 1}, {DocID: 2}},
			[]string{"a", "b", "c"})
		var scoringErr *ScoringError
		require.ErrorAs(t, err, &scoringErr)
	})

	t.Run("score count mismatch is a scoring failure", func(t *testing.T) {
		scorer := mock.NewMockScorer()
		scorer.ScoreBatchFunc = func(context.Context, string, []string) ([]float64, error) {
			return []float64{1.0}, nil
		}
		reranker, err := NewReranker(scorer)
		require.NoError(t, err)
		defer reranker.Release()

		_, err = reranker.Rerank(ctx, "query",
			[]core.Candidate{{DocID: 0}, {DocID: 1}},
			[]string{"a", "b"})
		var scoringErr *ScoringError
		require.ErrorAs(t, err, &scoringErr)
	})
}
