package search

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/rankit/ai"
	"github.com/poiesic/rankit/core"
)

const defaultBatchSize = 16

// Reranker re-orders lexical candidates by cross-encoder relevance.
// Candidate batches are scored on a bounded worker pool so one search call
// cannot monopolize the scoring service.
type Reranker struct {
	scorer    ai.RelevanceScorer
	batchSize int
	pool      *ants.Pool
	logger    *slog.Logger
}

// RerankerOption configures a Reranker.
type RerankerOption func(*Reranker) error

// WithBatchSize sets how many candidates are scored per model invocation.
// Default is 16.
func WithBatchSize(size int) RerankerOption {
	return func(r *Reranker) error {
		if size < 1 {
			size = 1
		}
		r.batchSize = size
		return nil
	}
}

// WithMaxConcurrentBatches bounds how many batches may be in flight at
// once across one Rerank call. Default is runtime.NumCPU() / 2, with a
// minimum of 1.
func WithMaxConcurrentBatches(max int) RerankerOption {
	return func(r *Reranker) error {
		if max < 1 {
			max = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(max)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithRerankerLogger sets a custom logger.
// Default is slog.Default().
func WithRerankerLogger(logger *slog.Logger) RerankerOption {
	return func(r *Reranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewReranker creates a reranker over the given scoring capability.
func NewReranker(scorer ai.RelevanceScorer, opts ...RerankerOption) (*Reranker, error) {
	if scorer == nil {
		return nil, ErrScorerRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	r := &Reranker{
		scorer:    scorer,
		batchSize: defaultBatchSize,
		pool:      pool,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			r.Release()
			return nil, err
		}
	}

	return r, nil
}

// Release frees the reranker's worker pool.
func (r *Reranker) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Rerank scores every candidate text against the query and returns the
// candidates re-ordered by descending semantic score, with the semantic
// score replacing the lexical one. Ties keep the incoming candidate order,
// so the lexical stage's tie-break survives a perfectly indifferent model.
// The output is always a permutation of the input.
//
// texts[i] must be the document text for candidates[i]. A scoring failure
// on any batch aborts the whole call with a *ScoringError.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []core.Candidate, texts []string) ([]core.Candidate, error) {
	if len(texts) != len(candidates) {
		return nil, fmt.Errorf("%w: got %d candidates but %d texts", core.ErrInvalidArgument, len(candidates), len(texts))
	}
	if len(candidates) == 0 {
		return []core.Candidate{}, nil
	}

	scores, err := r.scoreAll(ctx, query, texts)
	if err != nil {
		return nil, err
	}

	// Stable sort: equal semantic scores preserve lexical candidate order.
	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	reranked := make([]core.Candidate, len(candidates))
	for i, idx := range order {
		reranked[i] = core.Candidate{
			DocID: candidates[idx].DocID,
			Score: scores[idx],
		}
	}
	return reranked, nil
}

// scoreAll splits texts into the minimum number of batches the configured
// batch size allows and runs them on the bounded pool.
func (r *Reranker) scoreAll(ctx context.Context, query string, texts []string) ([]float64, error) {
	scores := make([]float64, len(texts))

	// Single batch: no pool round trip needed.
	if len(texts) <= r.batchSize {
		batch, err := r.scorer.ScoreBatch(ctx, query, texts)
		if err != nil {
			return nil, &ScoringError{Err: err}
		}
		if len(batch) != len(texts) {
			return nil, &ScoringError{Err: fmt.Errorf("score count mismatch: expected %d, got %d", len(texts), len(batch))}
		}
		copy(scores, batch)
		return scores, nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	setErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for start := 0; start < len(texts); start += r.batchSize {
		end := min(start+r.batchSize, len(texts))
		wg.Add(1)
		submitErr := r.pool.Submit(func() {
			defer wg.Done()
			batch, err := r.scorer.ScoreBatch(ctx, query, texts[start:end])
			if err != nil {
				setErr(err)
				return
			}
			if len(batch) != end-start {
				setErr(fmt.Errorf("score count mismatch: expected %d, got %d", end-start, len(batch)))
				return
			}
			// Each batch writes a disjoint segment; no lock needed.
			copy(scores[start:end], batch)
		})
		if submitErr != nil {
			wg.Done()
			setErr(submitErr)
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		r.logger.Error("batch scoring failed", "err", firstErr)
		return nil, &ScoringError{Err: firstErr}
	}
	return scores, nil
}
