package ai

import "context"

// RelevanceScorer scores (query, document) pairs jointly, cross-encoder
// style. Implementations must be thread-safe for concurrent use.
type RelevanceScorer interface {
	// Score computes a real-valued relevance score for one query-document
	// pair. Higher means more relevant. Returns an error if the underlying
	// model invocation fails.
	Score(ctx context.Context, query, document string) (float64, error)

	// ScoreBatch scores the query against multiple documents in a single
	// model invocation. Batch scoring amortizes the fixed per-call cost of
	// model inference. The returned scores are in the same order as the
	// input documents, one per document. Returns an error if the
	// invocation fails or the model does not produce one score per
	// document.
	ScoreBatch(ctx context.Context, query string, documents []string) ([]float64, error)
}
