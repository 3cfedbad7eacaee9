package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/rankit/ai"
)

// MockScorer is a test double for ai.RelevanceScorer.
// It allows custom behavior injection via function fields.
// Call counters are synchronized because rerankers score batches
// concurrently.
type MockScorer struct {
	// ScoreFunc is called by Score if set.
	// If nil, uses default deterministic behavior.
	ScoreFunc func(ctx context.Context, query, document string) (float64, error)

	// ScoreBatchFunc is called by ScoreBatch if set.
	// If nil, uses default deterministic behavior.
	ScoreBatchFunc func(ctx context.Context, query string, documents []string) ([]float64, error)

	mu             sync.Mutex
	callCount      int
	batchCallCount int
}

var _ ai.RelevanceScorer = (*MockScorer)(nil)

// NewMockScorer creates a mock scorer with default deterministic behavior.
// Note: Returns concrete type to allow test assertions and behavior injection.
func NewMockScorer() *MockScorer {
	return &MockScorer{}
}

// Score returns a deterministic relevance score based on word overlap
// between query and document.
func (m *MockScorer) Score(ctx context.Context, query, document string) (float64, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ScoreFunc != nil {
		return m.ScoreFunc(ctx, query, document)
	}

	return overlapScore(query, document), nil
}

// ScoreBatch scores each document with the same deterministic rule.
func (m *MockScorer) ScoreBatch(ctx context.Context, query string, documents []string) ([]float64, error) {
	m.mu.Lock()
	m.callCount++
	m.batchCallCount++
	m.mu.Unlock()

	if m.ScoreBatchFunc != nil {
		return m.ScoreBatchFunc(ctx, query, documents)
	}

	scores := make([]float64, len(documents))
	for i, document := range documents {
		scores[i] = overlapScore(query, document)
	}
	return scores, nil
}

// CallCount returns the number of times any method was called.
func (m *MockScorer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// BatchCallCount returns the number of ScoreBatch invocations.
func (m *MockScorer) BatchCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batchCallCount
}

// Reset clears the call counters.
func (m *MockScorer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.batchCallCount = 0
}

// overlapScore is the default scoring rule: the fraction of query words
// that also appear in the document. Deterministic and order-independent.
func overlapScore(query, document string) float64 {
	queryWords := strings.Fields(strings.ToLower(query))
	if len(queryWords) == 0 {
		return 0
	}

	documentWords := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(document)) {
		documentWords[word] = true
	}

	matched := 0
	for _, word := range queryWords {
		if documentWords[word] {
			matched++
		}
	}
	return float64(matched) / float64(len(queryWords))
}
