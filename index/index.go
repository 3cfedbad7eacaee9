package index

import (
	"fmt"

	"github.com/poiesic/rankit/core"
)

// Index is an inverted index over one corpus snapshot, together with the
// corpus statistics BM25 needs. All fields are populated by Build and
// read-only afterwards.
type Index struct {
	docs         []core.Document
	postings     map[string][]core.Posting
	totalTokens  int
	avgDocLength float64
}

// Build tokenizes the given documents and constructs an index over them.
// Document IDs are assigned sequentially from 0 in input order. Returns
// core.ErrEmptyCorpus when texts is empty.
func Build(texts []string) (*Index, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: cannot build an index over zero documents", core.ErrEmptyCorpus)
	}

	idx := &Index{
		docs:     make([]core.Document, len(texts)),
		postings: make(map[string][]core.Posting),
	}

	for id, text := range texts {
		tokens := Tokenize(text)
		idx.docs[id] = core.Document{
			ID:     id,
			Text:   text,
			Tokens: tokens,
			Length: len(tokens),
		}
		idx.totalTokens += len(tokens)

		// Per-document term frequencies
		frequencies := make(map[string]int, len(tokens))
		for _, token := range tokens {
			frequencies[token]++
		}
		for term, frequency := range frequencies {
			idx.postings[term] = append(idx.postings[term], core.Posting{
				DocID:     id,
				Frequency: frequency,
			})
		}
	}

	// Postings lists are appended in document order, so they arrive sorted
	// by ascending DocID with one entry per document.
	idx.avgDocLength = float64(idx.totalTokens) / float64(len(idx.docs))

	return idx, nil
}

// Postings returns the postings list for a term, ordered by ascending
// document ID. Unseen terms yield an empty list, never an error.
func (idx *Index) Postings(term string) []core.Posting {
	return idx.postings[term]
}

// DocumentFrequency returns the number of documents whose token set
// contains the term.
func (idx *Index) DocumentFrequency(term string) int {
	return len(idx.postings[term])
}

// Document returns the indexed document with the given ID.
// The second return value is false when the ID is out of range.
func (idx *Index) Document(id int) (core.Document, bool) {
	if id < 0 || id >= len(idx.docs) {
		return core.Document{}, false
	}
	return idx.docs[id], true
}

// DocumentLength returns the token count of the document with the given ID,
// or 0 when the ID is out of range.
func (idx *Index) DocumentLength(id int) int {
	if id < 0 || id >= len(idx.docs) {
		return 0
	}
	return idx.docs[id].Length
}

// CorpusSize returns the number of indexed documents.
func (idx *Index) CorpusSize() int {
	return len(idx.docs)
}

// AverageDocumentLength returns the mean token count across all indexed
// documents.
func (idx *Index) AverageDocumentLength() float64 {
	return idx.avgDocLength
}
