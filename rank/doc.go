// Package rank implements the lexical scoring stage: BM25 relevance
// scoring against an index snapshot and top-K candidate selection.
package rank
