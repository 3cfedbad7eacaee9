// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package search wires the two retrieval stages into a single pipeline.
//
// The Searcher type implements the full search call:
//   - Tokenize the query with the index tokenization rule
//   - Retrieve the top-K lexical candidates by BM25
//   - Re-rank the candidates with a cross-encoder relevance scorer
//   - Truncate to the final top-N and assign contiguous ranks
//
// The active index is an immutable snapshot held behind an atomic
// reference. Concurrent searches read whichever snapshot was active when
// they started; Rebuild swaps in a new snapshot without disturbing
// in-flight queries.
//
// A scoring failure during re-ranking aborts the whole search call. The
// pipeline never silently degrades to lexical-only ordering; a returned
// result always reflects both stages.
package search
