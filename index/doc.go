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


// Package index provides tokenization and the in-memory inverted index
// that backs the lexical retrieval stage.
//
// An Index is an immutable snapshot: it is fully populated by Build and
// never mutated afterwards, so any number of concurrent readers can share
// one snapshot without locking. Replacing a corpus means building a new
// snapshot and swapping references, which is what search.Searcher does.
//
// Tokenize is the single tokenization rule for the whole pipeline. Both
// Build and query-time scoring must go through it; diverging rules would
// silently break term matching between documents and queries.
package index
