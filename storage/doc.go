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


// Package storage defines the corpus source: a persistent, ordered store
// of raw documents the index is built from.
//
// The store holds raw text only. Index state (postings, statistics) is
// never persisted; it is always rebuilt in memory from the stored corpus,
// so the store and the index cannot drift apart.
//
// Documents are deduplicated by content hash: adding identical text twice
// stores it once and keeps its original insertion position.
package storage
