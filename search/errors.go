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


package search

import "errors"

var (
	// ErrIndexRequired is returned when an index snapshot is not provided.
	ErrIndexRequired = errors.New("index required")

	// ErrScorerRequired is returned when a relevance scorer is not provided.
	ErrScorerRequired = errors.New("relevance scorer required")
)

// ScoringError indicates the semantic scoring capability failed during
// re-ranking. The search call that hit it is aborted rather than degraded
// to lexical order; callers that want a lexical fallback must catch this
// error and retrieve again themselves.
type ScoringError struct {
	Err error
}

func (e *ScoringError) Error() string {
	return "relevance scoring failed: " + e.Err.Error()
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}
