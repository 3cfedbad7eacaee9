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


// Package ai defines the semantic scoring capability used by the
// re-ranking stage.
//
// The pipeline never binds to a concrete relevance model. It depends on
// the RelevanceScorer interface, which any sequence-pair scoring model can
// satisfy: a hosted cross-encoder, a local OpenAI-compatible service, or a
// deterministic stub for tests.
//
// # Implementation Packages
//
//   - ai/openai: production implementation over OpenAI-compatible chat APIs
//   - ai/mock: test double with behavior injection, no external services
//
// Production constructors (openai.NewScorer) return the ai.RelevanceScorer
// interface to keep callers decoupled from one model binding. Mock
// constructors return concrete types so tests can inject behavior and
// assert on call counts.
package ai
