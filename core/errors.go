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


package core

import "errors"

// Domain errors
var (
	// ErrEmptyCorpus indicates an index build was attempted with zero documents.
	// BM25 statistics are undefined without at least one document.
	ErrEmptyCorpus = errors.New("corpus is empty")

	// ErrInvalidArgument indicates a caller passed an out-of-range argument,
	// for example a non-positive top-K or a final cutoff larger than the
	// lexical candidate set. Wrapped with detail at the call site.
	ErrInvalidArgument = errors.New("invalid argument")
)
