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


// Package storage provides the storage abstraction layer for Apollo.
//
// This package defines repository interfaces that decouple storage
// implementation from business logic. It allows for different storage
// backends (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple storage backend
// implementations:
//
//	repo, err := badger.NewUtteranceRepository(backend, embedder)  // returns storage.UtteranceRepository
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Architecture
//
// The storage layer follows the Repository pattern with one repository per
// record type:
//
//   - UtteranceRepository: transcript utterances, time-range queries
//   - TOCRepository: table-of-contents entries, sorted scans
//   - SummaryRepository: embedded summaries
//   - QuestionRepository: embedded generated questions
//   - PhotographRepository: mission photographs, dual vector spaces
//   - CacheRepository: semantic answer cache, two partitions
//   - NoiseRepository: utterance hit counters for noise filtering
//
// Repositories that store embedded records hold an ai.Embedder and embed
// text on save when a record's vector is empty. This keeps records and
// their vectors consistent no matter which code path stores them.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support. Pass context.Background() for operations
// without specific timeout requirements.
package storage
