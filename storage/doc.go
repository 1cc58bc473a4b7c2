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


// Package storage defines the gateway abstraction over the
// graph-document store.
//
// The Store interface is deliberately narrow: parameterized queries plus
// five command forms (create, update, upsert, delete, relate). The
// domain layer above it has no notion of connections or wire encoding;
// the gateway owns serialization to the store's command syntax and the
// connection lifecycle of each call.
//
// # Implementations
//
//   - storage/surreal: production gateway over SurrealDB
//   - storage/storagetest: scripted test double
//
// Constructors return interface types so consumers never couple to a
// concrete backend.
//
// # Rows
//
// All results are plain field-value maps in store field naming
// (snake_case), with identifiers already flattened to "table:key"
// strings and datetimes to time.Time. Decoding maps into typed domain
// values is the caller's concern.
//
// # Concurrency
//
// Implementations must be safe for concurrent use. Every call is
// self-contained: no pooling, no cross-call transaction, no internal
// retries. A multi-step sequence that fails midway leaves the store
// partially updated and the caller compensates.
package storage
