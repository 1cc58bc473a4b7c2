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

// Persistence error taxonomy. Every storage-facing operation wraps its
// failures in exactly one of these so callers can match with errors.Is
// without knowing the store.
var (
	// ErrInvalidInput indicates the caller supplied missing or malformed
	// input: an empty identifier, an unregistered table, a relate call
	// without an edge or target.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a well-formed identifier with no matching row.
	ErrNotFound = errors.New("not found")

	// ErrDatabaseOperation indicates the store call itself failed, or a
	// fetched row could not be decoded.
	ErrDatabaseOperation = errors.New("database operation failed")
)
