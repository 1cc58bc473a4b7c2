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

// Package domain defines the persistent object model for the research
// catalog: notebooks, sources, notes, chat sessions, and the keyed
// records that hold application state. All persistence flows through
// Catalog, which maps record ids of the form "table:key" back to their
// concrete types.
package domain

import "time"

// Object is the embedded base of every persistent entity. It carries
// the record id and the server-maintained timestamps.
type Object struct {
	ID      string    `json:"id,omitempty"`
	Created time.Time `json:"created,omitzero"`
	Updated time.Time `json:"updated,omitzero"`
}

func (o *Object) object() *Object { return o }

// RecordID returns the full "table:key" identifier, or the empty
// string for an object that has not been saved.
func (o *Object) RecordID() string { return o.ID }

// Saved reports whether the object has been persisted at least once.
func (o *Object) Saved() bool { return o.ID != "" }

// Model is implemented by every persistent entity. The unexported
// method restricts implementations to this package, which keeps the
// table registry exhaustive.
type Model interface {
	// Table returns the storage table the entity lives in.
	Table() string

	// RecordID returns the full "table:key" identifier, or "" when
	// unsaved.
	RecordID() string

	object() *Object
}

// ModelOf constrains a pointer type P to both point at T and satisfy
// Model, so generic helpers can allocate and decode concrete entities.
type ModelOf[T any] interface {
	*T
	Model
}

// Embeddable is implemented by entities that contribute text to the
// vector index.
type Embeddable interface {
	Model

	// EmbeddingText returns the text to embed, or "" when the entity
	// currently has nothing indexable.
	EmbeddingText() string
}

// NeedsEmbedding reports whether m should be sent to the indexer.
func NeedsEmbedding(m Model) bool {
	e, ok := m.(Embeddable)
	return ok && e.EmbeddingText() != ""
}
