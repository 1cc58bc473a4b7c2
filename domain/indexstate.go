package domain

import "time"

// IndexState tracks what the vector indexer has already embedded. It
// is stored at a fixed id alongside the data it describes, so the
// index survives restarts and detects embedding-model changes.
type IndexState struct {
	EmbeddingModel string            `json:"embedding_model,omitempty"`
	Fingerprints   map[string]string `json:"fingerprints,omitempty"`
	SyncedAt       time.Time         `json:"synced_at,omitzero"`
}

// NewIndexState returns an empty state.
func NewIndexState() *IndexState {
	return &IndexState{Fingerprints: make(map[string]string)}
}

// RecordKey returns the fixed id of the index state record.
func (s *IndexState) RecordKey() string { return "index_state:main" }
