package domain

import (
	"context"
	"fmt"

	"github.com/poiesic/quire/core"
)

// Note is a piece of writing inside a notebook, optionally tied to the
// source it comments on.
type Note struct {
	Object

	Content    string         `json:"content"`
	NotebookID string         `json:"notebook"`
	SourceID   string         `json:"source,omitempty"`
	FullText   string         `json:"full_text,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

func (n *Note) Table() string { return TableNote }

// preparePayload mirrors Content into full_text when the note has no
// separately extracted text, so search and indexing see every note.
func (n *Note) preparePayload(data map[string]any) {
	if n.FullText == "" && n.Content != "" {
		data["full_text"] = n.Content
	}
}

// EmbeddingText exposes the note text for indexing.
func (n *Note) EmbeddingText() string {
	if n.FullText != "" {
		return n.FullText
	}
	return n.Content
}

// Notebook resolves the notebook this note belongs to. A note with no
// notebook is invalid; a dangling reference reports not found.
func (n *Note) Notebook(ctx context.Context, c *Catalog) (*Notebook, error) {
	if n.NotebookID == "" {
		return nil, fmt.Errorf("%w: note has no notebook", core.ErrInvalidInput)
	}
	return Get[Notebook](ctx, c, n.NotebookID)
}

// Source resolves the source this note comments on, or nil when the
// note stands alone.
func (n *Note) Source(ctx context.Context, c *Catalog) (*Source, error) {
	if n.SourceID == "" {
		return nil, nil
	}
	return Get[Source](ctx, c, n.SourceID)
}
