package domain

import "context"

// Source is a research artifact collected into notebooks: a document,
// a web page, or pasted text. FullText holds the extracted text once
// processing has run.
type Source struct {
	Object

	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	URL         string         `json:"url,omitempty"`
	Content     string         `json:"content,omitempty"`
	FullText    string         `json:"full_text,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	HasDocument bool           `json:"has_document"`
	IsProcessed bool           `json:"is_processed"`
}

func (s *Source) Table() string { return TableSource }

// EmbeddingText exposes the extracted text for indexing.
func (s *Source) EmbeddingText() string { return s.FullText }

// Notebooks returns every notebook this source is linked into.
func (s *Source) Notebooks(ctx context.Context, c *Catalog) ([]*Notebook, error) {
	if !s.Saved() {
		return nil, nil
	}

	ids, err := c.edgeTargets(ctx, edgeNotebookSource, s.ID, true)
	if err != nil {
		return nil, err
	}

	out := make([]*Notebook, 0, len(ids))
	for _, id := range ids {
		nb, err := Get[Notebook](ctx, c, id)
		if err != nil {
			c.logger.Warn("skipping unreadable notebook", "source", s.ID, "notebook", id, "error", err)
			continue
		}
		out = append(out, nb)
	}
	return out, nil
}

// Notes returns the notes taken against this source, newest first.
func (s *Source) Notes(ctx context.Context, c *Catalog) ([]*Note, error) {
	if !s.Saved() {
		return nil, nil
	}
	return notesWhere(ctx, c, "source", s.ID)
}
