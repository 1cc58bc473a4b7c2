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

package domain

import (
	"context"
	"fmt"

	"github.com/poiesic/quire/core"
)

// edgeNotebookSource links a notebook to the sources collected in it.
const edgeNotebookSource = "notebook_source"

// Notebook groups sources, notes, and chat sessions around one
// research topic.
type Notebook struct {
	Object

	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func (n *Notebook) Table() string { return TableNotebook }

// Sources returns the sources linked to this notebook.
func (n *Notebook) Sources(ctx context.Context, c *Catalog) ([]*Source, error) {
	if !n.Saved() {
		return nil, nil
	}

	ids, err := c.edgeTargets(ctx, edgeNotebookSource, n.ID, false)
	if err != nil {
		return nil, err
	}

	out := make([]*Source, 0, len(ids))
	for _, id := range ids {
		src, err := Get[Source](ctx, c, id)
		if err != nil {
			c.logger.Warn("skipping unreadable source", "notebook", n.ID, "source", id, "error", err)
			continue
		}
		out = append(out, src)
	}
	return out, nil
}

// Notes returns the notes filed under this notebook, newest first.
func (n *Notebook) Notes(ctx context.Context, c *Catalog) ([]*Note, error) {
	if !n.Saved() {
		return nil, nil
	}
	return notesWhere(ctx, c, "notebook", n.ID)
}

// AddSource links src to the notebook, saving src first when it is
// new.
func (n *Notebook) AddSource(ctx context.Context, c *Catalog, src *Source) error {
	if !n.Saved() {
		return fmt.Errorf("%w: notebook must be saved before linking sources", core.ErrInvalidInput)
	}
	if src == nil {
		return fmt.Errorf("%w: nil source", core.ErrInvalidInput)
	}

	if !src.Saved() {
		if err := c.Save(ctx, src); err != nil {
			return err
		}
	}
	return c.Relate(ctx, n, edgeNotebookSource, src.ID, nil)
}

// RemoveSource drops the link between the notebook and src. The source
// record itself is untouched.
func (n *Notebook) RemoveSource(ctx context.Context, c *Catalog, src *Source) error {
	if !n.Saved() || src == nil || !src.Saved() {
		return fmt.Errorf("%w: both notebook and source must be saved", core.ErrInvalidInput)
	}

	_, err := c.store.Query(ctx,
		"DELETE FROM "+edgeNotebookSource+" WHERE in = type::record($in) AND out = type::record($out)",
		map[string]any{"in": n.ID, "out": src.ID})
	return err
}

func notesWhere(ctx context.Context, c *Catalog, field, id string) ([]*Note, error) {
	rows, err := c.store.Query(ctx,
		"SELECT * FROM note WHERE "+field+" = type::record($id) ORDER BY created DESC",
		map[string]any{"id": id})
	if err != nil {
		return nil, err
	}

	out := make([]*Note, 0, len(rows))
	for _, row := range rows {
		var note Note
		if err := decodeRow(row, &note); err != nil {
			c.logger.Warn("skipping undecodable note", "id", row["id"], "error", err)
			continue
		}
		out = append(out, &note)
	}
	return out, nil
}
