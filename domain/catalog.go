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
	"log/slog"
	"regexp"
	"time"

	"github.com/poiesic/quire/core"
	"github.com/poiesic/quire/storage"
)

// orderByPattern restricts ORDER BY clauses to a field path with an
// optional direction. The clause is spliced into query text, so
// anything else is rejected.
var orderByPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*( (?i:ASC|DESC))?$`)

// edgeNamePattern restricts graph edge labels to plain identifiers.
var edgeNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Catalog performs all reads and writes of persistent entities against
// a Store. It owns id-to-type resolution and the save lifecycle.
type Catalog struct {
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithLogger sets the catalog's logger.
func WithLogger(logger *slog.Logger) CatalogOption {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the timestamp source. Tests use this to pin
// created/updated times.
func WithClock(now func() time.Time) CatalogOption {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCatalog returns a catalog backed by store.
func NewCatalog(store storage.Store, opts ...CatalogOption) (*Catalog, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidInput, ErrStoreRequired)
	}

	c := &Catalog{
		store:  store,
		logger: slog.Default().With("component", "catalog"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// All returns every record of T's table, optionally ordered. Rows that
// fail to decode are logged and skipped rather than failing the whole
// listing.
func All[T any, P ModelOf[T]](ctx context.Context, c *Catalog, orderBy string) ([]P, error) {
	var probe T
	table := P(&probe).Table()

	query := "SELECT * FROM " + table
	if orderBy != "" {
		if !orderByPattern.MatchString(orderBy) {
			return nil, fmt.Errorf("%w: invalid order clause %q", core.ErrInvalidInput, orderBy)
		}
		query += " ORDER BY " + orderBy
	}

	rows, err := c.store.Query(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	out := make([]P, 0, len(rows))
	for _, row := range rows {
		var item T
		if err := decodeRow(row, P(&item)); err != nil {
			c.logger.Warn("skipping undecodable record", "table", table, "id", row["id"], "error", err)
			continue
		}
		out = append(out, &item)
	}
	return out, nil
}

// Get fetches a record by its full "table:key" id and returns the
// concrete entity for the table named in the id prefix.
func (c *Catalog) Get(ctx context.Context, id string) (Model, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty record id", core.ErrInvalidInput)
	}

	m, err := newForTable(core.TableOf(id))
	if err != nil {
		return nil, err
	}

	rows, err := c.store.Query(ctx, "SELECT * FROM type::record($id)", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	if err := decodeRow(rows[0], m); err != nil {
		return nil, err
	}
	return m, nil
}

// Get fetches a record by id as a specific entity type. The id's table
// prefix must match T's table.
func Get[T any, P ModelOf[T]](ctx context.Context, c *Catalog, id string) (P, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty record id", core.ErrInvalidInput)
	}

	var probe T
	if table := P(&probe).Table(); core.TableOf(id) != table {
		return nil, fmt.Errorf("%w: record %s is not a %s", core.ErrInvalidInput, id, table)
	}

	rows, err := c.store.Query(ctx, "SELECT * FROM type::record($id)", map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrNotFound, id)
	}

	var item T
	if err := decodeRow(rows[0], P(&item)); err != nil {
		return nil, err
	}
	return &item, nil
}

// Save persists m. Unsaved entities are created and adopt the id the
// store assigns; saved entities are updated in place. Timestamps are
// maintained here, in UTC.
func (c *Catalog) Save(ctx context.Context, m Model) error {
	obj := m.object()
	now := c.now().UTC()

	if !obj.Saved() {
		obj.Created = now
		obj.Updated = now

		data, err := buildPayload(m)
		if err != nil {
			return err
		}

		row, err := c.store.Create(ctx, m.Table(), data)
		if err != nil {
			return err
		}
		if row != nil {
			if id, ok := row["id"].(string); ok {
				obj.ID = id
			}
		}
		c.logger.Debug("created record", "id", obj.ID)
		return nil
	}

	obj.Updated = now

	data, err := buildPayload(m)
	if err != nil {
		return err
	}
	if _, err := c.store.Update(ctx, obj.ID, data); err != nil {
		return err
	}
	c.logger.Debug("updated record", "id", obj.ID)
	return nil
}

// Delete removes m's record from the store. The entity keeps its id;
// callers that reuse the value should clear it themselves.
func (c *Catalog) Delete(ctx context.Context, m Model) error {
	id := m.RecordID()
	if id == "" {
		return fmt.Errorf("%w: cannot delete an unsaved %s", core.ErrInvalidInput, m.Table())
	}
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.logger.Debug("deleted record", "id", id)
	return nil
}

// Relate creates a graph edge from m to the record at targetID. The
// optional data map is stored on the edge.
func (c *Catalog) Relate(ctx context.Context, m Model, edge, targetID string, data map[string]any) error {
	if m.RecordID() == "" {
		return fmt.Errorf("%w: cannot relate an unsaved %s", core.ErrInvalidInput, m.Table())
	}
	if targetID == "" {
		return fmt.Errorf("%w: empty relation target", core.ErrInvalidInput)
	}
	if !edgeNamePattern.MatchString(edge) {
		return fmt.Errorf("%w: invalid edge name %q", core.ErrInvalidInput, edge)
	}

	_, err := c.store.Relate(ctx, m.RecordID(), edge, targetID, data)
	return err
}

// edgeTargets returns the record ids on the far side of edge from id.
// With inverse set, it walks edges that point at id instead.
func (c *Catalog) edgeTargets(ctx context.Context, edge, id string, inverse bool) ([]string, error) {
	if !edgeNamePattern.MatchString(edge) {
		return nil, fmt.Errorf("%w: invalid edge name %q", core.ErrInvalidInput, edge)
	}

	query := "SELECT out FROM " + edge + " WHERE in = type::record($id)"
	field := "out"
	if inverse {
		query = "SELECT in FROM " + edge + " WHERE out = type::record($id)"
		field = "in"
	}

	rows, err := c.store.Query(ctx, query, map[string]any{"id": id})
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if target, ok := row[field].(string); ok && target != "" {
			out = append(out, target)
		}
	}
	return out, nil
}
