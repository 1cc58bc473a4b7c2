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

package surreal

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"github.com/poiesic/quire/core"
	"github.com/poiesic/quire/storage"
)

// edgeNamePattern restricts edge labels to plain identifiers. Edge names
// are spliced into the RELATE statement text because SurrealQL does not
// accept a parameter in edge position.
var edgeNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Gateway is the SurrealDB-backed implementation of storage.Store.
// Every call opens a fresh connection, authenticates, runs one query,
// and closes. The driver's websocket connection is not safe to share
// across long-lived callers without lifecycle management, and the
// per-call cost is dwarfed by the query itself for this workload.
type Gateway struct {
	config Config
	logger *slog.Logger
}

var _ storage.Store = (*Gateway)(nil)

// NewGateway validates the configuration and returns a gateway. No
// connection is made until the first operation.
func NewGateway(config Config) (*Gateway, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrInvalidInput, err)
	}
	return &Gateway{
		config: config,
		logger: slog.Default().With("component", "surreal"),
	}, nil
}

// session opens and authenticates a connection. The caller must close
// the returned handle.
func (g *Gateway) session(ctx context.Context) (*surrealdb.DB, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, g.config.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: connect %s: %w", core.ErrDatabaseOperation, g.config.URL, err)
	}

	if g.config.Username != "" {
		if _, err := db.SignIn(ctx, surrealdb.Auth{
			Username: g.config.Username,
			Password: g.config.Password,
		}); err != nil {
			db.Close(ctx)
			return nil, fmt.Errorf("%w: signin: %w", core.ErrDatabaseOperation, err)
		}
	}

	if err := db.Use(ctx, g.config.Namespace, g.config.Database); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("%w: use %s/%s: %w", core.ErrDatabaseOperation, g.config.Namespace, g.config.Database, err)
	}

	return db, nil
}

// run executes a single query and returns the rows of its first result
// set, normalized to plain Go values.
func (g *Gateway) run(ctx context.Context, query string, vars map[string]any) ([]map[string]any, error) {
	db, err := g.session(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close(ctx)

	results, err := surrealdb.Query[[]map[string]any](ctx, db, query, vars)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrDatabaseOperation, err)
	}
	if results == nil || len(*results) == 0 {
		return nil, nil
	}

	first := (*results)[0]
	if first.Status != "OK" {
		return nil, fmt.Errorf("%w: query status %s", core.ErrDatabaseOperation, first.Status)
	}

	rows := make([]map[string]any, 0, len(first.Result))
	for _, row := range first.Result {
		rows = append(rows, normalizeRow(row))
	}
	return rows, nil
}

// Query runs an arbitrary SurrealQL statement with bound variables.
func (g *Gateway) Query(ctx context.Context, query string, vars map[string]any) ([]map[string]any, error) {
	g.logger.Debug("executing query", "query", query)
	return g.run(ctx, query, vars)
}

// Create inserts a new record into table and returns the stored row.
func (g *Gateway) Create(ctx context.Context, table string, data map[string]any) (map[string]any, error) {
	rows, err := g.run(ctx, "CREATE type::table($tb) CONTENT $data", map[string]any{
		"tb":   table,
		"data": data,
	})
	if err != nil {
		return nil, err
	}
	return singleRow(rows)
}

// Update replaces the content of an existing record and returns the row
// as stored after the write.
func (g *Gateway) Update(ctx context.Context, id string, data map[string]any) (map[string]any, error) {
	rows, err := g.run(ctx, "UPDATE type::record($id) CONTENT $data RETURN AFTER", map[string]any{
		"id":   id,
		"data": data,
	})
	if err != nil {
		return nil, err
	}
	return singleRow(rows)
}

// Upsert creates or replaces the record at id and returns the stored
// row.
func (g *Gateway) Upsert(ctx context.Context, id string, data map[string]any) (map[string]any, error) {
	rows, err := g.run(ctx, "UPSERT type::record($id) CONTENT $data RETURN AFTER", map[string]any{
		"id":   id,
		"data": data,
	})
	if err != nil {
		return nil, err
	}
	return singleRow(rows)
}

// Delete removes the record at id. Deleting a record that does not
// exist is not an error.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	_, err := g.run(ctx, "DELETE type::record($id)", map[string]any{"id": id})
	return err
}

// Relate creates a graph edge from source to target and returns the
// stored edge row. The edge name must be a plain identifier.
func (g *Gateway) Relate(ctx context.Context, source, edge, target string, data map[string]any) (map[string]any, error) {
	if !edgeNamePattern.MatchString(edge) {
		return nil, fmt.Errorf("%w: invalid edge name %q", core.ErrInvalidInput, edge)
	}

	query := fmt.Sprintf("RELATE type::record($in)->%s->type::record($out) CONTENT $data", edge)
	vars := map[string]any{
		"in":   source,
		"out":  target,
		"data": data,
	}
	if data == nil {
		query = fmt.Sprintf("RELATE type::record($in)->%s->type::record($out)", edge)
		delete(vars, "data")
	}

	rows, err := g.run(ctx, query, vars)
	if err != nil {
		return nil, err
	}
	return singleRow(rows)
}

func singleRow(rows []map[string]any) (map[string]any, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
