package storage

import "context"

// Store issues commands against the graph-document store. Each method
// acquires and releases its own connection; success or failure, nothing
// is held across calls.
type Store interface {
	// Query runs a parameterized query and returns the decoded rows of
	// every statement in it.
	Query(ctx context.Context, query string, vars map[string]any) ([]map[string]any, error)

	// Create inserts a new record into table and returns the created row,
	// including the identifier the store assigned.
	Create(ctx context.Context, table string, data map[string]any) (map[string]any, error)

	// Update replaces the full document behind id and returns the row
	// after the write.
	Update(ctx context.Context, id string, data map[string]any) (map[string]any, error)

	// Upsert creates or replaces the document behind a caller-chosen id.
	Upsert(ctx context.Context, id string, data map[string]any) (map[string]any, error)

	// Delete removes the record behind id. Deleting an absent id is not
	// an error.
	Delete(ctx context.Context, id string) error

	// Relate creates a directed edge source -[edge]-> target carrying an
	// optional attribute payload, and returns the created edge row.
	Relate(ctx context.Context, source, edge, target string, data map[string]any) (map[string]any, error)
}
