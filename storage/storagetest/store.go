// Package storagetest provides an in-process scripted Store for unit
// tests. Operations record their arguments and either run an injected
// function or fall back to a simple default.
package storagetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/poiesic/quire/storage"
)

// Call records one invocation of a store operation.
type Call struct {
	Op    string
	Query string
	Table string
	ID    string
	Edge  string
	In    string
	Out   string
	Data  map[string]any
	Vars  map[string]any
}

// Store is a scripted storage.Store double. Each operation can be
// overridden by assigning the matching func field; unassigned
// operations use defaults that behave like an empty database, except
// Create which assigns sequential "<table>:<n>" ids.
type Store struct {
	mu    sync.Mutex
	calls []Call
	seq   int

	QueryFunc  func(ctx context.Context, query string, vars map[string]any) ([]map[string]any, error)
	CreateFunc func(ctx context.Context, table string, data map[string]any) (map[string]any, error)
	UpdateFunc func(ctx context.Context, id string, data map[string]any) (map[string]any, error)
	UpsertFunc func(ctx context.Context, id string, data map[string]any) (map[string]any, error)
	DeleteFunc func(ctx context.Context, id string) error
	RelateFunc func(ctx context.Context, source, edge, target string, data map[string]any) (map[string]any, error)
}

var _ storage.Store = (*Store)(nil)

// New returns an empty scripted store.
func New() *Store {
	return &Store{}
}

func (s *Store) record(c Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

// Calls returns a copy of every recorded call in order.
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns the recorded calls for one operation name.
func (s *Store) CallsTo(op string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *Store) Query(ctx context.Context, query string, vars map[string]any) ([]map[string]any, error) {
	s.record(Call{Op: "query", Query: query, Vars: vars})
	if s.QueryFunc != nil {
		return s.QueryFunc(ctx, query, vars)
	}
	return nil, nil
}

func (s *Store) Create(ctx context.Context, table string, data map[string]any) (map[string]any, error) {
	s.record(Call{Op: "create", Table: table, Data: data})
	if s.CreateFunc != nil {
		return s.CreateFunc(ctx, table, data)
	}

	s.mu.Lock()
	s.seq++
	id := fmt.Sprintf("%s:%d", table, s.seq)
	s.mu.Unlock()

	row := make(map[string]any, len(data)+1)
	for k, v := range data {
		row[k] = v
	}
	row["id"] = id
	return row, nil
}

func (s *Store) Update(ctx context.Context, id string, data map[string]any) (map[string]any, error) {
	s.record(Call{Op: "update", ID: id, Data: data})
	if s.UpdateFunc != nil {
		return s.UpdateFunc(ctx, id, data)
	}

	row := make(map[string]any, len(data)+1)
	for k, v := range data {
		row[k] = v
	}
	row["id"] = id
	return row, nil
}

func (s *Store) Upsert(ctx context.Context, id string, data map[string]any) (map[string]any, error) {
	s.record(Call{Op: "upsert", ID: id, Data: data})
	if s.UpsertFunc != nil {
		return s.UpsertFunc(ctx, id, data)
	}

	row := make(map[string]any, len(data)+1)
	for k, v := range data {
		row[k] = v
	}
	row["id"] = id
	return row, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.record(Call{Op: "delete", ID: id})
	if s.DeleteFunc != nil {
		return s.DeleteFunc(ctx, id)
	}
	return nil
}

func (s *Store) Relate(ctx context.Context, source, edge, target string, data map[string]any) (map[string]any, error) {
	s.record(Call{Op: "relate", In: source, Edge: edge, Out: target, Data: data})
	if s.RelateFunc != nil {
		return s.RelateFunc(ctx, source, edge, target, data)
	}
	return map[string]any{"in": source, "out": target}, nil
}
