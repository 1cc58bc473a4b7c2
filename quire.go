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

// Package quire wires the persistent research catalog together: a
// SurrealDB gateway, the entity catalog on top of it, model providers
// resolved from stored settings, and the vector indexer.
package quire

import (
	"context"
	"log/slog"

	"github.com/poiesic/quire/ai"
	"github.com/poiesic/quire/domain"
	"github.com/poiesic/quire/index"
	"github.com/poiesic/quire/storage"
	"github.com/poiesic/quire/storage/surreal"
)

// App is the assembled application: one store connection config and
// the catalog bound to it.
type App struct {
	store   storage.Store
	catalog *domain.Catalog
	logger  *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	store  storage.Store
	logger *slog.Logger
}

// WithStore replaces the SurrealDB gateway with another store. Tests
// use this to run against a double.
func WithStore(store storage.Store) AppOption {
	return func(o *appOptions) {
		o.store = store
	}
}

// WithLogger sets the application logger.
func WithLogger(logger *slog.Logger) AppOption {
	return func(o *appOptions) {
		o.logger = logger
	}
}

// Open assembles an App against the database described by config. No
// connection is made until the first operation.
func Open(config surreal.Config, opts ...AppOption) (*App, error) {
	options := &appOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	store := options.store
	if store == nil {
		gateway, err := surreal.NewGateway(config)
		if err != nil {
			return nil, err
		}
		store = gateway
	}

	catalog, err := domain.NewCatalog(store, domain.WithLogger(options.logger.With("component", "catalog")))
	if err != nil {
		return nil, err
	}

	return &App{
		store:   store,
		catalog: catalog,
		logger:  options.logger,
	}, nil
}

// Catalog returns the entity catalog.
func (a *App) Catalog() *domain.Catalog {
	return a.catalog
}

// Store returns the underlying store, for callers that need raw
// queries.
func (a *App) Store() storage.Store {
	return a.store
}

// Settings loads the stored application settings, falling back to
// defaults when no record exists yet.
func (a *App) Settings(ctx context.Context) (*domain.Settings, error) {
	settings := domain.DefaultSettings()
	if err := a.catalog.LoadRecord(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// Models builds the model registry from the stored settings.
func (a *App) Models(ctx context.Context) (*ai.Registry, error) {
	settings, err := a.Settings(ctx)
	if err != nil {
		return nil, err
	}
	return ai.NewRegistry(settings)
}

// NewIndexer builds a vector indexer from the stored settings. The
// caller owns the indexer and must Release it.
func (a *App) NewIndexer(ctx context.Context, opts ...index.Option) (*index.Indexer, error) {
	settings, err := a.Settings(ctx)
	if err != nil {
		return nil, err
	}

	registry, err := ai.NewRegistry(settings)
	if err != nil {
		return nil, err
	}
	embedder, err := registry.Embedder()
	if err != nil {
		return nil, err
	}

	return index.New(a.catalog, a.store, embedder, settings.EmbeddingModel, opts...)
}
