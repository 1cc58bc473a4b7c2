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

// Package index keeps the vector index in step with the catalog. Each
// run embeds the sources and notes whose text changed since the last
// run, tracked by content fingerprints in a persistent state record.
package index

import (
	"context"
	"encoding/hex"
	"log/slog"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/go-crypt/x/blake2b"
	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/quire/ai"
	"github.com/poiesic/quire/domain"
	"github.com/poiesic/quire/storage"
)

// Indexer embeds catalog content and writes the vectors to the
// embedding table.
type Indexer struct {
	catalog  *domain.Catalog
	store    storage.Store
	embedder ai.Embedder
	pool     *ants.Pool
	logger   *slog.Logger
	model    string
}

// Report summarizes one indexing run.
type Report struct {
	Indexed   int
	Unchanged int
	Skipped   int
	Failed    int
}

// Option configures an Indexer.
type Option func(*Indexer) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(ix *Indexer) error {
		if size < 1 {
			size = 1
		}
		if ix.pool != nil {
			ix.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		ix.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) error {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
		return nil
	}
}

// New creates an indexer. The model name is recorded with every vector
// and in the state record, so a model change forces a full re-index.
func New(catalog *domain.Catalog, store storage.Store, embedder ai.Embedder, model string, opts ...Option) (*Indexer, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	ix := &Indexer{
		catalog:  catalog,
		store:    store,
		embedder: embedder,
		pool:     pool,
		logger:   slog.Default().With("component", "index"),
		model:    model,
	}

	for _, opt := range opts {
		if optErr := opt(ix); optErr != nil {
			ix.Release()
			return nil, optErr
		}
	}
	return ix, nil
}

// Release frees the worker pool. The indexer must not be used after.
func (ix *Indexer) Release() {
	if ix.pool != nil {
		ix.pool.Release()
	}
}

// Run brings the index up to date and returns what it did. Individual
// record failures are logged and counted, not fatal.
func (ix *Indexer) Run(ctx context.Context) (*Report, error) {
	state := domain.NewIndexState()
	if err := ix.catalog.LoadRecord(ctx, state); err != nil {
		return nil, err
	}
	if state.Fingerprints == nil {
		state.Fingerprints = make(map[string]string)
	}
	if state.EmbeddingModel != "" && state.EmbeddingModel != ix.model {
		ix.logger.Info("embedding model changed, re-indexing everything",
			"was", state.EmbeddingModel, "now", ix.model)
		state.Fingerprints = make(map[string]string)
	}
	state.EmbeddingModel = ix.model

	candidates, err := ix.collect(ctx)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		report Report
	)

	for _, m := range candidates {
		if !domain.NeedsEmbedding(m) {
			report.Skipped++
			continue
		}

		id := m.RecordID()
		text := m.(domain.Embeddable).EmbeddingText()
		fp := fingerprint(text)

		mu.Lock()
		unchanged := state.Fingerprints[id] == fp
		mu.Unlock()
		if unchanged {
			report.Unchanged++
			continue
		}

		wg.Add(1)
		submitErr := ix.pool.Submit(func() {
			defer wg.Done()

			if err := ix.embed(ctx, id, text); err != nil {
				ix.logger.Warn("embedding failed", "id", id, "error", err)
				mu.Lock()
				report.Failed++
				mu.Unlock()
				return
			}

			mu.Lock()
			state.Fingerprints[id] = fp
			report.Indexed++
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			report.Failed++
			mu.Unlock()
		}
	}

	wg.Wait()

	state.SyncedAt = time.Now().UTC()
	if err := ix.catalog.SaveRecord(ctx, state); err != nil {
		return &report, err
	}

	ix.logger.Info("index run complete",
		"indexed", report.Indexed,
		"unchanged", report.Unchanged,
		"skipped", report.Skipped,
		"failed", report.Failed)
	return &report, nil
}

func (ix *Indexer) collect(ctx context.Context) ([]domain.Model, error) {
	sources, err := domain.All[domain.Source](ctx, ix.catalog, "")
	if err != nil {
		return nil, err
	}
	notes, err := domain.All[domain.Note](ctx, ix.catalog, "")
	if err != nil {
		return nil, err
	}

	out := make([]domain.Model, 0, len(sources)+len(notes))
	for _, s := range sources {
		out = append(out, s)
	}
	for _, n := range notes {
		out = append(out, n)
	}
	return out, nil
}

func (ix *Indexer) embed(ctx context.Context, id, text string) error {
	vector, err := ix.embedder.EmbedText(ctx, text)
	if err != nil {
		return err
	}

	_, err = ix.store.Upsert(ctx, embeddingID(id), map[string]any{
		"object":     id,
		"model":      ix.model,
		"vector":     vector,
		"indexed_at": time.Now().UTC(),
	})
	return err
}

// embeddingID derives the embedding record id from the object id. The
// object's own ":" cannot appear in the key.
func embeddingID(objectID string) string {
	return "embedding:" + strings.ReplaceAll(objectID, ":", "_")
}

// fingerprint hashes text so unchanged content is recognized across
// runs.
func fingerprint(text string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
