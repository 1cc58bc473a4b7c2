package index

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/quire/domain"
	"github.com/poiesic/quire/storage/storagetest"
)

type stubEmbedder struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (s *stubEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	s.texts = append(s.texts, text)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (s *stubEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.EmbedText(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

// contentStore serves catalog listings from fixed rows and records
// writes like the plain test store.
func contentStore(sources, notes []map[string]any) *storagetest.Store {
	store := storagetest.New()
	store.QueryFunc = func(ctx context.Context, query string, vars map[string]any) ([]map[string]any, error) {
		switch {
		case strings.HasPrefix(query, "SELECT * FROM source"):
			return sources, nil
		case strings.HasPrefix(query, "SELECT * FROM note"):
			return notes, nil
		default:
			return nil, nil
		}
	}
	return store
}

func testIndexer(t *testing.T, store *storagetest.Store, embedder *stubEmbedder) *Indexer {
	t.Helper()
	catalog, err := domain.NewCatalog(store)
	require.NoError(t, err)

	ix, err := New(catalog, store, embedder, "text-embedding-3-small", WithPoolSize(1))
	require.NoError(t, err)
	t.Cleanup(ix.Release)
	return ix
}

func TestNew_MissingDependencies(t *testing.T) {
	store := storagetest.New()
	catalog, err := domain.NewCatalog(store)
	require.NoError(t, err)

	_, err = New(nil, store, &stubEmbedder{}, "m")
	assert.ErrorIs(t, err, ErrCatalogRequired)

	_, err = New(catalog, nil, &stubEmbedder{}, "m")
	assert.ErrorIs(t, err, ErrStoreRequired)

	_, err = New(catalog, store, nil, "m")
	assert.ErrorIs(t, err, ErrEmbedderRequired)
}

func TestRun_EmbedsNewContent(t *testing.T) {
	store := contentStore(
		[]map[string]any{{"id": "source:s1", "full_text": "the paper text"}},
		[]map[string]any{{"id": "note:n1", "content": "a remark", "notebook": "notebook:1"}},
	)
	embedder := &stubEmbedder{}
	ix := testIndexer(t, store, embedder)

	report, err := ix.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Indexed)
	assert.Equal(t, 0, report.Unchanged)
	assert.Equal(t, 0, report.Failed)

	upserts := store.CallsTo("upsert")
	require.Len(t, upserts, 3) // two vectors plus the state record

	var ids []string
	for _, call := range upserts {
		ids = append(ids, call.ID)
	}
	assert.Contains(t, ids, "embedding:source_s1")
	assert.Contains(t, ids, "embedding:note_n1")
	assert.Contains(t, ids, "index_state:main")
}

func TestRun_SkipsEmptyContent(t *testing.T) {
	store := contentStore(
		[]map[string]any{{"id": "source:s1", "is_processed": false}},
		nil,
	)
	embedder := &stubEmbedder{}
	ix := testIndexer(t, store, embedder)

	report, err := ix.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, report.Indexed)
	assert.Equal(t, 1, report.Skipped)
	assert.Empty(t, embedder.texts)
}

func TestRun_SecondRunUnchanged(t *testing.T) {
	sources := []map[string]any{{"id": "source:s1", "full_text": "stable text"}}
	store := contentStore(sources, nil)

	var savedState map[string]any
	store.UpsertFunc = func(ctx context.Context, id string, data map[string]any) (map[string]any, error) {
		if id == "index_state:main" {
			savedState = data
		}
		data["id"] = id
		return data, nil
	}

	embedder := &stubEmbedder{}
	ix := testIndexer(t, store, embedder)

	report, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Indexed)

	// Second run sees the state record the first one saved.
	store.QueryFunc = func(ctx context.Context, query string, vars map[string]any) ([]map[string]any, error) {
		switch {
		case strings.HasPrefix(query, "SELECT * FROM source"):
			return sources, nil
		case strings.HasPrefix(query, "SELECT * FROM note"):
			return nil, nil
		default:
			row := map[string]any{"id": "index_state:main"}
			for k, v := range savedState {
				row[k] = v
			}
			return []map[string]any{row}, nil
		}
	}

	report, err = ix.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Indexed)
	assert.Equal(t, 1, report.Unchanged)
	require.Len(t, embedder.texts, 1)
}

func TestRun_FailureCounted(t *testing.T) {
	store := contentStore(
		[]map[string]any{{"id": "source:s1", "full_text": "doomed"}},
		nil,
	)
	embedder := &stubEmbedder{err: errors.New("rate limited")}
	ix := testIndexer(t, store, embedder)

	report, err := ix.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 0, report.Indexed)
}

func TestFingerprint(t *testing.T) {
	a := fingerprint("some text")
	b := fingerprint("some text")
	c := fingerprint("other text")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}

func TestEmbeddingID(t *testing.T) {
	assert.Equal(t, "embedding:source_s1", embeddingID("source:s1"))
}
