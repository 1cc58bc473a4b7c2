package domain

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/quire/core"
	"github.com/poiesic/quire/storage/storagetest"
)

func TestNotebookAddSource_SavesUnsaved(t *testing.T) {
	store := storagetest.New()
	c := testCatalog(t, store)

	nb := &Notebook{Name: "Thesis"}
	nb.ID = "notebook:1"

	src := &Source{Title: "Paper"}
	require.NoError(t, nb.AddSource(context.Background(), c, src))

	assert.True(t, src.Saved())
	calls := store.CallsTo("relate")
	require.Len(t, calls, 1)
	assert.Equal(t, "notebook:1", calls[0].In)
	assert.Equal(t, "notebook_source", calls[0].Edge)
	assert.Equal(t, src.ID, calls[0].Out)
}

func TestNotebookAddSource_UnsavedNotebook(t *testing.T) {
	c := testCatalog(t, storagetest.New())

	err := (&Notebook{Name: "draft"}).AddSource(context.Background(), c, &Source{})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestNotebookSources(t *testing.T) {
	store := storagetest.New()
	store.QueryFunc = func(ctx context.Context, query string, vars map[string]any) ([]map[string]any, error) {
		if strings.HasPrefix(query, "SELECT out FROM notebook_source") {
			return []map[string]any{
				{"out": "source:s1"},
				{"out": "source:s2"},
			}, nil
		}
		id := vars["id"].(string)
		return []map[string]any{{"id": id, "title": "Title " + core.KeyOf(id)}}, nil
	}
	c := testCatalog(t, store)

	nb := &Notebook{}
	nb.ID = "notebook:1"

	sources, err := nb.Sources(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "Title s1", sources[0].Title)
	assert.Equal(t, "Title s2", sources[1].Title)
}

func TestNotebookSources_Unsaved(t *testing.T) {
	c := testCatalog(t, storagetest.New())

	sources, err := (&Notebook{}).Sources(context.Background(), c)
	require.NoError(t, err)
	assert.Empty(t, sources)
}

func TestNotebookRemoveSource(t *testing.T) {
	store := storagetest.New()
	c := testCatalog(t, store)

	nb := &Notebook{}
	nb.ID = "notebook:1"
	src := &Source{}
	src.ID = "source:2"

	require.NoError(t, nb.RemoveSource(context.Background(), c, src))

	calls := store.CallsTo("query")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Query, "DELETE FROM notebook_source")
	assert.Equal(t, "notebook:1", calls[0].Vars["in"])
	assert.Equal(t, "source:2", calls[0].Vars["out"])
}

func TestSourceNotebooks_Inverse(t *testing.T) {
	store := storagetest.New()
	store.QueryFunc = func(ctx context.Context, query string, vars map[string]any) ([]map[string]any, error) {
		if strings.HasPrefix(query, "SELECT in FROM notebook_source") {
			assert.Equal(t, "source:s1", vars["id"])
			return []map[string]any{{"in": "notebook:1"}}, nil
		}
		return []map[string]any{{"id": "notebook:1", "name": "Thesis"}}, nil
	}
	c := testCatalog(t, store)

	src := &Source{}
	src.ID = "source:s1"

	notebooks, err := src.Notebooks(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, notebooks, 1)
	assert.Equal(t, "Thesis", notebooks[0].Name)
}

func TestNotebookNotes_Query(t *testing.T) {
	store := storagetest.New()
	store.QueryFunc = func(ctx context.Context, query string, vars map[string]any) ([]map[string]any, error) {
		assert.Equal(t, "SELECT * FROM note WHERE notebook = type::record($id) ORDER BY created DESC", query)
		assert.Equal(t, "notebook:1", vars["id"])
		return []map[string]any{{"id": "note:n1", "content": "first", "notebook": "notebook:1"}}, nil
	}
	c := testCatalog(t, store)

	nb := &Notebook{}
	nb.ID = "notebook:1"

	notes, err := nb.Notes(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "first", notes[0].Content)
}
