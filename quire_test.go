package quire

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/quire/domain"
	"github.com/poiesic/quire/storage/storagetest"
	"github.com/poiesic/quire/storage/surreal"
)

func TestOpen_WithStore(t *testing.T) {
	store := storagetest.New()
	app, err := Open(surreal.Config{}, WithStore(store))
	require.NoError(t, err)

	assert.Same(t, store, app.Store())
	assert.NotNil(t, app.Catalog())
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(surreal.Config{})
	require.Error(t, err)
}

func TestSettings_Defaults(t *testing.T) {
	app, err := Open(surreal.Config{}, WithStore(storagetest.New()))
	require.NoError(t, err)

	settings, err := app.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-pro", settings.DefaultModel)
}

func TestModels_FromStoredSettings(t *testing.T) {
	store := storagetest.New()
	store.QueryFunc = func(ctx context.Context, query string, vars map[string]any) ([]map[string]any, error) {
		return []map[string]any{{
			"id":             "settings:main",
			"openai_api_key": "sk-test",
		}}, nil
	}

	app, err := Open(surreal.Config{}, WithStore(store))
	require.NoError(t, err)

	registry, err := app.Models(context.Background())
	require.NoError(t, err)
	assert.True(t, registry.Supports("gpt-4o"))
}

func TestEndToEnd_SaveAndList(t *testing.T) {
	store := storagetest.New()
	app, err := Open(surreal.Config{}, WithStore(store))
	require.NoError(t, err)

	nb := &domain.Notebook{Name: "Field Work"}
	require.NoError(t, app.Catalog().Save(context.Background(), nb))
	assert.True(t, nb.Saved())

	src := &domain.Source{Title: "Interview Transcript", FullText: "the transcript"}
	require.NoError(t, nb.AddSource(context.Background(), app.Catalog(), src))

	relates := store.CallsTo("relate")
	require.Len(t, relates, 1)
	assert.Equal(t, nb.RecordID(), relates[0].In)
	assert.Equal(t, src.RecordID(), relates[0].Out)
}
