package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/quire/core"
	"github.com/poiesic/quire/storage/storagetest"
)

func TestNoteSave_MirrorsFullText(t *testing.T) {
	store := storagetest.New()
	c := testCatalog(t, store)

	note := &Note{Content: "observation", NotebookID: "notebook:1"}
	require.NoError(t, c.Save(context.Background(), note))

	calls := store.CallsTo("create")
	require.Len(t, calls, 1)
	assert.Equal(t, "observation", calls[0].Data["full_text"])
}

func TestNoteSave_KeepsExplicitFullText(t *testing.T) {
	store := storagetest.New()
	c := testCatalog(t, store)

	note := &Note{Content: "short", FullText: "the long extracted text", NotebookID: "notebook:1"}
	require.NoError(t, c.Save(context.Background(), note))

	calls := store.CallsTo("create")
	require.Len(t, calls, 1)
	assert.Equal(t, "the long extracted text", calls[0].Data["full_text"])
}

func TestNoteNotebook_Unset(t *testing.T) {
	c := testCatalog(t, storagetest.New())

	note := &Note{Content: "floating"}
	_, err := note.Notebook(context.Background(), c)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestNoteNotebook_Dangling(t *testing.T) {
	c := testCatalog(t, storagetest.New())

	note := &Note{Content: "orphan", NotebookID: "notebook:gone"}
	_, err := note.Notebook(context.Background(), c)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestNoteSource_Unset(t *testing.T) {
	c := testCatalog(t, storagetest.New())

	note := &Note{Content: "standalone", NotebookID: "notebook:1"}
	src, err := note.Source(context.Background(), c)
	require.NoError(t, err)
	assert.Nil(t, src)
}

func TestNoteEmbeddingText(t *testing.T) {
	note := &Note{Content: "content"}
	assert.Equal(t, "content", note.EmbeddingText())

	note.FullText = "extracted"
	assert.Equal(t, "extracted", note.EmbeddingText())

	assert.True(t, NeedsEmbedding(note))
	assert.False(t, NeedsEmbedding(&Note{}))
	assert.False(t, NeedsEmbedding(&Notebook{Name: "not embeddable"}))
}
