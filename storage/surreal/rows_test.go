package surreal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

func TestNormalizeRow_RecordIDs(t *testing.T) {
	row := map[string]any{
		"id":   models.NewRecordID("notebook", "abc"),
		"name": "Research",
	}

	got := normalizeRow(row)
	assert.Equal(t, "notebook:abc", got["id"])
	assert.Equal(t, "Research", got["name"])
}

func TestNormalizeRow_Datetimes(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	row := map[string]any{
		"created": models.CustomDateTime{Time: ts},
	}

	got := normalizeRow(row)
	assert.Equal(t, ts, got["created"])
}

func TestNormalizeRow_Nested(t *testing.T) {
	row := map[string]any{
		"meta": map[string]any{
			"ref": models.NewRecordID("source", "s1"),
		},
		"links": []any{
			models.NewRecordID("note", "n1"),
			"plain",
		},
	}

	got := normalizeRow(row)
	meta := got["meta"].(map[string]any)
	assert.Equal(t, "source:s1", meta["ref"])
	links := got["links"].([]any)
	assert.Equal(t, "note:n1", links[0])
	assert.Equal(t, "plain", links[1])
}

func TestNormalizeRow_Nil(t *testing.T) {
	assert.Nil(t, normalizeRow(nil))
}

func TestEdgeNamePattern(t *testing.T) {
	assert.True(t, edgeNamePattern.MatchString("notebook_source"))
	assert.True(t, edgeNamePattern.MatchString("refers_to"))
	assert.False(t, edgeNamePattern.MatchString("bad-edge"))
	assert.False(t, edgeNamePattern.MatchString("a b"))
	assert.False(t, edgeNamePattern.MatchString(""))
	assert.False(t, edgeNamePattern.MatchString("1edge"))
	assert.False(t, edgeNamePattern.MatchString("edge; DELETE x"))
}
