package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStoreOpenGetClose(t *testing.T) {
	store := NewDocumentStore()
	uri := "file:///scratch/query.sql"

	store.Open(uri, "SELECT * FROM users", 1)

	doc := store.Get(uri)
	require.NotNil(t, doc)
	assert.Equal(t, uri, doc.URI)
	assert.Equal(t, "SELECT * FROM users", doc.Content)
	assert.Equal(t, 1, doc.Version)

	store.Close(uri)
	assert.Nil(t, store.Get(uri))
}

func TestDocumentStoreUpdate(t *testing.T) {
	store := NewDocumentStore()
	uri := "file:///scratch/query.sql"

	store.Open(uri, "SELECT 1", 1)
	store.Update(uri, "SELECT 2", 2)

	doc := store.Get(uri)
	require.NotNil(t, doc)
	assert.Equal(t, "SELECT 2", doc.Content)
	assert.Equal(t, 2, doc.Version)
}

func TestPositionOffsetRoundTrip(t *testing.T) {
	store := NewDocumentStore()
	uri := "file:///scratch/query.sql"
	store.Open(uri, "SELECT id\nFROM users\nWHERE id = 1", 1)
	doc := store.Get(uri)

	tests := []struct {
		name   string
		pos    Position
		offset int
	}{
		{"start of document", Position{Line: 0, Character: 0}, 0},
		{"middle of first line", Position{Line: 0, Character: 7}, 7},
		{"start of second line", Position{Line: 1, Character: 0}, 10},
		{"inside third line", Position{Line: 2, Character: 6}, 27},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.offset, doc.PositionToOffset(tt.pos))
			assert.Equal(t, tt.pos, doc.OffsetToPosition(tt.offset))
		})
	}
}

func TestPositionOffsetClamping(t *testing.T) {
	store := NewDocumentStore()
	uri := "file:///scratch/query.sql"
	store.Open(uri, "SELECT 1", 1)
	doc := store.Get(uri)

	assert.Equal(t, 8, doc.PositionToOffset(Position{Line: 9, Character: 0}), "line past end clamps")
	assert.Equal(t, 8, doc.PositionToOffset(Position{Line: 0, Character: 99}), "character past end clamps")
	assert.Equal(t, Position{Line: 0, Character: 8}, doc.OffsetToPosition(200))
	assert.Equal(t, Position{}, doc.OffsetToPosition(-5))
}
