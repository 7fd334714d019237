package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocument_Validate(t *testing.T) {
	tests := []struct {
		name    string
		doc     *Document
		wantErr bool
	}{
		{"nil document", nil, true},
		{"missing id", &Document{Content: "text"}, true},
		{"empty content", &Document{ID: "d1"}, true},
		{"whitespace content", &Document{ID: "d1", Content: " \n\t "}, true},
		{"valid", &Document{ID: "d1", Content: "Create a ticket"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.doc.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDocument)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestChunkID(t *testing.T) {
	assert.Equal(t, "doc-1#0000", ChunkID("doc-1", 0))
	assert.Equal(t, "doc-1#0042", ChunkID("doc-1", 42))
	assert.Less(t, ChunkID("doc-1", 9), ChunkID("doc-1", 10))
}

func TestDocumentIDFromChunkID(t *testing.T) {
	assert.Equal(t, "doc-1", DocumentIDFromChunkID(ChunkID("doc-1", 3)))
	assert.Equal(t, "a#b", DocumentIDFromChunkID("a#b#0001"))
	assert.Equal(t, "plain", DocumentIDFromChunkID("plain"))
}
