package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/08nikhil/freshservice-Application/internal/core/domain"
)

func TestEncodeVector(t *testing.T) {
	blob := encodeVector([]float32{1, -2})

	assert.Equal(t, []byte{0x00, 0x00, 0x80, 0x3f, 0x00, 0x00, 0x00, 0xc0}, blob)
}

func TestParseSearchReply(t *testing.T) {
	reply := []any{
		int64(2),
		"fsq:chunk:doc-a#0001", []any{"score", "0.2"},
		"fsq:chunk:doc-b#0000", []any{"score", "0"},
	}

	hits, err := parseSearchReply(reply, defaultKeyPrefix)

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "doc-a#0001", hits[0].ChunkID)
	assert.InDelta(t, 0.9, hits[0].Similarity, 1e-9)
	assert.Equal(t, "doc-b#0000", hits[1].ChunkID)
	assert.InDelta(t, 1.0, hits[1].Similarity, 1e-9)
}

func TestParseSearchReply_Empty(t *testing.T) {
	hits, err := parseSearchReply([]any{int64(0)}, defaultKeyPrefix)

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestParseSearchReply_Malformed(t *testing.T) {
	tests := map[string]any{
		"not a list":    "OK",
		"empty list":    []any{},
		"bad key":       []any{int64(1), 42, []any{"score", "0.1"}},
		"bad fields":    []any{int64(1), "k", "score"},
		"missing score": []any{int64(1), "k", []any{"other", "1"}},
		"bad score":     []any{int64(1), "k", []any{"score", "x"}},
	}

	for name, reply := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseSearchReply(reply, defaultKeyPrefix)
			assert.Error(t, err)
		})
	}
}

func TestFindInt(t *testing.T) {
	info := []any{
		"index_name", "fsquery-chunks",
		"num_docs", int64(42),
		"attributes", []any{
			[]any{"identifier", "vector", "type", "VECTOR", "dim", "384"},
		},
	}

	n, err := findInt(info, "num_docs")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	dims, err := findInt(info, "dim")
	require.NoError(t, err)
	assert.Equal(t, 384, dims)

	_, err = findInt(info, "missing")
	assert.Error(t, err)
}

func TestNew_Unreachable(t *testing.T) {
	_, err := New(context.Background(), Config{Addr: "127.0.0.1:1"})

	assert.ErrorIs(t, err, domain.ErrVectorIndexUnavailable)
}

func TestQuery_ArgumentChecksBeforeNetwork(t *testing.T) {
	idx := &Index{cfg: Config{KeyPrefix: defaultKeyPrefix}}

	_, err := idx.Query(context.Background(), []float32{1}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	hits, err := idx.Query(context.Background(), []float32{1}, 3)
	require.NoError(t, err)
	assert.Empty(t, hits)

	idx.dims = 2
	_, err = idx.Query(context.Background(), []float32{1}, 3)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	assert.ErrorIs(t, idx.Upsert(context.Background(), "", []float32{1}), domain.ErrInvalidArgument)
}
