// Package memory provides an exact in-process vector index.
//
// Readers never lock: Query loads an immutable snapshot through an atomic
// pointer and each entry's vector is itself swapped atomically, so a reader
// sees either the old or the new vector for a chunk. Writers are serialised
// by a mutex and never block readers.
package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/vectorindex/vecmath"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// ctxCheckEvery is how many entries are scanned between cancellation checks.
const ctxCheckEvery = 1024

type entry struct {
	id  string
	vec atomic.Pointer[[]float32] // nil once removed
}

type snapshot struct {
	entries []*entry
	dims    int
	live    int
}

// Index is an exact linear-scan nearest-neighbour index.
type Index struct {
	mu         sync.Mutex // serialises writers
	byID       map[string]*entry
	tombstones int
	snap       atomic.Pointer[snapshot]
}

// New creates an empty index.
func New() *Index {
	idx := &Index{byID: make(map[string]*entry)}
	idx.snap.Store(&snapshot{})
	return idx
}

// Upsert inserts or replaces the vector for chunkID.
func (idx *Index) Upsert(_ context.Context, chunkID string, embedding []float32) error {
	if chunkID == "" || len(embedding) == 0 {
		return fmt.Errorf("%w: upsert needs a chunk id and a vector", domain.ErrInvalidArgument)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	cur := idx.snap.Load()
	if cur.dims != 0 && cur.dims != len(embedding) {
		return fmt.Errorf("%w: index has %d dimensions, got %d", domain.ErrDimensionMismatch, cur.dims, len(embedding))
	}

	vec := vecmath.Normalize(embedding)
	if e, ok := idx.byID[chunkID]; ok {
		e.vec.Store(&vec)
		return nil
	}

	e := &entry{id: chunkID}
	e.vec.Store(&vec)
	idx.byID[chunkID] = e

	// Appending may write into spare capacity shared with older snapshots;
	// their readers never look past their own length.
	idx.snap.Store(&snapshot{
		entries: append(cur.entries, e),
		dims:    len(embedding),
		live:    cur.live + 1,
	})
	return nil
}

// Query returns the k most similar entries, ties broken by lower chunk id.
func (idx *Index) Query(ctx context.Context, vector []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidArgument, k)
	}

	snap := idx.snap.Load()
	if snap.live == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(vector) != snap.dims {
		return nil, fmt.Errorf("%w: index has %d dimensions, query has %d", domain.ErrDimensionMismatch, snap.dims, len(vector))
	}

	q := vecmath.Normalize(vector)
	top := vecmath.NewTopK(min(k, snap.live))
	for i, e := range snap.entries {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		vec := e.vec.Load()
		if vec == nil {
			continue
		}
		top.Push(driven.VectorHit{
			ChunkID:    e.id,
			Similarity: vecmath.Similarity(vecmath.Dot(q, *vec)),
		})
	}

	return top.Sorted(), nil
}

// Remove deletes the entry for chunkID. No-op if absent.
func (idx *Index) Remove(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	e, ok := idx.byID[chunkID]
	if !ok {
		return nil
	}
	delete(idx.byID, chunkID)
	e.vec.Store(nil)
	idx.tombstones++

	cur := idx.snap.Load()
	next := &snapshot{entries: cur.entries, dims: cur.dims, live: cur.live - 1}
	if idx.tombstones > len(cur.entries)/2 {
		next.entries = compact(cur.entries, cur.live-1)
		idx.tombstones = 0
	}
	idx.snap.Store(next)
	return nil
}

// compact copies live entries into a fresh slice so removed entries can be
// collected. Older snapshots keep their own slice.
func compact(entries []*entry, live int) []*entry {
	out := make([]*entry, 0, live)
	for _, e := range entries {
		if e.vec.Load() != nil {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of live entries.
func (idx *Index) Len() int {
	return idx.snap.Load().live
}

// Dimensions returns the fixed dimensionality, or 0 before the first upsert.
func (idx *Index) Dimensions() int {
	return idx.snap.Load().dims
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}
