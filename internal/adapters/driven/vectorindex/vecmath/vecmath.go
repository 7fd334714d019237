// Package vecmath holds the similarity helpers shared by vector index adapters.
package vecmath

import (
	"container/heap"
	"math"
	"sort"

	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
)

// Normalize returns an L2-normalised copy of v. A zero vector is returned as a
// zero copy, which scores 0.5 against everything.
func Normalize(v []float32) []float32 {
	out := make([]float32, len(v))
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return out
	}
	inv := 1 / math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

// Dot returns the inner product of equal-length vectors.
func Dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Similarity maps a cosine in [-1,1] to [0,1].
func Similarity(cos float64) float64 {
	s := (1 + cos) / 2
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	default:
		return s
	}
}

// Less orders hits by similarity descending, then chunk id ascending.
func Less(a, b driven.VectorHit) bool {
	if a.Similarity != b.Similarity {
		return a.Similarity > b.Similarity
	}
	return a.ChunkID < b.ChunkID
}

// SortHits sorts hits best first with deterministic ties.
func SortHits(hits []driven.VectorHit) {
	sort.Slice(hits, func(i, j int) bool { return Less(hits[i], hits[j]) })
}

// TopK keeps the k best hits seen so far.
type TopK struct {
	k    int
	hits worstFirst
}

// NewTopK returns a collector for k hits.
func NewTopK(k int) *TopK {
	return &TopK{k: k, hits: make(worstFirst, 0, k)}
}

// Push offers a hit to the collector.
func (t *TopK) Push(h driven.VectorHit) {
	if len(t.hits) < t.k {
		heap.Push(&t.hits, h)
		return
	}
	if Less(h, t.hits[0]) {
		t.hits[0] = h
		heap.Fix(&t.hits, 0)
	}
}

// Sorted returns the collected hits best first.
func (t *TopK) Sorted() []driven.VectorHit {
	out := make([]driven.VectorHit, len(t.hits))
	copy(out, t.hits)
	SortHits(out)
	return out
}

// worstFirst is a heap whose root is the worst retained hit.
type worstFirst []driven.VectorHit

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return Less(h[j], h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *worstFirst) Push(x any)        { *h = append(*h, x.(driven.VectorHit)) }
func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
