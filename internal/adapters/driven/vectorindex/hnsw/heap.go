package hnsw

import (
	"container/heap"
	"sort"
)

type candidate struct {
	id  int32
	sim float64
}

// closest returns up to n candidates with the highest similarity.
func closest(cs []candidate, n int) []candidate {
	out := make([]candidate, len(cs))
	copy(out, cs)
	sort.Slice(out, func(i, j int) bool {
		if out[i].sim != out[j].sim {
			return out[i].sim > out[j].sim
		}
		return out[i].id < out[j].id
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func best(cs []candidate) candidate {
	b := cs[0]
	for _, c := range cs[1:] {
		if c.sim > b.sim {
			b = c
		}
	}
	return b
}

// maxHeap pops the most similar candidate first.
type maxHeap []candidate

func (h maxHeap) Len() int           { return len(h) }
func (h maxHeap) Less(i, j int) bool { return h[i].sim > h[j].sim }
func (h maxHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *maxHeap) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *maxHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

// minHeap keeps the least similar retained candidate at the root.
type minHeap []candidate

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i].sim < h[j].sim }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)        { *h = append(*h, x.(candidate)) }
func (h *minHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

func pushMax(h *maxHeap, c candidate) { heap.Push(h, c) }
func popMax(h *maxHeap) candidate     { return heap.Pop(h).(candidate) }
func pushMin(h *minHeap, c candidate) { heap.Push(h, c) }
func popMin(h *minHeap) candidate     { return heap.Pop(h).(candidate) }
