// Package hnsw provides an approximate in-process vector index based on
// hierarchical navigable small world graphs.
//
// Results are recall-bounded, not exact: raising EfSearch trades latency for
// recall. Queries share a read lock that is held only for the in-memory graph
// walk; writes take the exclusive lock. Replacing a chunk's vector tombstones
// the old node and links a new one, so readers see the old or the new vector.
// Once tombstones outnumber live nodes the graph is relinked from the live
// nodes alone.
package hnsw

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/vectorindex/vecmath"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default graph parameters.
const (
	DefaultM              = 16
	DefaultEfConstruction = 200
	DefaultEfSearch       = 64
)

// Config holds graph parameters.
type Config struct {
	// M is the neighbour count per node above layer 0 (2*M on layer 0).
	M int

	// EfConstruction is the candidate list size while linking.
	EfConstruction int

	// EfSearch is the candidate list size while querying.
	EfSearch int

	// Seed makes level assignment reproducible.
	Seed int64
}

type node struct {
	id      string
	vec     []float32
	friends [][]int32
	deleted bool
}

// Index is an HNSW graph over normalised vectors.
type Index struct {
	mu        sync.RWMutex
	nodes     []*node
	byID      map[string]int32
	entry     int32
	maxLevel  int
	dims      int
	live      int
	m         int
	m0        int
	efC       int
	efS       int
	levelMult float64
	rng       *rand.Rand
}

// New creates an empty index.
func New(cfg Config) *Index {
	if cfg.M <= 1 {
		cfg.M = DefaultM
	}
	if cfg.EfConstruction <= 0 {
		cfg.EfConstruction = DefaultEfConstruction
	}
	if cfg.EfSearch <= 0 {
		cfg.EfSearch = DefaultEfSearch
	}
	return &Index{
		byID:      make(map[string]int32),
		entry:     -1,
		m:         cfg.M,
		m0:        2 * cfg.M,
		efC:       cfg.EfConstruction,
		efS:       cfg.EfSearch,
		levelMult: 1 / math.Log(float64(cfg.M)),
		rng:       rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Upsert inserts or replaces the vector for chunkID.
func (idx *Index) Upsert(_ context.Context, chunkID string, embedding []float32) error {
	if chunkID == "" || len(embedding) == 0 {
		return fmt.Errorf("%w: upsert needs a chunk id and a vector", domain.ErrInvalidArgument)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dims != 0 && idx.dims != len(embedding) {
		return fmt.Errorf("%w: index has %d dimensions, got %d", domain.ErrDimensionMismatch, idx.dims, len(embedding))
	}
	idx.dims = len(embedding)

	if old, ok := idx.byID[chunkID]; ok {
		idx.nodes[old].deleted = true
		idx.live--
	}

	idx.insert(chunkID, vecmath.Normalize(embedding))
	idx.live++
	idx.compact()
	return nil
}

// compact rebuilds the graph from live nodes when tombstones outnumber them.
// Caller holds the write lock.
func (idx *Index) compact() {
	if len(idx.nodes)-idx.live <= idx.live {
		return
	}
	old := idx.nodes
	idx.nodes = make([]*node, 0, idx.live)
	idx.byID = make(map[string]int32, idx.live)
	idx.entry = -1
	idx.maxLevel = 0
	for _, n := range old {
		if !n.deleted {
			idx.insert(n.id, n.vec)
		}
	}
}

func (idx *Index) randomLevel() int {
	return int(math.Floor(-math.Log(1-idx.rng.Float64()) * idx.levelMult))
}

// insert links a new node into the graph. Caller holds the write lock.
func (idx *Index) insert(id string, vec []float32) {
	level := idx.randomLevel()
	n := &node{id: id, vec: vec, friends: make([][]int32, level+1)}
	pos := int32(len(idx.nodes))
	idx.nodes = append(idx.nodes, n)
	idx.byID[id] = pos

	if idx.entry < 0 {
		idx.entry = pos
		idx.maxLevel = level
		return
	}

	cur := idx.entry
	for l := idx.maxLevel; l > level; l-- {
		cur = idx.greedy(vec, cur, l)
	}

	for l := min(level, idx.maxLevel); l >= 0; l-- {
		found := idx.searchLayer(vec, cur, idx.efC, l)
		limit := idx.m
		if l == 0 {
			limit = idx.m0
		}
		neighbours := closest(found, limit)
		n.friends[l] = make([]int32, 0, len(neighbours))
		for _, c := range neighbours {
			n.friends[l] = append(n.friends[l], c.id)
			idx.link(c.id, pos, l, limit)
		}
		if len(found) > 0 {
			cur = best(found).id
		}
	}

	if level > idx.maxLevel {
		idx.maxLevel = level
		idx.entry = pos
	}
}

// link adds to as a neighbour of from on layer l, pruning to limit.
func (idx *Index) link(from, to int32, l, limit int) {
	f := idx.nodes[from]
	f.friends[l] = append(f.friends[l], to)
	if len(f.friends[l]) <= limit {
		return
	}
	scored := make([]candidate, 0, len(f.friends[l]))
	for _, id := range f.friends[l] {
		scored = append(scored, candidate{id: id, sim: vecmath.Dot(f.vec, idx.nodes[id].vec)})
	}
	kept := closest(scored, limit)
	f.friends[l] = f.friends[l][:0]
	for _, c := range kept {
		f.friends[l] = append(f.friends[l], c.id)
	}
}

// greedy walks layer l towards q starting at from.
func (idx *Index) greedy(q []float32, from int32, l int) int32 {
	cur := from
	curSim := vecmath.Dot(q, idx.nodes[cur].vec)
	for changed := true; changed; {
		changed = false
		for _, nb := range idx.nodes[cur].friends[l] {
			if s := vecmath.Dot(q, idx.nodes[nb].vec); s > curSim {
				cur, curSim, changed = nb, s, true
			}
		}
	}
	return cur
}

// searchLayer returns up to ef nodes on layer l close to q, deleted ones included
// so the graph stays navigable.
func (idx *Index) searchLayer(q []float32, from int32, ef, l int) []candidate {
	visited := map[int32]struct{}{from: {}}
	start := candidate{id: from, sim: vecmath.Dot(q, idx.nodes[from].vec)}
	frontier := &maxHeap{start}
	results := &minHeap{start}

	for frontier.Len() > 0 {
		c := popMax(frontier)
		if results.Len() >= ef && c.sim < (*results)[0].sim {
			break
		}
		for _, nb := range idx.nodes[c.id].friends[l] {
			if _, seen := visited[nb]; seen {
				continue
			}
			visited[nb] = struct{}{}
			s := vecmath.Dot(q, idx.nodes[nb].vec)
			if results.Len() < ef || s > (*results)[0].sim {
				pushMax(frontier, candidate{id: nb, sim: s})
				pushMin(results, candidate{id: nb, sim: s})
				if results.Len() > ef {
					popMin(results)
				}
			}
		}
	}
	return *results
}

// Query returns up to k approximate nearest entries.
func (idx *Index) Query(ctx context.Context, vector []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidArgument, k)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.live == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(vector) != idx.dims {
		return nil, fmt.Errorf("%w: index has %d dimensions, query has %d", domain.ErrDimensionMismatch, idx.dims, len(vector))
	}

	q := vecmath.Normalize(vector)
	cur := idx.entry
	for l := idx.maxLevel; l > 0; l-- {
		cur = idx.greedy(q, cur, l)
	}
	// Tombstones occupy candidate slots, so widen the beam by their share.
	ef := max(idx.efS, k) + len(idx.nodes) - idx.live
	found := idx.searchLayer(q, cur, ef, 0)

	top := vecmath.NewTopK(min(k, idx.live))
	for _, c := range found {
		n := idx.nodes[c.id]
		if n.deleted {
			continue
		}
		top.Push(driven.VectorHit{ChunkID: n.id, Similarity: vecmath.Similarity(c.sim)})
	}
	return top.Sorted(), nil
}

// Remove deletes the entry for chunkID. No-op if absent.
func (idx *Index) Remove(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pos, ok := idx.byID[chunkID]
	if !ok {
		return nil
	}
	delete(idx.byID, chunkID)
	idx.nodes[pos].deleted = true
	idx.live--
	idx.compact()
	return nil
}

// Len returns the number of live entries.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.live
}

// Dimensions returns the fixed dimensionality, or 0 before the first upsert.
func (idx *Index) Dimensions() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dims
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}
