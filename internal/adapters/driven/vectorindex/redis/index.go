// Package redis provides a vector index backed by RediSearch HNSW.
//
// Each chunk is stored as a hash under "<prefix><chunk id>" holding its
// normalised float32 vector. A single HSET replaces the whole vector, which
// Redis applies atomically. Results are approximate (recall-bounded).
package redis

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/08nikhil/freshservice-Application/internal/adapters/driven/vectorindex/vecmath"
	"github.com/08nikhil/freshservice-Application/internal/core/domain"
	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

const (
	fieldVector  = "vector"
	fieldChunkID = "chunk_id"
	scoreAlias   = "score"

	defaultKeyPrefix      = "fsq:chunk:"
	defaultEFConstruction = 200
	defaultM              = 16
	infoTimeout           = 2 * time.Second
)

// Config holds Redis connection and index configuration.
type Config struct {
	Addr           string
	Password       string
	DB             int
	PoolSize       int
	IndexName      string
	KeyPrefix      string
	EFConstruction int
	M              int
}

// Index implements driven.VectorIndex on RediSearch.
type Index struct {
	client *redis.Client
	cfg    Config

	mu   sync.Mutex // guards index creation
	dims int
}

// New connects to Redis and opens the index if it already exists.
func New(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.IndexName == "" {
		cfg.IndexName = "fsquery-chunks"
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	if cfg.EFConstruction <= 0 {
		cfg.EFConstruction = defaultEFConstruction
	}
	if cfg.M <= 0 {
		cfg.M = defaultM
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		Protocol:    2, // FT.* replies are only stable in RESP2
		DialTimeout: 2 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: connect to redis at %s: %w", domain.ErrVectorIndexUnavailable, cfg.Addr, err)
	}

	idx := &Index{client: client, cfg: cfg}
	if dims, err := idx.existingDims(ctx); err == nil {
		idx.dims = dims
	}
	return idx, nil
}

// existingDims reads the vector dimension of an existing index.
func (idx *Index) existingDims(ctx context.Context) (int, error) {
	info, err := idx.client.Do(ctx, "FT.INFO", idx.cfg.IndexName).Result()
	if err != nil {
		return 0, err
	}
	return findInt(info, "dim")
}

// ensureIndex creates the HNSW index on first write.
func (idx *Index) ensureIndex(ctx context.Context, dims int) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dims != 0 {
		if idx.dims != dims {
			return fmt.Errorf("%w: index has %d dimensions, got %d", domain.ErrDimensionMismatch, idx.dims, dims)
		}
		return nil
	}

	err := idx.client.Do(ctx, "FT.CREATE", idx.cfg.IndexName,
		"ON", "HASH",
		"PREFIX", "1", idx.cfg.KeyPrefix,
		"SCHEMA",
		fieldVector, "VECTOR", "HNSW", "10",
		"TYPE", "FLOAT32",
		"DIM", strconv.Itoa(dims),
		"DISTANCE_METRIC", "COSINE",
		"EF_CONSTRUCTION", strconv.Itoa(idx.cfg.EFConstruction),
		"M", strconv.Itoa(idx.cfg.M),
		fieldChunkID, "TAG",
	).Err()
	if err != nil && !strings.Contains(err.Error(), "Index already exists") {
		return fmt.Errorf("%w: create index: %w", domain.ErrVectorIndexUnavailable, err)
	}

	idx.dims = dims
	return nil
}

func (idx *Index) key(chunkID string) string {
	return idx.cfg.KeyPrefix + chunkID
}

// Upsert inserts or replaces the vector for chunkID.
func (idx *Index) Upsert(ctx context.Context, chunkID string, embedding []float32) error {
	if chunkID == "" || len(embedding) == 0 {
		return fmt.Errorf("%w: upsert needs a chunk id and a vector", domain.ErrInvalidArgument)
	}
	if err := idx.ensureIndex(ctx, len(embedding)); err != nil {
		return err
	}

	err := idx.client.HSet(ctx, idx.key(chunkID),
		fieldVector, encodeVector(vecmath.Normalize(embedding)),
		fieldChunkID, chunkID,
	).Err()
	if err != nil {
		return fmt.Errorf("%w: upsert %s: %w", domain.ErrVectorIndexUnavailable, chunkID, err)
	}
	return nil
}

// Query runs a KNN search and returns hits best first.
func (idx *Index) Query(ctx context.Context, vector []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidArgument, k)
	}

	idx.mu.Lock()
	dims := idx.dims
	idx.mu.Unlock()
	if dims == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(vector) != dims {
		return nil, fmt.Errorf("%w: index has %d dimensions, query has %d", domain.ErrDimensionMismatch, dims, len(vector))
	}

	query := fmt.Sprintf("*=>[KNN %d @%s $vec AS %s]", k, fieldVector, scoreAlias)
	reply, err := idx.client.Do(ctx, "FT.SEARCH", idx.cfg.IndexName, query,
		"PARAMS", "2", "vec", encodeVector(vecmath.Normalize(vector)),
		"SORTBY", scoreAlias,
		"RETURN", "1", scoreAlias,
		"LIMIT", "0", strconv.Itoa(k),
		"DIALECT", "2",
	).Result()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: search: %w", domain.ErrVectorIndexUnavailable, err)
	}

	hits, err := parseSearchReply(reply, idx.cfg.KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
	}
	vecmath.SortHits(hits)
	return hits, nil
}

// Remove deletes the entry for chunkID. No-op if absent.
func (idx *Index) Remove(ctx context.Context, chunkID string) error {
	if err := idx.client.Del(ctx, idx.key(chunkID)).Err(); err != nil {
		return fmt.Errorf("%w: remove %s: %w", domain.ErrVectorIndexUnavailable, chunkID, err)
	}
	return nil
}

// Len returns the number of indexed documents reported by FT.INFO,
// or 0 if the index is unreachable.
func (idx *Index) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), infoTimeout)
	defer cancel()

	info, err := idx.client.Do(ctx, "FT.INFO", idx.cfg.IndexName).Result()
	if err != nil {
		return 0
	}
	n, err := findInt(info, "num_docs")
	if err != nil {
		return 0
	}
	return n
}

// Dimensions returns the fixed dimensionality, or 0 before the first upsert.
func (idx *Index) Dimensions() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.dims
}

// Close closes the Redis connection.
func (idx *Index) Close() error {
	if idx.client != nil {
		return idx.client.Close()
	}
	return nil
}

// encodeVector packs v as little-endian float32, the layout RediSearch expects.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

var errUnexpectedReply = errors.New("unexpected FT.SEARCH reply")

// parseSearchReply decodes a RESP2 FT.SEARCH reply of the form
// [total, key, [score, "0.12"], key, [...], ...]. The score is cosine
// distance, converted back to similarity in [0,1].
func parseSearchReply(reply any, prefix string) ([]driven.VectorHit, error) {
	values, ok := reply.([]any)
	if !ok || len(values) == 0 {
		return nil, errUnexpectedReply
	}

	hits := make([]driven.VectorHit, 0, (len(values)-1)/2)
	for i := 1; i+1 < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil, errUnexpectedReply
		}
		fields, ok := values[i+1].([]any)
		if !ok {
			return nil, errUnexpectedReply
		}

		dist := math.NaN()
		for j := 0; j+1 < len(fields); j += 2 {
			if name, _ := fields[j].(string); name == scoreAlias {
				raw, _ := fields[j+1].(string)
				d, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, fmt.Errorf("parse score for %s: %w", key, err)
				}
				dist = d
			}
		}
		if math.IsNaN(dist) {
			return nil, fmt.Errorf("%w: missing score for %s", errUnexpectedReply, key)
		}

		hits = append(hits, driven.VectorHit{
			ChunkID:    strings.TrimPrefix(key, prefix),
			Similarity: vecmath.Similarity(1 - dist),
		})
	}
	return hits, nil
}

// findInt looks up an integer attribute anywhere in a nested FT.INFO reply.
func findInt(reply any, name string) (int, error) {
	values, ok := reply.([]any)
	if !ok {
		return 0, fmt.Errorf("attribute %s not found", name)
	}
	for i, v := range values {
		if s, ok := v.(string); ok && strings.EqualFold(s, name) && i+1 < len(values) {
			switch n := values[i+1].(type) {
			case int64:
				return int(n), nil
			case string:
				return strconv.Atoi(n)
			}
		}
		if nested, ok := v.([]any); ok {
			if n, err := findInt(nested, name); err == nil {
				return n, nil
			}
		}
	}
	return 0, fmt.Errorf("attribute %s not found", name)
}
