// Package hashing provides a local, deterministic embedding service based on
// feature hashing. It needs no network and no model download, which makes it
// the default for offline use and the embedder used throughout the tests.
//
// Each word contributes to one signed bucket, weighted by 1+ln(tf), and each
// of its character trigrams to another bucket at half weight, so that
// inflections ("ticket", "tickets") land close together. Vectors are L2
// normalised.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"

	"github.com/08nikhil/freshservice-Application/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	// DefaultModel is the model name recorded on vectors this service produces.
	DefaultModel = "hashing-v1"

	// DefaultDimensions is the vector size when none is configured.
	DefaultDimensions = 256

	trigramWeight = 0.5
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "by": {},
	"do": {}, "for": {}, "from": {}, "how": {}, "i": {}, "in": {}, "is": {}, "it": {},
	"of": {}, "on": {}, "or": {}, "that": {}, "the": {}, "this": {}, "to": {}, "what": {},
	"with": {}, "you": {}, "your": {}, "can": {}, "my": {},
}

// EmbeddingService is a stateless feature-hashing embedder.
type EmbeddingService struct {
	dimensions int
	model      string
}

// New creates a hashing embedder producing vectors of the given size.
func New(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions, model: DefaultModel}
}

// Embed returns the hashed vector for text. Text without any word yields the
// zero vector.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.vector(text), nil
}

// EmbedBatch embeds each text independently.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = s.vector(text)
	}
	return out, nil
}

func (s *EmbeddingService) vector(text string) []float32 {
	acc := make([]float64, s.dimensions)

	tf := make(map[string]int)
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := stopwords[w]; stop {
			continue
		}
		tf[w]++
	}

	for word, n := range tf {
		weight := 1 + math.Log(float64(n))
		s.add(acc, "w:"+word, weight)

		padded := []rune("^" + word + "$")
		for i := 0; i+3 <= len(padded); i++ {
			s.add(acc, "t:"+string(padded[i:i+3]), weight*trigramWeight)
		}
	}

	var norm float64
	for _, v := range acc {
		norm += v * v
	}
	vec := make([]float32, s.dimensions)
	if norm == 0 {
		return vec
	}
	norm = math.Sqrt(norm)
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}
	return vec
}

// add hashes feature into a bucket; one hash bit picks the sign so that
// collisions cancel in expectation.
func (s *EmbeddingService) add(acc []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := int(sum % uint64(s.dimensions))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	acc[bucket] += weight
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the model identifier stored alongside vectors.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
