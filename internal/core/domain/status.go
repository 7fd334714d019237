package domain

import "time"

// IndexStatus is a live snapshot of the corpus and provider health.
type IndexStatus struct {
	Documents           int       `json:"total_documents"`
	Chunks              int       `json:"index_size"`
	Dimensions          int       `json:"dimensions"`
	IndexKind           string    `json:"vector_index"`
	EmbeddingModel      string    `json:"embedding_model"`
	GenerationModel     string    `json:"generation_model,omitempty"`
	EmbeddingReachable  bool      `json:"embedding_reachable"`
	GenerationReachable bool      `json:"generation_reachable"`
	LastUpdated         time.Time `json:"last_updated"`
}

// Ready reports whether queries can be served.
func (s IndexStatus) Ready() bool {
	return s.Chunks > 0 && s.EmbeddingReachable
}
