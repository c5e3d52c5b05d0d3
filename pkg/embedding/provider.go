package embedding

import "time"

// Task types passed to providers that distinguish query and document
// embeddings (Gemini does; the others ignore it).
const (
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
)

// DefaultTimeout bounds every outbound embedding call. A provider that
// exceeds it fails the call; the retrieval cascade treats that as
// "no results from this stage" and falls through to lexical search.
const DefaultTimeout = 10 * time.Second

// EmbeddingProvider defines the interface for generating text embeddings
type EmbeddingProvider interface {
	Generate(text string, taskType string) (*EmbeddingResponse, error)
}

type EmbeddingResponseEmbedding struct {
	Values []float32 `json:"values"`
}

type EmbeddingResponse struct {
	Embedding EmbeddingResponseEmbedding `json:"embedding"`
}
