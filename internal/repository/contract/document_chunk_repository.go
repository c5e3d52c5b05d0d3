package contract

import (
	"context"

	"document-search-be/internal/entity"
	"document-search-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredDocumentChunk wraps a DocumentChunk with its similarity score.
type ScoredDocumentChunk struct {
	Chunk      *entity.DocumentChunk
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type DocumentChunkRepository interface {
	Create(ctx context.Context, chunk *entity.DocumentChunk, embedding []float32) error
	CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk, embeddings [][]float32) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore runs pgvector cosine search, filtered by
	// threshold and (optionally) the owning document's file type.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, fileType string) ([]*ScoredDocumentChunk, error)
	// SearchText runs a lexical OR-containment query over chunk content.
	// No similarity is computed; callers assign a fixed value to hits.
	SearchText(ctx context.Context, terms []string, limit int) ([]*entity.DocumentChunk, error)
}
