package dto

import (
	"time"

	"github.com/google/uuid"
)

type SearchRequest struct {
	Query       string `json:"query" query:"query" validate:"required"`
	FileType    string `json:"file_type" query:"file_type"`
	UseReranker *bool  `json:"use_reranker" query:"use_reranker"` // nil = default (true)
	Limit       int    `json:"limit" query:"limit"`
}

type SearchResultItem struct {
	DocumentId         uuid.UUID              `json:"document_id"`
	Filename           string                 `json:"filename"`
	FileType           string                 `json:"file_type"`
	FileSize           int64                  `json:"file_size"`
	ChunkIndex         int                    `json:"chunk_index"`
	Snippet            string                 `json:"snippet"`
	Score              float64                `json:"score"`
	CompositeScore     float64                `json:"composite_score"`
	RerankScore        float64                `json:"rerank_score,omitempty"`
	SemanticScore      float64                `json:"semantic_score"`
	ExactFilenameMatch bool                   `json:"exact_filename_match"`
	RetrievalStage     string                 `json:"retrieval_stage"`
	CreatedAt          time.Time              `json:"created_at"`
	Metadata           map[string]interface{} `json:"metadata,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type SearchResponse struct {
	Results    []SearchResultItem `json:"results"`
	Pagination Pagination         `json:"pagination"`
}

type RecentDocumentResponse struct {
	Id        uuid.UUID              `json:"id"`
	Filename  string                 `json:"filename"`
	FileType  string                 `json:"file_type"`
	FileSize  int64                  `json:"file_size"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}
