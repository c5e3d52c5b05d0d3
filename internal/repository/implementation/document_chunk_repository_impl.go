package implementation

import (
	"context"
	"fmt"
	"strings"

	"document-search-be/internal/entity"
	"document-search-be/internal/mapper"
	"document-search-be/internal/model"
	"document-search-be/internal/repository/contract"
	"document-search-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type DocumentChunkRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DocumentChunkMapper
}

func NewDocumentChunkRepository(db *gorm.DB) contract.DocumentChunkRepository {
	return &DocumentChunkRepositoryImpl{
		db:     db,
		mapper: mapper.NewDocumentChunkMapper(),
	}
}

func (r *DocumentChunkRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DocumentChunkRepositoryImpl) Create(ctx context.Context, chunk *entity.DocumentChunk, embedding []float32) error {
	m := &model.DocumentChunk{
		Id:             chunk.Id,
		DocumentId:     chunk.DocumentId,
		ChunkIndex:     chunk.ChunkIndex,
		Content:        chunk.Content,
		EmbeddingValue: pgvector.NewVector(embedding),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*chunk = *r.mapper.ToEntity(m)
	return nil
}

func (r *DocumentChunkRepositoryImpl) CreateBulk(ctx context.Context, chunks []*entity.DocumentChunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}
	models := make([]*model.DocumentChunk, len(chunks))
	for i, c := range chunks {
		models[i] = &model.DocumentChunk{
			Id:             c.Id,
			DocumentId:     c.DocumentId,
			ChunkIndex:     c.ChunkIndex,
			Content:        c.Content,
			EmbeddingValue: pgvector.NewVector(embeddings[i]),
		}
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*chunks[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *DocumentChunkRepositoryImpl) DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("document_id = ?", documentId).Delete(&model.DocumentChunk{}).Error
}

func (r *DocumentChunkRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentChunk, error) {
	var models []*model.DocumentChunk
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DocumentChunkRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.DocumentChunk{}).Count(&count).Error
	return count, err
}

// SearchSimilarWithScore returns chunks with similarity scores, filtered by
// threshold and optionally by the owning document's file type.
func (r *DocumentChunkRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, fileType string) ([]*contract.ScoredDocumentChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// Raw query to get the similarity score along with each chunk.
	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding_value <=> query_vector) = cosine_similarity.
	type result struct {
		model.DocumentChunk
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	query := r.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN documents ON documents.id = document_chunks.document_id").
		Where("document_chunks.deleted_at IS NULL").
		Where("documents.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold)

	if fileType != "" {
		query = query.Where("documents.file_type = ?", strings.ToLower(fileType))
	}

	err := query.
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scoredChunks := make([]*contract.ScoredDocumentChunk, len(results))
	for i, res := range results {
		scoredChunks[i] = &contract.ScoredDocumentChunk{
			Chunk:      r.mapper.ToEntity(&res.DocumentChunk),
			Similarity: res.Similarity,
		}
	}
	return scoredChunks, nil
}

// SearchText runs a lexical OR-containment query over chunk content. The
// caller assigns a fixed similarity value to hits.
func (r *DocumentChunkRepositoryImpl) SearchText(ctx context.Context, terms []string, limit int) ([]*entity.DocumentChunk, error) {
	if len(terms) == 0 {
		return []*entity.DocumentChunk{}, nil
	}
	if limit <= 0 {
		limit = 5
	}

	conditions := make([]string, len(terms))
	args := make([]interface{}, len(terms))
	for i, term := range terms {
		conditions[i] = "content ILIKE ?"
		args[i] = "%" + term + "%"
	}

	var models []*model.DocumentChunk
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Where(strings.Join(conditions, " OR "), args...).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
