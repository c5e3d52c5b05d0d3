package mapper

import (
	"document-search-be/internal/entity"
	"document-search-be/internal/model"
)

type DocumentChunkMapper struct{}

func NewDocumentChunkMapper() *DocumentChunkMapper {
	return &DocumentChunkMapper{}
}

func (m *DocumentChunkMapper) ToEntity(c *model.DocumentChunk) *entity.DocumentChunk {
	if c == nil {
		return nil
	}
	return &entity.DocumentChunk{
		Id:         c.Id,
		DocumentId: c.DocumentId,
		ChunkIndex: c.ChunkIndex,
		Content:    c.Content,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *DocumentChunkMapper) ToEntities(chunks []*model.DocumentChunk) []*entity.DocumentChunk {
	entities := make([]*entity.DocumentChunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}
