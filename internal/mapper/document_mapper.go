package mapper

import (
	"encoding/json"
	"time"

	"document-search-be/internal/entity"
	"document-search-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	var metadata map[string]interface{}
	if len(d.Metadata) > 0 {
		// Invalid JSON in the column degrades to nil metadata.
		_ = json.Unmarshal(d.Metadata, &metadata)
	}

	return &entity.Document{
		Id:        d.Id,
		Filename:  d.Filename,
		FileType:  d.FileType,
		FileSize:  d.FileSize,
		Metadata:  metadata,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: d.DeletedAt.Valid,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	var metadata datatypes.JSON
	if d.Metadata != nil {
		if raw, err := json.Marshal(d.Metadata); err == nil {
			metadata = raw
		}
	}

	return &model.Document{
		Id:        d.Id,
		Filename:  d.Filename,
		FileType:  d.FileType,
		FileSize:  d.FileSize,
		Metadata:  metadata,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *DocumentMapper) ToEntities(docs []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
