package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentChunk struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentId uuid.UUID `gorm:"type:uuid;index"`
	ChunkIndex int
	Content    string
	CreatedAt  time.Time
}
