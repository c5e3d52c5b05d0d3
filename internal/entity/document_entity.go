package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Filename  string
	FileType  string
	FileSize  int64
	Metadata  map[string]interface{}
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
