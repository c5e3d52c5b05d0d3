package specification

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByFileType filters documents by normalized file type (e.g. "presentation").
type ByFileType struct {
	FileType string
}

func (s ByFileType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("file_type = ?", strings.ToLower(s.FileType))
}

// ByDocumentID filters chunks by their owning document.
type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

// FilenameContains matches documents whose filename contains the term.
type FilenameContains struct {
	Term string
}

func (s FilenameContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("filename ILIKE ?", "%"+s.Term+"%")
}
