package contract

import (
	"context"

	"document-search-be/internal/entity"
	"document-search-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	Update(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Document, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Document, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// GetByIds batch-loads documents for candidate hydration.
	GetByIds(ctx context.Context, ids []uuid.UUID) ([]*entity.Document, error)
	// ListRecent returns the most recently created documents, newest first.
	ListRecent(ctx context.Context, limit int) ([]*entity.Document, error)
}
