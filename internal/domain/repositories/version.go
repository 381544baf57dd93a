package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// VersionRepository persists immutable version records
type VersionRepository interface {
	Create(ctx context.Context, version *models.Version) error
	GetByID(ctx context.Context, id string) (*models.Version, error)

	// ListByDocument returns versions newest-first
	ListByDocument(ctx context.Context, documentID string, offset, limit int) ([]models.Version, error)
	CountByDocument(ctx context.Context, documentID string) (int64, error)

	// MaxVersionNumber returns 0 when the document has no versions yet
	MaxVersionNumber(ctx context.Context, documentID string) (int, error)

	// StorageKeysByDocument lists the object-storage keys of every
	// version, for best-effort cleanup after a hard delete.
	StorageKeysByDocument(ctx context.Context, documentID string) ([]string, error)

	DeleteByDocument(ctx context.Context, documentID string) error
}
