package repositories

import (
	"context"

	"docvault/internal/access"
	"docvault/internal/domain/models"
)

// ListDocumentsInput describes a visibility-filtered, paginated document
// listing. FolderID filters by containing folder when set; Title is a
// case-insensitive substring match; Tag requires the document to carry the
// tag.
type ListDocumentsInput struct {
	Filter          access.VisibilityFilter
	FolderID        *string
	FolderScoped    bool // when true, FolderID == nil means "root level only"
	Title           string
	Tag             string
	IncludeArchived bool
	SortBy          string // "updated_at" or "title"
	Order           string // "asc" or "desc"
	Offset          int
	Limit           int
}

// DocumentRepository persists document metadata
type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error

	// GetByID returns the document regardless of status; callers decide
	// whether archived documents are acceptable.
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// GetByIDForUpdate locks the document row for the remainder of the
	// surrounding transaction. Serializes concurrent version writers.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Document, error)

	List(ctx context.Context, in ListDocumentsInput) ([]models.Document, error)
	Count(ctx context.Context, in ListDocumentsInput) (int64, error)

	UpdateMetadata(ctx context.Context, doc *models.Document) error
	UpdateStatus(ctx context.Context, id string, status models.ResourceStatus) error

	// SetCurrentVersion moves the current-version pointer. Only ever
	// called inside the transaction that proved the version row exists.
	SetCurrentVersion(ctx context.Context, id, versionID string) error

	// HardDelete removes the document row. Dependent rows (versions,
	// rules, tags, comments, audit entries) are deleted first by their
	// own repositories inside the same transaction.
	HardDelete(ctx context.Context, id string) error
}
