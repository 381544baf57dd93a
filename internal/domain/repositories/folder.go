package repositories

import (
	"context"

	"docvault/internal/access"
	"docvault/internal/domain/models"
)

// ListFoldersInput describes a visibility-filtered page of child folders.
type ListFoldersInput struct {
	ParentID *string // nil = root level
	Filter   access.VisibilityFilter
	Offset   int
	Limit    int
}

// FolderRepository persists folder records
type FolderRepository interface {
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID returns the folder regardless of status; callers decide
	// whether archived folders are acceptable.
	GetByID(ctx context.Context, id string) (*models.Folder, error)

	ListChildren(ctx context.Context, in ListFoldersInput) ([]models.Folder, error)
	CountChildren(ctx context.Context, parentID *string, filter access.VisibilityFilter) (int64, error)

	// UpdateParent moves the folder under a new parent (nil = root)
	UpdateParent(ctx context.Context, id string, parentID *string) error

	Rename(ctx context.Context, id, name string) error
	UpdateStatus(ctx context.Context, id string, status models.ResourceStatus) error
}
