package services

import (
	"context"

	"docvault/internal/domain/models"
)

// FolderService handles folder tree operations
type FolderService interface {
	// Create creates a folder owned by the principal.
	Create(ctx context.Context, p models.Principal, req *CreateFolderRequest) (*models.Folder, error)

	// Get retrieves a folder with its computed breadcrumb path.
	// Requires view.
	Get(ctx context.Context, p models.Principal, id string) (*models.Folder, error)

	// ListChildren lists child folders of parentID (nil = root). Owners
	// and administrators see every child; everyone else goes through the
	// visibility predicate.
	ListChildren(ctx context.Context, p models.Principal, req *ListChildrenRequest) (*FolderList, error)

	// Rename renames the folder (owner or administrator).
	Rename(ctx context.Context, p models.Principal, id, name string) (*models.Folder, error)

	// Move re-parents the folder (owner or administrator). A parent
	// assignment that would introduce a cycle is rejected as invalid
	// input.
	Move(ctx context.Context, p models.Principal, id string, parentID *string) (*models.Folder, error)

	// Archive soft-deletes the folder (owner or administrator); Restore
	// undoes it. Documents inside keep their own lifecycle.
	Archive(ctx context.Context, p models.Principal, id string) error
	Restore(ctx context.Context, p models.Principal, id string) error

	// Path returns the ordered folder names from the root down to the
	// folder. A corrupt parent chain (cycle) truncates the walk instead
	// of looping.
	Path(ctx context.Context, p models.Principal, id string) ([]string, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name           string  `json:"name"`
	ParentID       *string `json:"parent_id,omitempty"` // null for root level
	IsPublic       bool    `json:"is_public"`
	IsDepartmental bool    `json:"is_departmental"`
	Department     string  `json:"department"`
}

// ListChildrenRequest represents a child-folder listing query
type ListChildrenRequest struct {
	ParentID *string `json:"parent_id,omitempty"`
	Page     int     `json:"page,omitempty"`
	PageSize int     `json:"page_size,omitempty"`
}

// FolderList is one page of folders
type FolderList struct {
	Folders    []models.Folder   `json:"folders"`
	Pagination models.Pagination `json:"pagination"`
}
