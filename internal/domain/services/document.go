package services

import (
	"context"

	"docvault/internal/domain/models"
)

// DocumentService handles document lifecycle and listing
type DocumentService interface {
	// Create creates a document owned by the principal. The first version
	// arrives later through VersionService; until then the document has no
	// current version.
	Create(ctx context.Context, p models.Principal, req *CreateDocumentRequest) (*models.Document, error)

	// Get retrieves a document with its tags and breadcrumb path.
	// Requires view.
	Get(ctx context.Context, p models.Principal, id string) (*models.Document, error)

	// List returns the page of documents visible to the principal.
	List(ctx context.Context, p models.Principal, req *ListDocumentsRequest) (*DocumentList, error)

	// UpdateMetadata renames/describes/moves a document (requires edit).
	// Changing visibility flags changes who can see it, so those fields
	// require manage.
	UpdateMetadata(ctx context.Context, p models.Principal, id string, req *UpdateDocumentRequest) (*models.Document, error)

	// Archive soft-deletes (requires manage); Restore undoes it.
	Archive(ctx context.Context, p models.Principal, id string) error
	Restore(ctx context.Context, p models.Principal, id string) error

	// HardDelete permanently removes the document and cascades to
	// versions, rules, tags, comments and audit entries. Storage keys are
	// deleted best-effort after the transaction commits. Owner or
	// administrator only.
	HardDelete(ctx context.Context, p models.Principal, id string) error

	// SetTags replaces the document's tag set (requires edit).
	SetTags(ctx context.Context, p models.Principal, id string, tags []string) ([]string, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	FolderID       *string  `json:"folder_id,omitempty"` // null for root level
	IsPublic       bool     `json:"is_public"`
	IsDepartmental bool     `json:"is_departmental"`
	Department     string   `json:"department"`
	Tags           []string `json:"tags,omitempty"`
}

// UpdateDocumentRequest represents a metadata update. Nil fields are left
// unchanged.
type UpdateDocumentRequest struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	FolderID       *string `json:"folder_id,omitempty"` // empty string moves to root
	IsPublic       *bool   `json:"is_public,omitempty"`
	IsDepartmental *bool   `json:"is_departmental,omitempty"`
	Department     *string `json:"department,omitempty"`
}

// ListDocumentsRequest represents a listing query
type ListDocumentsRequest struct {
	FolderID        *string `json:"folder_id,omitempty"`
	FolderScoped    bool    `json:"-"` // set when the folder_id param was present
	Title           string  `json:"title,omitempty"`
	Tag             string  `json:"tag,omitempty"`
	IncludeArchived bool    `json:"include_archived,omitempty"`
	SortBy          string  `json:"sort_by,omitempty"`
	Order           string  `json:"order,omitempty"`
	Page            int     `json:"page,omitempty"`
	PageSize        int     `json:"page_size,omitempty"`
}

// DocumentList is one page of documents
type DocumentList struct {
	Documents  []models.Document `json:"documents"`
	Pagination models.Pagination `json:"pagination"`
}
