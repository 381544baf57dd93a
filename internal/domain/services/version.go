package services

import (
	"context"

	"docvault/internal/domain/models"
)

// VersionService tracks immutable file versions and the current-version
// pointer
type VersionService interface {
	// CreateUploadIntent allocates a storage key and a presigned upload
	// URL for a new version's bytes. Requires edit. Nothing is persisted
	// until CreateVersion commits the metadata.
	CreateUploadIntent(ctx context.Context, p models.Principal, documentID string, req *UploadIntentRequest) (*UploadIntent, error)

	// CreateVersion records an uploaded version. Requires edit. The
	// version row, the document's current-version pointer and the audit
	// entry are committed in one transaction; version numbers are
	// assigned under a row lock on the document.
	CreateVersion(ctx context.Context, p models.Principal, documentID string, req *CreateVersionRequest) (*models.Version, error)

	// List returns versions newest-first. Requires view.
	List(ctx context.Context, p models.Principal, documentID string, page, pageSize int) (*VersionList, error)

	// SetCurrent moves the current-version pointer to an existing version
	// of the same document. Requires edit. A version id belonging to a
	// different document is invalid input and leaves the pointer
	// unchanged.
	SetCurrent(ctx context.Context, p models.Principal, documentID, versionID string) (*models.Version, error)

	// DownloadURL returns a presigned URL for a version's bytes, or for
	// the current version when versionID is empty. Requires view.
	DownloadURL(ctx context.Context, p models.Principal, documentID, versionID string) (string, error)
}

// UploadIntentRequest carries what the collaborator needs to presign
type UploadIntentRequest struct {
	Filename string `json:"filename"`
	MimeType string `json:"mime_type"`
}

// UploadIntent is the storage key / URL pair the client uploads against
type UploadIntent struct {
	StorageKey string `json:"storage_key"`
	UploadURL  string `json:"upload_url"`
}

// CreateVersionRequest commits metadata for bytes already in storage
type CreateVersionRequest struct {
	StorageKey string `json:"storage_key"`
	SizeBytes  int64  `json:"size_bytes"`
	MimeType   string `json:"mime_type"`
}

// VersionList is one page of versions
type VersionList struct {
	Versions   []models.Version  `json:"versions"`
	Pagination models.Pagination `json:"pagination"`
}
