package models

import (
	"time"
)

// Version is one immutable revision of a document's content. The bytes live
// in object storage under StorageKey; the engine only tracks metadata.
// Version rows are never updated or deleted individually - only the owning
// document's current-version pointer moves.
type Version struct {
	ID            string    `json:"id" db:"id"`
	DocumentID    string    `json:"document_id" db:"document_id"`
	VersionNumber int       `json:"version_number" db:"version_number"` // starts at 1, unique per document
	StorageKey    string    `json:"storage_key" db:"storage_key"`
	SizeBytes     int64     `json:"size_bytes" db:"size_bytes"`
	MimeType      string    `json:"mime_type" db:"mime_type"`
	UploadedBy    int64     `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
