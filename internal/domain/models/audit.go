package models

import (
	"time"
)

// Audit actions recorded against documents. One entry per mutating
// operation; reads never log.
const (
	AuditDocumentCreated  = "document_created"
	AuditDocumentUpdated  = "document_updated"
	AuditDocumentArchived = "document_archived"
	AuditDocumentRestored = "document_restored"
	AuditDocumentDeleted  = "document_deleted"
	AuditVersionUploaded  = "version_uploaded"
	AuditVersionRestored  = "version_restored"
	AuditAccessGranted    = "access_granted"
	AuditAccessRevoked    = "access_revoked"
)

// AuditLogEntry is an append-only record of a mutating action. Entries are
// never updated or deleted except by the cascading hard delete of their
// document.
type AuditLogEntry struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Action     string    `json:"action" db:"action"`
	Details    string    `json:"details" db:"details"`
	VersionID  *string   `json:"version_id,omitempty" db:"version_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
