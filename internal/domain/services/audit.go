package services

import (
	"context"

	"docvault/internal/domain/models"
)

// AuditService exposes the append-only audit trail. Entries are written by
// the other services inside their own transactions; this one only reads.
type AuditService interface {
	// List returns entries newest-first. Audit data is administrative, so
	// it requires manage.
	List(ctx context.Context, p models.Principal, documentID string, page, pageSize int) (*AuditList, error)
}

// AuditList is one page of audit entries
type AuditList struct {
	Entries    []models.AuditLogEntry `json:"entries"`
	Pagination models.Pagination      `json:"pagination"`
}
