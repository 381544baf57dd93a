package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// AuditLogRepository persists the append-only audit trail. There is no
// update or single-row delete on purpose; entries only disappear with the
// cascading hard delete of their document.
type AuditLogRepository interface {
	Append(ctx context.Context, entry *models.AuditLogEntry) error

	// ListByDocument returns entries newest-first
	ListByDocument(ctx context.Context, documentID string, offset, limit int) ([]models.AuditLogEntry, error)
	CountByDocument(ctx context.Context, documentID string) (int64, error)

	DeleteByDocument(ctx context.Context, documentID string) error
}
