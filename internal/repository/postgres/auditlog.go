package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// PostgresAuditLogRepository implements the AuditLogRepository interface.
// The table is append-only: there is no update statement here and the only
// delete is the cascade of a document hard delete.
type PostgresAuditLogRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(config *RepositoryConfig) repositories.AuditLogRepository {
	return &PostgresAuditLogRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Append inserts one entry
func (r *PostgresAuditLogRepository) Append(ctx context.Context, entry *models.AuditLogEntry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, user_id, action, details, version_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, r.tables.AuditLog)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		entry.DocumentID,
		entry.UserID,
		entry.Action,
		entry.Details,
		entry.VersionID,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// ListByDocument returns entries newest-first
func (r *PostgresAuditLogRepository) ListByDocument(ctx context.Context, documentID string, offset, limit int) ([]models.AuditLogEntry, error) {
	query := fmt.Sprintf(`
		SELECT id, document_id, user_id, action, details, version_id, created_at
		FROM %s
		WHERE document_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, r.tables.AuditLog)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLogEntry
	for rows.Next() {
		var entry models.AuditLogEntry
		if err := rows.Scan(&entry.ID, &entry.DocumentID, &entry.UserID, &entry.Action, &entry.Details, &entry.VersionID, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}

	return entries, nil
}

// CountByDocument returns how many entries the document has
func (r *PostgresAuditLogRepository) CountByDocument(ctx context.Context, documentID string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE document_id = $1`, r.tables.AuditLog)

	var total int64
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, documentID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}
	return total, nil
}

// DeleteByDocument removes the document's trail during a hard delete
func (r *PostgresAuditLogRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.AuditLog)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete audit entries: %w", err)
	}
	return nil
}
