package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// PostgresVersionRepository implements the VersionRepository interface
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const versionColumns = `id, document_id, version_number, storage_key, size_bytes, mime_type, uploaded_by, created_at`

func (r *PostgresVersionRepository) scanVersion(row interface{ Scan(...interface{}) error }, v *models.Version) error {
	return row.Scan(
		&v.ID,
		&v.DocumentID,
		&v.VersionNumber,
		&v.StorageKey,
		&v.SizeBytes,
		&v.MimeType,
		&v.UploadedBy,
		&v.CreatedAt,
	)
}

// Create inserts an immutable version row. A unique index on
// (document_id, version_number) turns a lost race into ErrConflict so the
// service can retry with a fresh number.
func (r *PostgresVersionRepository) Create(ctx context.Context, version *models.Version) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (document_id, version_number, storage_key, size_bytes, mime_type, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		version.DocumentID,
		version.VersionNumber,
		version.StorageKey,
		version.SizeBytes,
		version.MimeType,
		version.UploadedBy,
	).Scan(&version.ID, &version.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("version %d of document %s: %w",
				version.VersionNumber, version.DocumentID, domain.ErrConflict)
		}
		return fmt.Errorf("create version: %w", err)
	}

	return nil
}

// GetByID retrieves a version by ID
func (r *PostgresVersionRepository) GetByID(ctx context.Context, id string) (*models.Version, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, versionColumns, r.tables.Versions)

	var version models.Version
	executor := GetExecutor(ctx, r.pool)
	if err := r.scanVersion(executor.QueryRow(ctx, query, id), &version); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("version %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get version: %w", err)
	}

	return &version, nil
}

// ListByDocument returns versions newest-first
func (r *PostgresVersionRepository) ListByDocument(ctx context.Context, documentID string, offset, limit int) ([]models.Version, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE document_id = $1
		ORDER BY version_number DESC
		LIMIT $2 OFFSET $3
	`, versionColumns, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []models.Version
	for rows.Next() {
		var version models.Version
		if err := r.scanVersion(rows, &version); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}

	return versions, nil
}

// CountByDocument returns how many versions the document has
func (r *PostgresVersionRepository) CountByDocument(ctx context.Context, documentID string) (int64, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE document_id = $1`, r.tables.Versions)

	var total int64
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, documentID).Scan(&total); err != nil {
		return 0, fmt.Errorf("count versions: %w", err)
	}
	return total, nil
}

// MaxVersionNumber returns 0 when the document has no versions yet
func (r *PostgresVersionRepository) MaxVersionNumber(ctx context.Context, documentID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(version_number), 0) FROM %s WHERE document_id = $1
	`, r.tables.Versions)

	var max int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, documentID).Scan(&max); err != nil {
		return 0, fmt.Errorf("max version number: %w", err)
	}
	return max, nil
}

// StorageKeysByDocument lists every version's object-storage key
func (r *PostgresVersionRepository) StorageKeysByDocument(ctx context.Context, documentID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT storage_key FROM %s WHERE document_id = $1`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list storage keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan storage key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate storage keys: %w", err)
	}

	return keys, nil
}

// DeleteByDocument removes every version row for the document. Only the
// cascading hard delete calls this.
func (r *PostgresVersionRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete versions: %w", err)
	}
	return nil
}
