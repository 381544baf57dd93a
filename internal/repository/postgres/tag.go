package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain/repositories"
)

// PostgresTagRepository implements the TagRepository interface
type PostgresTagRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewTagRepository creates a new tag repository
func NewTagRepository(config *RepositoryConfig) repositories.TagRepository {
	return &PostgresTagRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// ListByDocument returns the document's tags sorted alphabetically
func (r *PostgresTagRepository) ListByDocument(ctx context.Context, documentID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT tag FROM %s WHERE document_id = $1 ORDER BY tag
	`, r.tables.Tags)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}

	return tags, nil
}

// Replace swaps the tag set. Duplicates in the input collapse to one row.
func (r *PostgresTagRepository) Replace(ctx context.Context, documentID string, tags []string) error {
	executor := GetExecutor(ctx, r.pool)

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.Tags)
	if _, err := executor.Exec(ctx, deleteQuery, documentID); err != nil {
		return fmt.Errorf("clear tags: %w", err)
	}

	seen := make(map[string]bool, len(tags))
	insertQuery := fmt.Sprintf(`INSERT INTO %s (document_id, tag) VALUES ($1, $2)`, r.tables.Tags)
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		if _, err := executor.Exec(ctx, insertQuery, documentID, tag); err != nil {
			return fmt.Errorf("insert tag %q: %w", tag, err)
		}
	}

	return nil
}

// DeleteByDocument removes every tag on the document
func (r *PostgresTagRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.Tags)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete tags: %w", err)
	}
	return nil
}
