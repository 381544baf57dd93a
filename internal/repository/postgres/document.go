package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const documentColumns = `id, title, description, owner_id, folder_id, is_public, is_departmental, department, status, current_version_id, created_at, updated_at`

func (r *PostgresDocumentRepository) scanDocument(row interface{ Scan(...interface{}) error }, doc *models.Document) error {
	return row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Description,
		&doc.OwnerID,
		&doc.FolderID,
		&doc.IsPublic,
		&doc.IsDepartmental,
		&doc.Department,
		&doc.Status,
		&doc.CurrentVersionID,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
}

// Create creates a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (title, description, owner_id, folder_id, is_public, is_departmental, department, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.Title,
		doc.Description,
		doc.OwnerID,
		doc.FolderID,
		doc.IsPublic,
		doc.IsDepartmental,
		doc.Department,
		doc.Status,
	).Scan(&doc.ID, &doc.CreatedAt, &doc.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("folder does not exist: %w", domain.ErrValidation)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID regardless of status
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1
	`, documentColumns, r.tables.Documents)

	var doc models.Document
	executor := GetExecutor(ctx, r.pool)
	if err := r.scanDocument(executor.QueryRow(ctx, query, id), &doc); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// GetByIDForUpdate locks the document row until the surrounding
// transaction ends
func (r *PostgresDocumentRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s WHERE id = $1 FOR UPDATE
	`, documentColumns, r.tables.Documents)

	var doc models.Document
	executor := GetExecutor(ctx, r.pool)
	if err := r.scanDocument(executor.QueryRow(ctx, query, id), &doc); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("lock document: %w", err)
	}

	return &doc, nil
}

// listClauses renders the shared WHERE clause for List and Count so the
// two can never drift apart.
func (r *PostgresDocumentRepository) listClauses(in repositories.ListDocumentsInput) (string, []interface{}) {
	var conds []string
	var args []interface{}

	visibility, args := in.Filter.SQL("d", r.tables.AccessRules, args)
	conds = append(conds, visibility)

	if !in.IncludeArchived {
		args = append(args, models.StatusActive)
		conds = append(conds, fmt.Sprintf("d.status = $%d", len(args)))
	}

	if in.FolderScoped {
		if in.FolderID == nil {
			conds = append(conds, "d.folder_id IS NULL")
		} else {
			args = append(args, *in.FolderID)
			conds = append(conds, fmt.Sprintf("d.folder_id = $%d", len(args)))
		}
	}

	if in.Title != "" {
		args = append(args, "%"+in.Title+"%")
		conds = append(conds, fmt.Sprintf("d.title ILIKE $%d", len(args)))
	}

	if in.Tag != "" {
		args = append(args, in.Tag)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s t WHERE t.document_id = d.id AND t.tag = $%d)",
			r.tables.Tags, len(args)))
	}

	return strings.Join(conds, " AND "), args
}

// List returns one visibility-filtered page of documents
func (r *PostgresDocumentRepository) List(ctx context.Context, in repositories.ListDocumentsInput) ([]models.Document, error) {
	where, args := r.listClauses(in)

	sortBy := "updated_at"
	if in.SortBy == "title" {
		sortBy = "title"
	}
	order := "DESC"
	if strings.EqualFold(in.Order, "asc") {
		order = "ASC"
	}

	args = append(args, in.Limit, in.Offset)
	query := fmt.Sprintf(`
		SELECT %s FROM %s d
		WHERE %s
		ORDER BY d.%s %s
		LIMIT $%d OFFSET $%d
	`, documentColumns, r.tables.Documents, where, sortBy, order, len(args)-1, len(args))

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := r.scanDocument(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

// Count returns the total matching the same clauses as List
func (r *PostgresDocumentRepository) Count(ctx context.Context, in repositories.ListDocumentsInput) (int64, error) {
	where, args := r.listClauses(in)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s d WHERE %s`, r.tables.Documents, where)

	var total int64
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return total, nil
}

// UpdateMetadata persists title, description, folder and visibility fields
func (r *PostgresDocumentRepository) UpdateMetadata(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $2, description = $3, folder_id = $4,
		    is_public = $5, is_departmental = $6, department = $7,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.FolderID,
		doc.IsPublic,
		doc.IsDepartmental,
		doc.Department,
	).Scan(&doc.UpdatedAt)

	if err != nil {
		if IsPgNoRowsError(err) {
			return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
		}
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("folder does not exist: %w", domain.ErrValidation)
		}
		return fmt.Errorf("update document: %w", err)
	}

	return nil
}

// UpdateStatus transitions the lifecycle status
func (r *PostgresDocumentRepository) UpdateStatus(ctx context.Context, id string, status models.ResourceStatus) error {
	query := fmt.Sprintf(`
		UPDATE %s SET status = $2, updated_at = NOW() WHERE id = $1
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// SetCurrentVersion moves the current-version pointer
func (r *PostgresDocumentRepository) SetCurrentVersion(ctx context.Context, id, versionID string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET current_version_id = $2, updated_at = NOW() WHERE id = $1
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, versionID)
	if err != nil {
		return fmt.Errorf("set current version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// HardDelete removes the document row
func (r *PostgresDocumentRepository) HardDelete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
