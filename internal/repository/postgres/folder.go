package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/access"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

const folderColumns = `id, name, parent_id, owner_id, is_public, is_departmental, department, status, created_at, updated_at`

func (r *PostgresFolderRepository) scanFolder(row interface{ Scan(...interface{}) error }, folder *models.Folder) error {
	return row.Scan(
		&folder.ID,
		&folder.Name,
		&folder.ParentID,
		&folder.OwnerID,
		&folder.IsPublic,
		&folder.IsDepartmental,
		&folder.Department,
		&folder.Status,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, parent_id, owner_id, is_public, is_departmental, department, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		folder.Name,
		folder.ParentID,
		folder.OwnerID,
		folder.IsPublic,
		folder.IsDepartmental,
		folder.Department,
		folder.Status,
	).Scan(&folder.ID, &folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder does not exist: %w", domain.ErrValidation)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID regardless of status
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, folderColumns, r.tables.Folders)

	var folder models.Folder
	executor := GetExecutor(ctx, r.pool)
	if err := r.scanFolder(executor.QueryRow(ctx, query, id), &folder); err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

func (r *PostgresFolderRepository) childrenClauses(parentID *string, filter access.VisibilityFilter) (string, []interface{}) {
	var args []interface{}

	// Folders have no explicit rules, so the predicate is rendered
	// without a rules table.
	visibility, args := filter.SQL("f", "", args)

	where := visibility
	args = append(args, models.StatusActive)
	where += fmt.Sprintf(" AND f.status = $%d", len(args))

	if parentID == nil {
		where += " AND f.parent_id IS NULL"
	} else {
		args = append(args, *parentID)
		where += fmt.Sprintf(" AND f.parent_id = $%d", len(args))
	}

	return where, args
}

// ListChildren returns one page of child folders visible to the filter
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, in repositories.ListFoldersInput) ([]models.Folder, error) {
	where, args := r.childrenClauses(in.ParentID, in.Filter)

	args = append(args, in.Limit, in.Offset)
	query := fmt.Sprintf(`
		SELECT %s FROM %s f
		WHERE %s
		ORDER BY f.name ASC
		LIMIT $%d OFFSET $%d
	`, folderColumns, r.tables.Folders, where, len(args)-1, len(args))

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		if err := r.scanFolder(rows, &folder); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// CountChildren returns the total matching the same clauses as ListChildren
func (r *PostgresFolderRepository) CountChildren(ctx context.Context, parentID *string, filter access.VisibilityFilter) (int64, error) {
	where, args := r.childrenClauses(parentID, filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s f WHERE %s`, r.tables.Folders, where)

	var total int64
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count folders: %w", err)
	}
	return total, nil
}

// UpdateParent re-parents the folder
func (r *PostgresFolderRepository) UpdateParent(ctx context.Context, id string, parentID *string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET parent_id = $2, updated_at = NOW() WHERE id = $1
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, parentID)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("parent folder does not exist: %w", domain.ErrValidation)
		}
		return fmt.Errorf("move folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Rename renames the folder
func (r *PostgresFolderRepository) Rename(ctx context.Context, id, name string) error {
	query := fmt.Sprintf(`
		UPDATE %s SET name = $2, updated_at = NOW() WHERE id = $1
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, name)
	if err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// UpdateStatus transitions the lifecycle status
func (r *PostgresFolderRepository) UpdateStatus(ctx context.Context, id string, status models.ResourceStatus) error {
	query := fmt.Sprintf(`
		UPDATE %s SET status = $2, updated_at = NOW() WHERE id = $1
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update folder status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
