package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// PostgresAccessRuleRepository implements the AccessRuleRepository
// interface
type PostgresAccessRuleRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewAccessRuleRepository creates a new access rule repository
func NewAccessRuleRepository(config *RepositoryConfig) repositories.AccessRuleRepository {
	return &PostgresAccessRuleRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// ListByDocument returns every explicit rule on the document
func (r *PostgresAccessRuleRepository) ListByDocument(ctx context.Context, documentID string) ([]models.AccessRule, error) {
	query := fmt.Sprintf(`
		SELECT document_id, access_level, user_id, department
		FROM %s
		WHERE document_id = $1
		ORDER BY user_id NULLS LAST, department
	`, r.tables.AccessRules)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list access rules: %w", err)
	}
	defer rows.Close()

	var rules []models.AccessRule
	for rows.Next() {
		var rule models.AccessRule
		var level string
		if err := rows.Scan(&rule.DocumentID, &level, &rule.UserID, &rule.Department); err != nil {
			return nil, fmt.Errorf("scan access rule: %w", err)
		}
		parsed, err := models.ParseAccessLevel(level)
		if err != nil {
			return nil, fmt.Errorf("access rule for document %s: %w", documentID, err)
		}
		rule.Level = parsed
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate access rules: %w", err)
	}

	return rules, nil
}

// Upsert inserts the rule or, when a rule for the same target already
// exists, replaces its level. Partial unique indexes on
// (document_id, user_id) and (document_id, department) form the natural
// keys.
func (r *PostgresAccessRuleRepository) Upsert(ctx context.Context, rule *models.AccessRule) error {
	executor := GetExecutor(ctx, r.pool)

	var query string
	var err error
	if rule.UserID != nil {
		query = fmt.Sprintf(`
			INSERT INTO %s (document_id, access_level, user_id)
			VALUES ($1, $2, $3)
			ON CONFLICT (document_id, user_id) WHERE user_id IS NOT NULL
			DO UPDATE SET access_level = EXCLUDED.access_level
		`, r.tables.AccessRules)
		_, err = executor.Exec(ctx, query, rule.DocumentID, rule.Level.String(), *rule.UserID)
	} else {
		query = fmt.Sprintf(`
			INSERT INTO %s (document_id, access_level, department)
			VALUES ($1, $2, $3)
			ON CONFLICT (document_id, department) WHERE department IS NOT NULL
			DO UPDATE SET access_level = EXCLUDED.access_level
		`, r.tables.AccessRules)
		_, err = executor.Exec(ctx, query, rule.DocumentID, rule.Level.String(), *rule.Department)
	}

	if err != nil {
		return fmt.Errorf("upsert access rule: %w", err)
	}
	return nil
}

// Delete removes the rule for the target and reports how many rows went
func (r *PostgresAccessRuleRepository) Delete(ctx context.Context, documentID string, target models.RuleTarget) (int64, error) {
	executor := GetExecutor(ctx, r.pool)

	var query string
	var arg interface{}
	if target.UserID != nil {
		query = fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1 AND user_id = $2`, r.tables.AccessRules)
		arg = *target.UserID
	} else {
		query = fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1 AND department = $2`, r.tables.AccessRules)
		arg = *target.Department
	}

	tag, err := executor.Exec(ctx, query, documentID, arg)
	if err != nil {
		return 0, fmt.Errorf("delete access rule: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByDocument removes every rule on the document
func (r *PostgresAccessRuleRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, r.tables.AccessRules)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, documentID); err != nil {
		return fmt.Errorf("delete access rules: %w", err)
	}
	return nil
}
