package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// AccessRuleRepository persists explicit grants
type AccessRuleRepository interface {
	ListByDocument(ctx context.Context, documentID string) ([]models.AccessRule, error)

	// Upsert replaces the level of an existing rule with the same
	// (document, target) natural key instead of inserting a duplicate.
	Upsert(ctx context.Context, rule *models.AccessRule) error

	// Delete removes the rule for the target. Returns the number of rows
	// removed so callers can distinguish revoking a non-existent grant.
	Delete(ctx context.Context, documentID string, target models.RuleTarget) (int64, error)

	DeleteByDocument(ctx context.Context, documentID string) error
}
