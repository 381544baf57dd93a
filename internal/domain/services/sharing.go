package services

import (
	"context"

	"docvault/internal/domain/models"
)

// SharingService manages explicit access rules on documents
type SharingService interface {
	// Grant upserts a rule for the target. Requires manage. A delegated
	// manage holder (neither owner nor administrator) may grant view and
	// edit but not manage.
	Grant(ctx context.Context, p models.Principal, documentID string, req *GrantRequest) (*models.AccessRule, error)

	// Revoke removes the target's rule. Requires manage.
	Revoke(ctx context.Context, p models.Principal, documentID string, target models.RuleTarget) error

	// List returns every rule on the document. Shares are administrative
	// metadata, so listing requires manage as well.
	List(ctx context.Context, p models.Principal, documentID string) ([]models.AccessRule, error)
}

// GrantRequest represents a grant or level change
type GrantRequest struct {
	Target models.RuleTarget  `json:"target"`
	Level  models.AccessLevel `json:"level"`
}
