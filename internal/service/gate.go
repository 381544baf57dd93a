package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"docvault/internal/access"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/policy"
)

// accessGate is the one place services resolve effective access levels.
// It loads the target and its rules, runs the resolver, and compares the
// result against the action's minimum level from the policy registry.
type accessGate struct {
	docRepo    repositories.DocumentRepository
	folderRepo repositories.FolderRepository
	ruleRepo   repositories.AccessRuleRepository
	policies   *policy.Registry
}

func newAccessGate(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	ruleRepo repositories.AccessRuleRepository,
	policies *policy.Registry,
) *accessGate {
	return &accessGate{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		ruleRepo:   ruleRepo,
		policies:   policies,
	}
}

// resolveDocument returns the document and the principal's effective level
// on it. The id is validated before it touches the database.
func (g *accessGate) resolveDocument(ctx context.Context, p models.Principal, id string) (*models.Document, models.AccessLevel, error) {
	if err := validateID(id); err != nil {
		return nil, models.AccessNone, err
	}

	doc, err := g.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, models.AccessNone, err
	}

	rules, err := g.ruleRepo.ListByDocument(ctx, id)
	if err != nil {
		return nil, models.AccessNone, err
	}

	return doc, access.Resolve(p, doc.Visibility(), rules), nil
}

// requireDocument gates an action on a document. Returns the document when
// the principal meets the action's minimum level.
func (g *accessGate) requireDocument(ctx context.Context, p models.Principal, id string, action policy.Action) (*models.Document, error) {
	doc, level, err := g.resolveDocument(ctx, p, id)
	if err != nil {
		return nil, err
	}

	min, err := g.policies.MinLevel(action)
	if err != nil {
		return nil, err
	}
	if !level.AtLeast(min) {
		return nil, &domain.ForbiddenError{
			Message: fmt.Sprintf("%s requires %s access", action, min),
		}
	}

	return doc, nil
}

// resolveFolder returns the folder and the principal's effective level.
// Folders carry no explicit rules: levels degenerate to manage for the
// owner (and administrators) and view-or-none for everyone else.
func (g *accessGate) resolveFolder(ctx context.Context, p models.Principal, id string) (*models.Folder, models.AccessLevel, error) {
	if err := validateID(id); err != nil {
		return nil, models.AccessNone, err
	}

	folder, err := g.folderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, models.AccessNone, err
	}

	return folder, access.Resolve(p, folder.Visibility(), nil), nil
}

// requireFolderView gates read access to a folder.
func (g *accessGate) requireFolderView(ctx context.Context, p models.Principal, id string) (*models.Folder, error) {
	folder, level, err := g.resolveFolder(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !level.AtLeast(models.AccessView) {
		return nil, &domain.ForbiddenError{Message: "no access to this folder"}
	}
	return folder, nil
}

// requireFolderManage gates mutation of a folder (owner or administrator).
func (g *accessGate) requireFolderManage(ctx context.Context, p models.Principal, id string) (*models.Folder, error) {
	folder, level, err := g.resolveFolder(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !level.AtLeast(models.AccessManage) {
		return nil, &domain.ForbiddenError{Message: "only the owner or an administrator may modify this folder"}
	}
	return folder, nil
}

// validateID rejects malformed resource ids before they reach a query.
func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("malformed id %q", id)}
	}
	return nil
}
