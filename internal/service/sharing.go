package service

import (
	"context"
	"fmt"
	"log/slog"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

type sharingService struct {
	ruleRepo  repositories.AccessRuleRepository
	auditRepo repositories.AuditLogRepository
	txManager repositories.TransactionManager
	gate      *accessGate
	logger    *slog.Logger
}

// newSharingService creates a new sharing service
func newSharingService(
	ruleRepo repositories.AccessRuleRepository,
	auditRepo repositories.AuditLogRepository,
	txManager repositories.TransactionManager,
	gate *accessGate,
	logger *slog.Logger,
) services.SharingService {
	return &sharingService{
		ruleRepo:  ruleRepo,
		auditRepo: auditRepo,
		txManager: txManager,
		gate:      gate,
		logger:    logger,
	}
}

func describeTarget(t models.RuleTarget) string {
	if t.UserID != nil {
		return fmt.Sprintf("user %d", *t.UserID)
	}
	if t.Department != nil {
		return fmt.Sprintf("department %q", *t.Department)
	}
	return "unknown target"
}

// Grant upserts an access rule for the target
func (s *sharingService) Grant(ctx context.Context, p models.Principal, documentID string, req *services.GrantRequest) (*models.AccessRule, error) {
	if !req.Target.Valid() {
		return nil, &domain.ValidationError{Message: "exactly one of user_id or department must be set"}
	}
	if req.Level != models.AccessView && req.Level != models.AccessEdit && req.Level != models.AccessManage {
		return nil, &domain.ValidationError{Message: "level must be view, edit or manage"}
	}

	doc, level, err := s.gate.resolveDocument(ctx, p, documentID)
	if err != nil {
		return nil, err
	}
	if !level.AtLeast(models.AccessManage) {
		return nil, &domain.ForbiddenError{Message: "share.grant requires manage access"}
	}
	// Manage obtained through a rule rather than ownership cannot be
	// propagated further.
	delegated := !p.IsAdmin && p.ID != doc.OwnerID
	if delegated && req.Level == models.AccessManage {
		return nil, &domain.ForbiddenError{Message: "delegated manage access cannot grant manage"}
	}

	rule := &models.AccessRule{
		DocumentID: doc.ID,
		Level:      req.Level,
		UserID:     req.Target.UserID,
		Department: req.Target.Department,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.ruleRepo.Upsert(txCtx, rule); err != nil {
			return err
		}
		return s.auditRepo.Append(txCtx, &models.AuditLogEntry{
			DocumentID: doc.ID,
			UserID:     p.ID,
			Action:     models.AuditAccessGranted,
			Details:    fmt.Sprintf("%s granted %s", describeTarget(req.Target), req.Level),
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("access granted",
		"document_id", doc.ID, "granted_by", p.ID, "target", describeTarget(req.Target), "level", req.Level.String())
	return rule, nil
}

// Revoke removes the target's rule. Revoking a rule that does not exist
// is not an error.
func (s *sharingService) Revoke(ctx context.Context, p models.Principal, documentID string, target models.RuleTarget) error {
	if !target.Valid() {
		return &domain.ValidationError{Message: "exactly one of user_id or department must be set"}
	}

	doc, level, err := s.gate.resolveDocument(ctx, p, documentID)
	if err != nil {
		return err
	}
	if !level.AtLeast(models.AccessManage) {
		return &domain.ForbiddenError{Message: "share.revoke requires manage access"}
	}

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		removed, err := s.ruleRepo.Delete(txCtx, doc.ID, target)
		if err != nil {
			return err
		}
		if removed == 0 {
			return nil
		}
		return s.auditRepo.Append(txCtx, &models.AuditLogEntry{
			DocumentID: doc.ID,
			UserID:     p.ID,
			Action:     models.AuditAccessRevoked,
			Details:    fmt.Sprintf("%s revoked", describeTarget(target)),
		})
	})
}

// List returns every rule on the document
func (s *sharingService) List(ctx context.Context, p models.Principal, documentID string) ([]models.AccessRule, error) {
	doc, level, err := s.gate.resolveDocument(ctx, p, documentID)
	if err != nil {
		return nil, err
	}
	if !level.AtLeast(models.AccessManage) {
		return nil, &domain.ForbiddenError{Message: "share.list requires manage access"}
	}
	return s.ruleRepo.ListByDocument(ctx, doc.ID)
}
