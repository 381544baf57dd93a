package service

import (
	"context"

	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/policy"
)

type auditService struct {
	auditRepo repositories.AuditLogRepository
	gate      *accessGate
}

// newAuditService creates a new audit service
func newAuditService(auditRepo repositories.AuditLogRepository, gate *accessGate) services.AuditService {
	return &auditService{auditRepo: auditRepo, gate: gate}
}

// List returns audit entries newest-first
func (s *auditService) List(ctx context.Context, p models.Principal, documentID string, page, pageSize int) (*services.AuditList, error) {
	doc, err := s.gate.requireDocument(ctx, p, documentID, policy.ActionAuditList)
	if err != nil {
		return nil, err
	}

	page, pageSize = normalizePage(page, pageSize)

	total, err := s.auditRepo.CountByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	entries, err := s.auditRepo.ListByDocument(ctx, doc.ID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	return &services.AuditList{
		Entries:    entries,
		Pagination: models.NewPagination(page, pageSize, total),
	}, nil
}
