package service

import (
	"log/slog"

	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/policy"
)

// Repositories bundles the persistence dependencies the services share.
type Repositories struct {
	Documents   repositories.DocumentRepository
	Folders     repositories.FolderRepository
	Versions    repositories.VersionRepository
	AccessRules repositories.AccessRuleRepository
	Tags        repositories.TagRepository
	Comments    repositories.CommentRepository
	AuditLog    repositories.AuditLogRepository
	TxManager   repositories.TransactionManager
}

// Services is the assembled service layer.
type Services struct {
	Documents services.DocumentService
	Folders   services.FolderService
	Versions  services.VersionService
	Sharing   services.SharingService
	Comments  services.CommentService
	Audit     services.AuditService
}

// New wires the service layer over the given repositories, policy
// registry and object store.
func New(repos Repositories, policies *policy.Registry, store services.ObjectStore, logger *slog.Logger) *Services {
	gate := newAccessGate(repos.Documents, repos.Folders, repos.AccessRules, policies)

	return &Services{
		Documents: newDocumentService(
			repos.Documents, repos.Folders, repos.AccessRules, repos.Tags,
			repos.Versions, repos.Comments, repos.AuditLog,
			repos.TxManager, store, gate, logger,
		),
		Folders:  newFolderService(repos.Folders, gate, logger),
		Versions: newVersionService(repos.Documents, repos.Versions, repos.AuditLog, repos.TxManager, store, gate, logger),
		Sharing:  newSharingService(repos.AccessRules, repos.AuditLog, repos.TxManager, gate, logger),
		Comments: newCommentService(repos.Comments, gate, logger),
		Audit:    newAuditService(repos.AuditLog, gate),
	}
}
