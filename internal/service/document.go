package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/access"
	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/policy"
)

type documentService struct {
	docRepo     repositories.DocumentRepository
	folderRepo  repositories.FolderRepository
	ruleRepo    repositories.AccessRuleRepository
	tagRepo     repositories.TagRepository
	versionRepo repositories.VersionRepository
	commentRepo repositories.CommentRepository
	auditRepo   repositories.AuditLogRepository
	txManager   repositories.TransactionManager
	store       services.ObjectStore
	gate        *accessGate
	walker      pathWalker
	logger      *slog.Logger
}

// newDocumentService creates a new document service
func newDocumentService(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	ruleRepo repositories.AccessRuleRepository,
	tagRepo repositories.TagRepository,
	versionRepo repositories.VersionRepository,
	commentRepo repositories.CommentRepository,
	auditRepo repositories.AuditLogRepository,
	txManager repositories.TransactionManager,
	store services.ObjectStore,
	gate *accessGate,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:     docRepo,
		folderRepo:  folderRepo,
		ruleRepo:    ruleRepo,
		tagRepo:     tagRepo,
		versionRepo: versionRepo,
		commentRepo: commentRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		store:       store,
		gate:        gate,
		walker:      pathWalker{folders: folderRepo},
		logger:      logger,
	}
}

func validateCreateDocumentRequest(req *services.CreateDocumentRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.Department,
			validation.Required.When(req.IsDepartmental).Error("department is required for departmental documents")),
		validation.Field(&req.Tags, validation.Length(0, config.MaxTagsPerDocument),
			validation.Each(validation.Required, validation.Length(1, config.MaxTagLength))),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

// Create creates a document owned by the principal
func (s *documentService) Create(ctx context.Context, p models.Principal, req *services.CreateDocumentRequest) (*models.Document, error) {
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}
	if err := validateCreateDocumentRequest(req); err != nil {
		return nil, err
	}

	// The target folder must exist and be visible to the creator
	if req.FolderID != nil {
		if _, err := s.gate.requireFolderView(ctx, p, *req.FolderID); err != nil {
			return nil, err
		}
	}

	doc := &models.Document{
		Title:          req.Title,
		Description:    req.Description,
		OwnerID:        p.ID,
		FolderID:       req.FolderID,
		IsPublic:       req.IsPublic,
		IsDepartmental: req.IsDepartmental,
		Department:     req.Department,
		Status:         models.StatusActive,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Create(txCtx, doc); err != nil {
			return err
		}
		if len(req.Tags) > 0 {
			if err := s.tagRepo.Replace(txCtx, doc.ID, req.Tags); err != nil {
				return err
			}
		}
		return s.auditRepo.Append(txCtx, &models.AuditLogEntry{
			DocumentID: doc.ID,
			UserID:     p.ID,
			Action:     models.AuditDocumentCreated,
			Details:    fmt.Sprintf("created %q", doc.Title),
		})
	})
	if err != nil {
		return nil, err
	}

	doc.Tags, err = s.tagRepo.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("document created", "document_id", doc.ID, "owner_id", p.ID)
	return doc, nil
}

// Get retrieves a document with tags and breadcrumb path
func (s *documentService) Get(ctx context.Context, p models.Principal, id string) (*models.Document, error) {
	doc, err := s.gate.requireDocument(ctx, p, id, policy.ActionDocumentRead)
	if err != nil {
		return nil, err
	}

	doc.Tags, err = s.tagRepo.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	names, err := s.walker.path(ctx, doc.FolderID)
	if err != nil {
		return nil, err
	}
	doc.Path = joinPath(names)

	return doc, nil
}

// List returns the page of documents visible to the principal
func (s *documentService) List(ctx context.Context, p models.Principal, req *services.ListDocumentsRequest) (*services.DocumentList, error) {
	page, pageSize := normalizePage(req.Page, req.PageSize)

	if req.FolderID != nil && *req.FolderID != "" {
		if err := validateID(*req.FolderID); err != nil {
			return nil, err
		}
	}
	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}

	in := repositories.ListDocumentsInput{
		Filter:          access.BuildVisibilityFilter(p),
		FolderID:        req.FolderID,
		FolderScoped:    req.FolderScoped,
		Title:           req.Title,
		Tag:             req.Tag,
		IncludeArchived: req.IncludeArchived,
		SortBy:          req.SortBy,
		Order:           req.Order,
		Offset:          (page - 1) * pageSize,
		Limit:           pageSize,
	}

	total, err := s.docRepo.Count(ctx, in)
	if err != nil {
		return nil, err
	}
	docs, err := s.docRepo.List(ctx, in)
	if err != nil {
		return nil, err
	}

	return &services.DocumentList{
		Documents:  docs,
		Pagination: models.NewPagination(page, pageSize, total),
	}, nil
}

func validateUpdateDocumentRequest(req *services.UpdateDocumentRequest) error {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Length(1, config.MaxTitleLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
	)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	return nil
}

// UpdateMetadata applies a partial metadata update
func (s *documentService) UpdateMetadata(ctx context.Context, p models.Principal, id string, req *services.UpdateDocumentRequest) (*models.Document, error) {
	if err := validateUpdateDocumentRequest(req); err != nil {
		return nil, err
	}

	doc, level, err := s.gate.resolveDocument(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if !level.AtLeast(models.AccessEdit) {
		return nil, &domain.ForbiddenError{Message: "document.update requires edit access"}
	}

	// Visibility changes reshape who can see the document
	visibilityChange := req.IsPublic != nil || req.IsDepartmental != nil || req.Department != nil
	if visibilityChange && !level.AtLeast(models.AccessManage) {
		return nil, &domain.ForbiddenError{Message: "changing document visibility requires manage access"}
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.FolderID != nil {
		if *req.FolderID == "" {
			doc.FolderID = nil
		} else {
			if _, err := s.gate.requireFolderView(ctx, p, *req.FolderID); err != nil {
				return nil, err
			}
			folderID := *req.FolderID
			doc.FolderID = &folderID
		}
	}
	if req.IsPublic != nil {
		doc.IsPublic = *req.IsPublic
	}
	if req.IsDepartmental != nil {
		doc.IsDepartmental = *req.IsDepartmental
	}
	if req.Department != nil {
		doc.Department = *req.Department
	}
	if doc.IsDepartmental && doc.Department == "" {
		return nil, &domain.ValidationError{Message: "department is required for departmental documents"}
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.UpdateMetadata(txCtx, doc); err != nil {
			return err
		}
		return s.auditRepo.Append(txCtx, &models.AuditLogEntry{
			DocumentID: doc.ID,
			UserID:     p.ID,
			Action:     models.AuditDocumentUpdated,
			Details:    "metadata updated",
		})
	})
	if err != nil {
		return nil, err
	}

	doc.Tags, err = s.tagRepo.ListByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Archive soft-deletes the document
func (s *documentService) Archive(ctx context.Context, p models.Principal, id string) error {
	doc, err := s.gate.requireDocument(ctx, p, id, policy.ActionDocumentArchive)
	if err != nil {
		return err
	}
	if doc.Status == models.StatusArchived {
		return nil
	}

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.UpdateStatus(txCtx, doc.ID, models.StatusArchived); err != nil {
			return err
		}
		return s.auditRepo.Append(txCtx, &models.AuditLogEntry{
			DocumentID: doc.ID,
			UserID:     p.ID,
			Action:     models.AuditDocumentArchived,
		})
	})
}

// Restore reactivates an archived document
func (s *documentService) Restore(ctx context.Context, p models.Principal, id string) error {
	doc, err := s.gate.requireDocument(ctx, p, id, policy.ActionDocumentRestore)
	if err != nil {
		return err
	}
	if doc.Status == models.StatusActive {
		return nil
	}

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.UpdateStatus(txCtx, doc.ID, models.StatusActive); err != nil {
			return err
		}
		return s.auditRepo.Append(txCtx, &models.AuditLogEntry{
			DocumentID: doc.ID,
			UserID:     p.ID,
			Action:     models.AuditDocumentRestored,
		})
	})
}

// HardDelete permanently removes the document and everything attached to
// it. Storage keys are deleted best-effort after the metadata transaction
// commits; a storage failure never unwinds the delete.
func (s *documentService) HardDelete(ctx context.Context, p models.Principal, id string) error {
	doc, _, err := s.gate.resolveDocument(ctx, p, id)
	if err != nil {
		return err
	}
	if !p.IsAdmin && p.ID != doc.OwnerID {
		return &domain.ForbiddenError{Message: "only the owner or an administrator may delete a document"}
	}

	var keys []string
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		keys, err = s.versionRepo.StorageKeysByDocument(txCtx, doc.ID)
		if err != nil {
			return err
		}
		if err := s.commentRepo.DeleteByDocument(txCtx, doc.ID); err != nil {
			return err
		}
		if err := s.tagRepo.DeleteByDocument(txCtx, doc.ID); err != nil {
			return err
		}
		if err := s.ruleRepo.DeleteByDocument(txCtx, doc.ID); err != nil {
			return err
		}
		if err := s.auditRepo.DeleteByDocument(txCtx, doc.ID); err != nil {
			return err
		}
		if err := s.versionRepo.DeleteByDocument(txCtx, doc.ID); err != nil {
			return err
		}
		return s.docRepo.HardDelete(txCtx, doc.ID)
	})
	if err != nil {
		return err
	}

	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("storage delete failed after document delete",
				"document_id", doc.ID, "storage_key", key, "error", err)
		}
	}

	s.logger.Info("document deleted", "document_id", doc.ID, "user_id", p.ID, "versions", len(keys))
	return nil
}

// SetTags replaces the document's tag set
func (s *documentService) SetTags(ctx context.Context, p models.Principal, id string, tags []string) ([]string, error) {
	if len(tags) > config.MaxTagsPerDocument {
		return nil, &domain.ValidationError{Message: fmt.Sprintf("at most %d tags per document", config.MaxTagsPerDocument)}
	}
	for _, tag := range tags {
		if tag == "" || len(tag) > config.MaxTagLength {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("invalid tag %q", tag)}
		}
	}

	doc, err := s.gate.requireDocument(ctx, p, id, policy.ActionDocumentTag)
	if err != nil {
		return nil, err
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.tagRepo.Replace(txCtx, doc.ID, tags); err != nil {
			return err
		}
		return s.auditRepo.Append(txCtx, &models.AuditLogEntry{
			DocumentID: doc.ID,
			UserID:     p.ID,
			Action:     models.AuditDocumentUpdated,
			Details:    "tags updated",
		})
	})
	if err != nil {
		return nil, err
	}

	return s.tagRepo.ListByDocument(ctx, doc.ID)
}
