package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/policy"
)

type versionService struct {
	docRepo     repositories.DocumentRepository
	versionRepo repositories.VersionRepository
	auditRepo   repositories.AuditLogRepository
	txManager   repositories.TransactionManager
	store       services.ObjectStore
	gate        *accessGate
	logger      *slog.Logger
}

// newVersionService creates a new version service
func newVersionService(
	docRepo repositories.DocumentRepository,
	versionRepo repositories.VersionRepository,
	auditRepo repositories.AuditLogRepository,
	txManager repositories.TransactionManager,
	store services.ObjectStore,
	gate *accessGate,
	logger *slog.Logger,
) services.VersionService {
	return &versionService{
		docRepo:     docRepo,
		versionRepo: versionRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		store:       store,
		gate:        gate,
		logger:      logger,
	}
}

// CreateUploadIntent allocates a storage key and presigns an upload URL
func (s *versionService) CreateUploadIntent(ctx context.Context, p models.Principal, documentID string, req *services.UploadIntentRequest) (*services.UploadIntent, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.Filename, validation.Required, validation.Length(1, config.MaxTitleLength)),
	)
	if err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	doc, err := s.gate.requireDocument(ctx, p, documentID, policy.ActionVersionUpload)
	if err != nil {
		return nil, err
	}

	// Keys are namespaced per document; the random element keeps
	// re-uploads of the same filename from colliding.
	key := fmt.Sprintf("documents/%s/%s%s", doc.ID, uuid.NewString(), path.Ext(req.Filename))

	url, err := s.store.PresignUpload(ctx, key, req.MimeType, config.UploadURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presigning upload for document %s: %w", doc.ID, err)
	}

	return &services.UploadIntent{StorageKey: key, UploadURL: url}, nil
}

// CreateVersion commits version metadata for bytes already uploaded
func (s *versionService) CreateVersion(ctx context.Context, p models.Principal, documentID string, req *services.CreateVersionRequest) (*models.Version, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.StorageKey, validation.Required),
		validation.Field(&req.SizeBytes, validation.Min(int64(0))),
	)
	if err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}

	if _, err := s.gate.requireDocument(ctx, p, documentID, policy.ActionVersionUpload); err != nil {
		return nil, err
	}

	version, err := s.createVersionTx(ctx, p, documentID, req)
	if errors.Is(err, domain.ErrConflict) {
		// Concurrent upload took our number; the lock ordering makes a
		// second attempt safe.
		version, err = s.createVersionTx(ctx, p, documentID, req)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("version created",
		"document_id", documentID, "version_id", version.ID, "version_number", version.VersionNumber)
	return version, nil
}

func (s *versionService) createVersionTx(ctx context.Context, p models.Principal, documentID string, req *services.CreateVersionRequest) (*models.Version, error) {
	version := &models.Version{
		DocumentID: documentID,
		StorageKey: req.StorageKey,
		SizeBytes:  req.SizeBytes,
		MimeType:   req.MimeType,
		UploadedBy: p.ID,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		// Lock the document row so concurrent uploads serialize on the
		// version number.
		if _, err := s.docRepo.GetByIDForUpdate(txCtx, documentID); err != nil {
			return err
		}
		max, err := s.versionRepo.MaxVersionNumber(txCtx, documentID)
		if err != nil {
			return err
		}
		version.VersionNumber = max + 1

		if err := s.versionRepo.Create(txCtx, version); err != nil {
			return err
		}
		if err := s.docRepo.SetCurrentVersion(txCtx, documentID, version.ID); err != nil {
			return err
		}
		return s.auditRepo.Append(txCtx, &models.AuditLogEntry{
			DocumentID: documentID,
			UserID:     p.ID,
			Action:     models.AuditVersionUploaded,
			Details:    fmt.Sprintf("version %d", version.VersionNumber),
			VersionID:  &version.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

// List returns versions newest-first
func (s *versionService) List(ctx context.Context, p models.Principal, documentID string, page, pageSize int) (*services.VersionList, error) {
	if _, err := s.gate.requireDocument(ctx, p, documentID, policy.ActionVersionList); err != nil {
		return nil, err
	}

	page, pageSize = normalizePage(page, pageSize)

	total, err := s.versionRepo.CountByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}
	versions, err := s.versionRepo.ListByDocument(ctx, documentID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	return &services.VersionList{
		Versions:   versions,
		Pagination: models.NewPagination(page, pageSize, total),
	}, nil
}

// SetCurrent moves the current-version pointer to an older version
func (s *versionService) SetCurrent(ctx context.Context, p models.Principal, documentID, versionID string) (*models.Version, error) {
	if err := validateID(versionID); err != nil {
		return nil, err
	}

	if _, err := s.gate.requireDocument(ctx, p, documentID, policy.ActionVersionRestore); err != nil {
		return nil, err
	}

	version, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if version.DocumentID != documentID {
		return nil, &domain.ValidationError{Message: "version does not belong to this document"}
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.SetCurrentVersion(txCtx, documentID, version.ID); err != nil {
			return err
		}
		return s.auditRepo.Append(txCtx, &models.AuditLogEntry{
			DocumentID: documentID,
			UserID:     p.ID,
			Action:     models.AuditVersionRestored,
			Details:    fmt.Sprintf("restored version %d", version.VersionNumber),
			VersionID:  &version.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

// DownloadURL presigns a download for a version, defaulting to current
func (s *versionService) DownloadURL(ctx context.Context, p models.Principal, documentID, versionID string) (string, error) {
	doc, err := s.gate.requireDocument(ctx, p, documentID, policy.ActionVersionDownload)
	if err != nil {
		return "", err
	}

	if versionID == "" {
		if doc.CurrentVersionID == nil {
			return "", &domain.NotFoundError{Message: "document has no versions"}
		}
		versionID = *doc.CurrentVersionID
	} else if err := validateID(versionID); err != nil {
		return "", err
	}

	version, err := s.versionRepo.GetByID(ctx, versionID)
	if err != nil {
		return "", err
	}
	if version.DocumentID != documentID {
		return "", &domain.ValidationError{Message: "version does not belong to this document"}
	}

	filename := fmt.Sprintf("%s-v%d%s", doc.Title, version.VersionNumber, path.Ext(version.StorageKey))
	url, err := s.store.PresignDownload(ctx, version.StorageKey, filename, config.DownloadURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presigning download for version %s: %w", version.ID, err)
	}
	return url, nil
}
