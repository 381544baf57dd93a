package service

import (
	"context"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"docvault/internal/access"
	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
)

type folderService struct {
	folderRepo repositories.FolderRepository
	gate       *accessGate
	walker     pathWalker
	logger     *slog.Logger
}

// newFolderService creates a new folder service
func newFolderService(
	folderRepo repositories.FolderRepository,
	gate *accessGate,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		gate:       gate,
		walker:     pathWalker{folders: folderRepo},
		logger:     logger,
	}
}

func validateFolderName(name string) error {
	err := validation.Validate(name, validation.Required, validation.Length(1, config.MaxFolderNameLength))
	if err != nil {
		return &domain.ValidationError{Message: "name: " + err.Error()}
	}
	return nil
}

// Create creates a folder owned by the principal
func (s *folderService) Create(ctx context.Context, p models.Principal, req *services.CreateFolderRequest) (*models.Folder, error) {
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}
	if err := validateFolderName(req.Name); err != nil {
		return nil, err
	}
	if req.IsDepartmental && req.Department == "" {
		return nil, &domain.ValidationError{Message: "department is required for departmental folders"}
	}

	if req.ParentID != nil {
		if _, err := s.gate.requireFolderView(ctx, p, *req.ParentID); err != nil {
			return nil, err
		}
	}

	folder := &models.Folder{
		Name:           req.Name,
		ParentID:       req.ParentID,
		OwnerID:        p.ID,
		IsPublic:       req.IsPublic,
		IsDepartmental: req.IsDepartmental,
		Department:     req.Department,
		Status:         models.StatusActive,
	}
	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created", "folder_id", folder.ID, "owner_id", p.ID)
	return folder, nil
}

// Get retrieves a folder with its breadcrumb path
func (s *folderService) Get(ctx context.Context, p models.Principal, id string) (*models.Folder, error) {
	folder, err := s.gate.requireFolderView(ctx, p, id)
	if err != nil {
		return nil, err
	}

	names, err := s.walker.path(ctx, folder.ParentID)
	if err != nil {
		return nil, err
	}
	folder.Path = joinPath(append(names, folder.Name))

	return folder, nil
}

// ListChildren lists child folders of a parent (nil = root)
func (s *folderService) ListChildren(ctx context.Context, p models.Principal, req *services.ListChildrenRequest) (*services.FolderList, error) {
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	filter := access.BuildVisibilityFilter(p)
	if req.ParentID != nil {
		parent, _, err := s.gate.resolveFolder(ctx, p, *req.ParentID)
		if err != nil {
			return nil, err
		}
		// The owner of the parent sees every child, visible or not.
		if parent.OwnerID == p.ID {
			filter = access.Unfiltered()
		}
	}

	page, pageSize := normalizePage(req.Page, req.PageSize)

	total, err := s.folderRepo.CountChildren(ctx, req.ParentID, filter)
	if err != nil {
		return nil, err
	}
	folders, err := s.folderRepo.ListChildren(ctx, repositories.ListFoldersInput{
		ParentID: req.ParentID,
		Filter:   filter,
		Offset:   (page - 1) * pageSize,
		Limit:    pageSize,
	})
	if err != nil {
		return nil, err
	}

	return &services.FolderList{
		Folders:    folders,
		Pagination: models.NewPagination(page, pageSize, total),
	}, nil
}

// Rename renames the folder (owner or administrator)
func (s *folderService) Rename(ctx context.Context, p models.Principal, id, name string) (*models.Folder, error) {
	if err := validateFolderName(name); err != nil {
		return nil, err
	}

	folder, err := s.gate.requireFolderManage(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if err := s.folderRepo.Rename(ctx, folder.ID, name); err != nil {
		return nil, err
	}
	folder.Name = name
	return folder, nil
}

// Move re-parents the folder, rejecting parent assignments that would
// make the folder its own ancestor
func (s *folderService) Move(ctx context.Context, p models.Principal, id string, parentID *string) (*models.Folder, error) {
	if parentID != nil && *parentID == "" {
		parentID = nil
	}

	folder, err := s.gate.requireFolderManage(ctx, p, id)
	if err != nil {
		return nil, err
	}

	if parentID != nil {
		if *parentID == folder.ID {
			return nil, &domain.ValidationError{Message: "a folder cannot be its own parent"}
		}
		if _, err := s.gate.requireFolderView(ctx, p, *parentID); err != nil {
			return nil, err
		}
		cycle, err := s.walker.wouldCycle(ctx, folder.ID, parentID)
		if err != nil {
			return nil, err
		}
		if cycle {
			return nil, &domain.ValidationError{Message: "move would make the folder its own ancestor"}
		}
	}

	if err := s.folderRepo.UpdateParent(ctx, folder.ID, parentID); err != nil {
		return nil, err
	}
	folder.ParentID = parentID

	s.logger.Info("folder moved", "folder_id", folder.ID, "user_id", p.ID)
	return folder, nil
}

// Archive soft-deletes the folder
func (s *folderService) Archive(ctx context.Context, p models.Principal, id string) error {
	folder, err := s.gate.requireFolderManage(ctx, p, id)
	if err != nil {
		return err
	}
	if folder.Status == models.StatusArchived {
		return nil
	}
	return s.folderRepo.UpdateStatus(ctx, folder.ID, models.StatusArchived)
}

// Restore reactivates an archived folder
func (s *folderService) Restore(ctx context.Context, p models.Principal, id string) error {
	folder, err := s.gate.requireFolderManage(ctx, p, id)
	if err != nil {
		return err
	}
	if folder.Status == models.StatusActive {
		return nil
	}
	return s.folderRepo.UpdateStatus(ctx, folder.ID, models.StatusActive)
}

// Path returns the folder names from the root down to the folder
func (s *folderService) Path(ctx context.Context, p models.Principal, id string) ([]string, error) {
	folder, err := s.gate.requireFolderView(ctx, p, id)
	if err != nil {
		return nil, err
	}
	folderID := folder.ID
	return s.walker.path(ctx, &folderID)
}
