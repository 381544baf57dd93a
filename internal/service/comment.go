package service

import (
	"context"
	"log/slog"
	"strings"

	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/policy"
)

type commentService struct {
	commentRepo repositories.CommentRepository
	gate        *accessGate
	logger      *slog.Logger
}

// newCommentService creates a new comment service
func newCommentService(
	commentRepo repositories.CommentRepository,
	gate *accessGate,
	logger *slog.Logger,
) services.CommentService {
	return &commentService{
		commentRepo: commentRepo,
		gate:        gate,
		logger:      logger,
	}
}

// Create adds a comment to the document
func (s *commentService) Create(ctx context.Context, p models.Principal, documentID, body string) (*models.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, &domain.ValidationError{Message: "comment body cannot be empty"}
	}
	if len(body) > config.MaxCommentLength {
		return nil, &domain.ValidationError{Message: "comment body too long"}
	}

	doc, err := s.gate.requireDocument(ctx, p, documentID, policy.ActionCommentCreate)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		DocumentID: doc.ID,
		UserID:     p.ID,
		Body:       body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// List returns comments newest-first
func (s *commentService) List(ctx context.Context, p models.Principal, documentID string, page, pageSize int) (*services.CommentList, error) {
	doc, err := s.gate.requireDocument(ctx, p, documentID, policy.ActionCommentList)
	if err != nil {
		return nil, err
	}

	page, pageSize = normalizePage(page, pageSize)

	total, err := s.commentRepo.CountByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByDocument(ctx, doc.ID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}

	return &services.CommentList{
		Comments:   comments,
		Pagination: models.NewPagination(page, pageSize, total),
	}, nil
}

// Delete removes a comment. Authors remove their own; manage access
// moderates everyone's.
func (s *commentService) Delete(ctx context.Context, p models.Principal, documentID, commentID string) error {
	if err := validateID(commentID); err != nil {
		return err
	}

	doc, level, err := s.gate.resolveDocument(ctx, p, documentID)
	if err != nil {
		return err
	}
	if !level.AtLeast(models.AccessView) {
		return &domain.ForbiddenError{Message: "no access to this document"}
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.DocumentID != doc.ID {
		return &domain.ValidationError{Message: "comment does not belong to this document"}
	}
	if comment.UserID != p.ID && !level.AtLeast(models.AccessManage) {
		return &domain.ForbiddenError{Message: "only the author or a manager may delete a comment"}
	}

	return s.commentRepo.Delete(ctx, comment.ID)
}
