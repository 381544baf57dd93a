package services

import (
	"context"

	"docvault/internal/domain/models"
)

// CommentService handles document comments. Comments are a collaboration
// feature, so view access is enough to read and write them.
type CommentService interface {
	Create(ctx context.Context, p models.Principal, documentID, body string) (*models.Comment, error)

	// List returns comments newest-first. Requires view.
	List(ctx context.Context, p models.Principal, documentID string, page, pageSize int) (*CommentList, error)

	// Delete removes a comment. Authors delete their own; anyone holding
	// manage may delete any comment on the document.
	Delete(ctx context.Context, p models.Principal, documentID, commentID string) error
}

// CommentList is one page of comments
type CommentList struct {
	Comments   []models.Comment  `json:"comments"`
	Pagination models.Pagination `json:"pagination"`
}
