package repositories

import (
	"context"

	"docvault/internal/domain/models"
)

// CommentRepository persists document comments
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)

	// ListByDocument returns comments newest-first
	ListByDocument(ctx context.Context, documentID string, offset, limit int) ([]models.Comment, error)
	CountByDocument(ctx context.Context, documentID string) (int64, error)

	Delete(ctx context.Context, id string) error
	DeleteByDocument(ctx context.Context, documentID string) error
}
