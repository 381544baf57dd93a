package repositories

import (
	"context"
)

// TagRepository persists document tags
type TagRepository interface {
	ListByDocument(ctx context.Context, documentID string) ([]string, error)

	// Replace swaps the document's tag set for the given one. Tags are
	// deduplicated at write time; no other uniqueness is enforced.
	Replace(ctx context.Context, documentID string, tags []string) error

	DeleteByDocument(ctx context.Context, documentID string) error
}
