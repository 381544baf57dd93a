package services

import (
	"context"
	"time"
)

// ObjectStore is the external object-storage collaborator. The engine never
// moves file bytes itself: uploads happen directly against a presigned URL
// and the engine only commits metadata afterwards.
type ObjectStore interface {
	// PresignUpload returns a URL the client PUTs the bytes to.
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error)

	// PresignDownload returns a URL serving the object, with a
	// content-disposition filename when one is given.
	PresignDownload(ctx context.Context, key, filename string, expires time.Duration) (string, error)

	// Delete removes the object. Callers treat failures as best-effort:
	// a failed storage delete never rolls back a metadata transaction.
	Delete(ctx context.Context, key string) error
}
