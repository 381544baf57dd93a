package models

import (
	"time"
)

// Comment is a flat (non-threaded) remark on a document, displayed newest
// first.
type Comment struct {
	ID         string    `json:"id" db:"id"`
	DocumentID string    `json:"document_id" db:"document_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Body       string    `json:"body" db:"body"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
