package models

import (
	"time"
)

// ResourceStatus is the lifecycle state of a document or folder. Archived
// resources are soft-deleted: hidden from active listings but never hard
// deleted while versions or audit entries exist.
type ResourceStatus string

const (
	StatusActive   ResourceStatus = "active"
	StatusArchived ResourceStatus = "archived"
)

type Document struct {
	ID               string         `json:"id" db:"id"`
	Title            string         `json:"title" db:"title"`
	Description      string         `json:"description" db:"description"`
	OwnerID          int64          `json:"owner_id" db:"owner_id"`
	FolderID         *string        `json:"folder_id" db:"folder_id"` // NULL = root level
	IsPublic         bool           `json:"is_public" db:"is_public"`
	IsDepartmental   bool           `json:"is_departmental" db:"is_departmental"`
	Department       string         `json:"department" db:"department"`
	Status           ResourceStatus `json:"status" db:"status"`
	CurrentVersionID *string        `json:"current_version_id" db:"current_version_id"` // NULL until first upload
	Tags             []string       `json:"tags,omitempty"`                             // loaded separately
	Path             string         `json:"path,omitempty"`                             // computed breadcrumb, not stored
	CreatedAt        time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at" db:"updated_at"`
}

// Visibility returns the fields the access resolver operates on.
func (d *Document) Visibility() Visibility {
	return Visibility{
		OwnerID:        d.OwnerID,
		IsPublic:       d.IsPublic,
		IsDepartmental: d.IsDepartmental,
		Department:     d.Department,
	}
}
