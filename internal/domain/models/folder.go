package models

import (
	"time"
)

type Folder struct {
	ID             string         `json:"id" db:"id"`
	Name           string         `json:"name" db:"name"`
	ParentID       *string        `json:"parent_id" db:"parent_id"` // NULL = root level
	OwnerID        int64          `json:"owner_id" db:"owner_id"`
	IsPublic       bool           `json:"is_public" db:"is_public"`
	IsDepartmental bool           `json:"is_departmental" db:"is_departmental"`
	Department     string         `json:"department" db:"department"`
	Status         ResourceStatus `json:"status" db:"status"`
	Path           string         `json:"path,omitempty"` // computed breadcrumb, not stored
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// Visibility returns the fields the access resolver operates on.
func (f *Folder) Visibility() Visibility {
	return Visibility{
		OwnerID:        f.OwnerID,
		IsPublic:       f.IsPublic,
		IsDepartmental: f.IsDepartmental,
		Department:     f.Department,
	}
}
