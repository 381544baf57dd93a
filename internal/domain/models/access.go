package models

import (
	"encoding/json"
	"fmt"
)

// AccessLevel is the effective permission a principal holds on a document
// or folder. Levels form a total order: none < view < edit < manage.
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessView
	AccessEdit
	AccessManage
)

var accessLevelNames = map[AccessLevel]string{
	AccessNone:   "none",
	AccessView:   "view",
	AccessEdit:   "edit",
	AccessManage: "manage",
}

func (l AccessLevel) String() string {
	if name, ok := accessLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("access_level(%d)", int(l))
}

// AtLeast reports whether l meets the given minimum level.
func (l AccessLevel) AtLeast(min AccessLevel) bool {
	return l >= min
}

// ParseAccessLevel parses the string form used on the wire and in storage.
func ParseAccessLevel(s string) (AccessLevel, error) {
	for level, name := range accessLevelNames {
		if name == s {
			return level, nil
		}
	}
	return AccessNone, fmt.Errorf("unknown access level %q", s)
}

// MarshalJSON serializes the level as its string name.
func (l AccessLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts the string name.
func (l *AccessLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAccessLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// UnmarshalYAML accepts the string name, for the policy registry files.
func (l *AccessLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseAccessLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// AccessRule is an explicit grant on a document, targeting either one user
// or an entire department. Exactly one of UserID/Department is set.
type AccessRule struct {
	DocumentID string      `json:"document_id" db:"document_id"`
	Level      AccessLevel `json:"level" db:"access_level"`
	UserID     *int64      `json:"user_id,omitempty" db:"user_id"`
	Department *string     `json:"department,omitempty" db:"department"`
}

// AppliesTo reports whether the rule grants anything to the principal:
// either it names the principal directly or it names their department.
func (r *AccessRule) AppliesTo(p Principal) bool {
	if r.UserID != nil && *r.UserID == p.ID {
		return true
	}
	if r.Department != nil && *r.Department == p.Department {
		return true
	}
	return false
}

// RuleTarget identifies who a grant applies to. Exactly one field is set.
type RuleTarget struct {
	UserID     *int64  `json:"user_id,omitempty"`
	Department *string `json:"department,omitempty"`
}

// Valid reports whether exactly one of user/department is set, and the
// department, when set, is non-empty.
func (t RuleTarget) Valid() bool {
	if t.UserID != nil && t.Department != nil {
		return false
	}
	if t.UserID == nil && t.Department == nil {
		return false
	}
	if t.Department != nil && *t.Department == "" {
		return false
	}
	return true
}

// Visibility carries the implicit-access fields shared by documents and
// folders. The access resolver operates on this, not on the full records.
type Visibility struct {
	OwnerID        int64
	IsPublic       bool
	IsDepartmental bool
	Department     string
}
