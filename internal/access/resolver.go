// Package access is the single authoritative implementation of the
// document/folder access rules. Every read and write gate in the engine
// goes through Resolve or VisibilityFilter; no call site reimplements the
// logic.
package access

import (
	"docvault/internal/domain/models"
)

// Resolve computes the effective access level of a principal on a resource.
// It is pure: the caller supplies the resource's visibility fields and the
// full set of explicit rules for it.
//
// Order of evaluation:
//  1. organization administrators hold manage unconditionally
//  2. the owner holds manage
//  3. the maximum over all applying explicit rules
//  4. if no rule applies, implicit visibility (public, or departmental
//     with a matching department) grants view
func Resolve(p models.Principal, v models.Visibility, rules []models.AccessRule) models.AccessLevel {
	if p.IsAdmin {
		return models.AccessManage
	}
	if p.ID == v.OwnerID {
		return models.AccessManage
	}

	best := models.AccessNone
	for i := range rules {
		if !rules[i].AppliesTo(p) {
			continue
		}
		if rules[i].Level > best {
			best = rules[i].Level
		}
	}

	if best == models.AccessNone {
		if v.IsPublic || (v.IsDepartmental && v.Department == p.Department) {
			best = models.AccessView
		}
	}

	return best
}
