package access

import (
	"fmt"

	"docvault/internal/domain/models"
)

// VisibilityFilter is the listing-side counterpart of Resolve: a reusable
// predicate expressing "the principal's effective level is not none". It
// renders as a SQL fragment for bulk queries and as an in-memory check for
// tests and single-row decisions. The two forms and Resolve must agree at
// the none/not-none boundary.
type VisibilityFilter struct {
	Principal models.Principal

	all bool
}

// BuildVisibilityFilter returns the predicate for a principal.
func BuildVisibilityFilter(p models.Principal) VisibilityFilter {
	return VisibilityFilter{Principal: p}
}

// Unfiltered returns a predicate that passes every row. Listings use it
// when the caller already owns the scope being listed.
func Unfiltered() VisibilityFilter {
	return VisibilityFilter{all: true}
}

// Unrestricted reports whether the filter passes everything. Administrators
// see all rows, so listings skip the predicate entirely for them.
func (f VisibilityFilter) Unrestricted() bool {
	return f.all || f.Principal.IsAdmin
}

// Matches is the in-memory form of the predicate.
func (f VisibilityFilter) Matches(v models.Visibility, rules []models.AccessRule) bool {
	if f.all {
		return true
	}
	return Resolve(f.Principal, v, rules) != models.AccessNone
}

// SQL renders the predicate as a WHERE fragment over a documents (or
// folders) table aliased by alias. rulesTable is the access-rules table to
// probe for explicit grants; pass "" for resources without explicit rules
// (folders). Placeholders continue from len(args)+1; the extended argument
// slice is returned.
func (f VisibilityFilter) SQL(alias, rulesTable string, args []interface{}) (string, []interface{}) {
	if f.Unrestricted() {
		return "TRUE", args
	}

	ownerArg := len(args) + 1
	deptArg := len(args) + 2
	args = append(args, f.Principal.ID, f.Principal.Department)

	clause := fmt.Sprintf(`(%s.owner_id = $%d
		OR %s.is_public
		OR (%s.is_departmental AND %s.department = $%d)`,
		alias, ownerArg, alias, alias, alias, deptArg)

	if rulesTable != "" {
		userArg := len(args) + 1
		ruleDeptArg := len(args) + 2
		args = append(args, f.Principal.ID, f.Principal.Department)
		clause += fmt.Sprintf(`
		OR EXISTS (
			SELECT 1 FROM %s ar
			WHERE ar.document_id = %s.id
			  AND (ar.user_id = $%d OR ar.department = $%d)
		)`, rulesTable, alias, userArg, ruleDeptArg)
	}

	clause += ")"
	return clause, args
}
