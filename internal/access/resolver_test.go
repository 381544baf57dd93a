package access

import (
	"testing"

	"docvault/internal/domain/models"
)

func int64Ptr(v int64) *int64 { return &v }
func strPtr(s string) *string { return &s }

func userRule(userID int64, level models.AccessLevel) models.AccessRule {
	return models.AccessRule{DocumentID: "doc-1", Level: level, UserID: int64Ptr(userID)}
}

func deptRule(dept string, level models.AccessLevel) models.AccessRule {
	return models.AccessRule{DocumentID: "doc-1", Level: level, Department: strPtr(dept)}
}

func TestResolve(t *testing.T) {
	alice := models.Principal{ID: 1, Department: "finance"}
	bob := models.Principal{ID: 2, Department: "hr"}
	admin := models.Principal{ID: 99, Department: "it", IsAdmin: true}

	tests := []struct {
		name      string
		principal models.Principal
		vis       models.Visibility
		rules     []models.AccessRule
		want      models.AccessLevel
	}{
		{
			name:      "admin gets manage regardless of rules",
			principal: admin,
			vis:       models.Visibility{OwnerID: 1},
			rules:     []models.AccessRule{userRule(99, models.AccessView)},
			want:      models.AccessManage,
		},
		{
			name:      "owner gets manage",
			principal: alice,
			vis:       models.Visibility{OwnerID: 1},
			want:      models.AccessManage,
		},
		{
			name:      "no visibility and no rules gives none",
			principal: bob,
			vis:       models.Visibility{OwnerID: 1},
			want:      models.AccessNone,
		},
		{
			name:      "public grants view",
			principal: bob,
			vis:       models.Visibility{OwnerID: 1, IsPublic: true},
			want:      models.AccessView,
		},
		{
			name:      "departmental grants view to matching department",
			principal: bob,
			vis:       models.Visibility{OwnerID: 1, IsDepartmental: true, Department: "hr"},
			want:      models.AccessView,
		},
		{
			name:      "departmental grants nothing to other departments",
			principal: alice,
			vis:       models.Visibility{OwnerID: 2, IsDepartmental: true, Department: "hr"},
			want:      models.AccessNone,
		},
		{
			name:      "user rule grants its level",
			principal: bob,
			vis:       models.Visibility{OwnerID: 1},
			rules:     []models.AccessRule{userRule(2, models.AccessEdit)},
			want:      models.AccessEdit,
		},
		{
			name:      "department rule grants its level",
			principal: bob,
			vis:       models.Visibility{OwnerID: 1},
			rules:     []models.AccessRule{deptRule("hr", models.AccessEdit)},
			want:      models.AccessEdit,
		},
		{
			name:      "maximum wins when several rules apply",
			principal: bob,
			vis:       models.Visibility{OwnerID: 1},
			rules: []models.AccessRule{
				deptRule("hr", models.AccessView),
				userRule(2, models.AccessManage),
			},
			want: models.AccessManage,
		},
		{
			name:      "explicit rule beats implicit visibility",
			principal: bob,
			vis:       models.Visibility{OwnerID: 1, IsPublic: true},
			rules:     []models.AccessRule{userRule(2, models.AccessEdit)},
			want:      models.AccessEdit,
		},
		{
			name:      "rules for other principals are ignored",
			principal: bob,
			vis:       models.Visibility{OwnerID: 1},
			rules: []models.AccessRule{
				userRule(3, models.AccessManage),
				deptRule("finance", models.AccessEdit),
			},
			want: models.AccessNone,
		},
		{
			name:      "departmental match combines with a lower explicit rule",
			principal: bob,
			vis:       models.Visibility{OwnerID: 1, IsDepartmental: true, Department: "hr"},
			rules:     []models.AccessRule{userRule(2, models.AccessView)},
			want:      models.AccessView,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.principal, tt.vis, tt.rules)
			if got != tt.want {
				t.Errorf("Resolve() = %s, want %s", got, tt.want)
			}
		})
	}
}

// A departmental document with an explicit edit grant for one outside user:
// the grantee edits, department members view, everyone else gets nothing.
func TestResolveMixedVisibilityAndRules(t *testing.T) {
	vis := models.Visibility{OwnerID: 10, IsDepartmental: true, Department: "finance"}
	rules := []models.AccessRule{userRule(20, models.AccessEdit)}

	cases := []struct {
		name      string
		principal models.Principal
		want      models.AccessLevel
	}{
		{"owner", models.Principal{ID: 10, Department: "finance"}, models.AccessManage},
		{"grantee outside the department", models.Principal{ID: 20, Department: "hr"}, models.AccessEdit},
		{"department member", models.Principal{ID: 30, Department: "finance"}, models.AccessView},
		{"outsider", models.Principal{ID: 40, Department: "hr"}, models.AccessNone},
		{"admin", models.Principal{ID: 50, Department: "hr", IsAdmin: true}, models.AccessManage},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.principal, vis, rules); got != tt.want {
				t.Errorf("Resolve() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveRevokeDropsToImplicit(t *testing.T) {
	bob := models.Principal{ID: 2, Department: "hr"}
	vis := models.Visibility{OwnerID: 1}

	withRule := Resolve(bob, vis, []models.AccessRule{userRule(2, models.AccessEdit)})
	if withRule != models.AccessEdit {
		t.Fatalf("with rule: got %s, want edit", withRule)
	}

	// After the rule is revoked nothing implicit applies.
	withoutRule := Resolve(bob, vis, nil)
	if withoutRule != models.AccessNone {
		t.Errorf("after revoke: got %s, want none", withoutRule)
	}
}
