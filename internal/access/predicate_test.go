package access

import (
	"strings"
	"testing"

	"docvault/internal/domain/models"
)

// Matches and Resolve must agree at the none/not-none boundary for every
// combination of visibility flags and rules.
func TestMatchesAgreesWithResolve(t *testing.T) {
	principals := []models.Principal{
		{ID: 1, Department: "finance"},
		{ID: 2, Department: "hr"},
		{ID: 3, Department: "finance", IsAdmin: true},
	}
	visibilities := []models.Visibility{
		{OwnerID: 1},
		{OwnerID: 1, IsPublic: true},
		{OwnerID: 1, IsDepartmental: true, Department: "finance"},
		{OwnerID: 1, IsDepartmental: true, Department: "hr"},
		{OwnerID: 2, IsPublic: true, IsDepartmental: true, Department: "finance"},
	}
	ruleSets := [][]models.AccessRule{
		nil,
		{userRule(2, models.AccessView)},
		{deptRule("hr", models.AccessEdit)},
		{userRule(2, models.AccessManage), deptRule("finance", models.AccessView)},
	}

	for _, p := range principals {
		filter := BuildVisibilityFilter(p)
		for _, v := range visibilities {
			for _, rules := range ruleSets {
				wantVisible := Resolve(p, v, rules) != models.AccessNone
				if got := filter.Matches(v, rules); got != wantVisible {
					t.Errorf("Matches(%+v, %+v) for principal %d = %v, resolver says %v",
						v, rules, p.ID, got, wantVisible)
				}
			}
		}
	}
}

func TestFilterSQLAdmin(t *testing.T) {
	filter := BuildVisibilityFilter(models.Principal{ID: 1, IsAdmin: true})

	clause, args := filter.SQL("d", "dev_access_rules", nil)
	if clause != "TRUE" {
		t.Errorf("admin clause = %q, want TRUE", clause)
	}
	if len(args) != 0 {
		t.Errorf("admin args = %v, want none", args)
	}
}

func TestFilterSQLPlaceholders(t *testing.T) {
	filter := BuildVisibilityFilter(models.Principal{ID: 7, Department: "finance"})

	// Placeholders must continue after the existing arguments.
	clause, args := filter.SQL("d", "dev_access_rules", []interface{}{"active"})

	if len(args) != 5 {
		t.Fatalf("args = %d, want 5 (1 existing + 4 appended)", len(args))
	}
	for _, want := range []string{"$2", "$3", "$4", "$5"} {
		if !strings.Contains(clause, want) {
			t.Errorf("clause missing placeholder %s: %s", want, clause)
		}
	}
	if strings.Contains(clause, "$1") {
		t.Errorf("clause reuses caller placeholder $1: %s", clause)
	}
	if !strings.Contains(clause, "d.owner_id") {
		t.Errorf("clause not qualified with alias: %s", clause)
	}
	if !strings.Contains(clause, "EXISTS") {
		t.Errorf("clause missing rules probe: %s", clause)
	}
}

func TestFilterSQLWithoutRulesTable(t *testing.T) {
	filter := BuildVisibilityFilter(models.Principal{ID: 7, Department: "finance"})

	clause, args := filter.SQL("f", "", nil)
	if strings.Contains(clause, "EXISTS") {
		t.Errorf("folder clause should not probe rules: %s", clause)
	}
	if len(args) != 2 {
		t.Errorf("args = %d, want 2", len(args))
	}
}

func TestUnfiltered(t *testing.T) {
	filter := Unfiltered()

	if !filter.Unrestricted() {
		t.Error("Unfiltered() should be unrestricted")
	}
	if clause, _ := filter.SQL("d", "rules", nil); clause != "TRUE" {
		t.Errorf("clause = %q, want TRUE", clause)
	}
	if !filter.Matches(models.Visibility{OwnerID: 42}, nil) {
		t.Error("Unfiltered() should match everything")
	}
}
