package service

import (
	"context"
	"errors"
	"testing"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
)

func userTarget(id int64) models.RuleTarget {
	return models.RuleTarget{UserID: &id}
}

func deptTarget(name string) models.RuleTarget {
	return models.RuleTarget{Department: &name}
}

func TestGrantUpsertsExistingRule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}
	docID := env.seedDocument(owner.ID, nil)

	if _, err := env.services.Sharing.Grant(ctx, owner, docID, &services.GrantRequest{
		Target: userTarget(7), Level: models.AccessView,
	}); err != nil {
		t.Fatalf("first grant: %v", err)
	}
	if _, err := env.services.Sharing.Grant(ctx, owner, docID, &services.GrantRequest{
		Target: userTarget(7), Level: models.AccessEdit,
	}); err != nil {
		t.Fatalf("second grant: %v", err)
	}

	rules, err := env.services.Sharing.List(ctx, owner, docID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rules) != 1 {
		t.Fatalf("rules = %d, want 1 after upsert", len(rules))
	}
	if rules[0].Level != models.AccessEdit {
		t.Errorf("level = %s, want edit", rules[0].Level)
	}

	entries, _ := env.audit.ListByDocument(ctx, docID, 0, 10)
	if len(entries) != 2 {
		t.Errorf("audit entries = %d, want one per grant", len(entries))
	}
}

func TestGrantValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}
	docID := env.seedDocument(owner.ID, nil)

	seven := int64(7)
	hr := "hr"
	cases := []struct {
		name string
		req  services.GrantRequest
	}{
		{"no target", services.GrantRequest{Level: models.AccessView}},
		{"both targets", services.GrantRequest{
			Target: models.RuleTarget{UserID: &seven, Department: &hr},
			Level:  models.AccessView,
		}},
		{"level none", services.GrantRequest{Target: userTarget(7), Level: models.AccessNone}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.services.Sharing.Grant(ctx, owner, docID, &tc.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want invalid input", err)
			}
		})
	}
}

func TestDelegatedManageCannotGrantManage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}
	delegate := models.Principal{ID: 2}
	docID := env.seedDocument(owner.ID, nil)

	if _, err := env.services.Sharing.Grant(ctx, owner, docID, &services.GrantRequest{
		Target: userTarget(delegate.ID), Level: models.AccessManage,
	}); err != nil {
		t.Fatalf("owner grants manage: %v", err)
	}

	// The delegate may share at lower levels.
	if _, err := env.services.Sharing.Grant(ctx, delegate, docID, &services.GrantRequest{
		Target: userTarget(3), Level: models.AccessEdit,
	}); err != nil {
		t.Fatalf("delegate grants edit: %v", err)
	}

	// But not propagate manage.
	_, err := env.services.Sharing.Grant(ctx, delegate, docID, &services.GrantRequest{
		Target: userTarget(3), Level: models.AccessManage,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("delegate grants manage: err = %v, want forbidden", err)
	}

	// Owners and administrators have no such restriction.
	admin := models.Principal{ID: 9, IsAdmin: true}
	if _, err := env.services.Sharing.Grant(ctx, admin, docID, &services.GrantRequest{
		Target: userTarget(4), Level: models.AccessManage,
	}); err != nil {
		t.Errorf("admin grants manage: %v", err)
	}
}

func TestGrantRequiresManage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}
	docID := env.seedDocument(owner.ID, nil)

	if _, err := env.services.Sharing.Grant(ctx, owner, docID, &services.GrantRequest{
		Target: userTarget(2), Level: models.AccessEdit,
	}); err != nil {
		t.Fatalf("owner grant: %v", err)
	}

	// Edit is below the floor for sharing operations.
	editor := models.Principal{ID: 2}
	_, err := env.services.Sharing.Grant(ctx, editor, docID, &services.GrantRequest{
		Target: userTarget(3), Level: models.AccessView,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("editor grant: err = %v, want forbidden", err)
	}
	if _, err := env.services.Sharing.List(ctx, editor, docID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("editor list: err = %v, want forbidden", err)
	}
}

func TestRevokeMissingRuleSkipsAudit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}
	docID := env.seedDocument(owner.ID, nil)

	if err := env.services.Sharing.Revoke(ctx, owner, docID, userTarget(42)); err != nil {
		t.Fatalf("revoke missing rule: %v", err)
	}
	if entries, _ := env.audit.ListByDocument(ctx, docID, 0, 10); len(entries) != 0 {
		t.Errorf("audit entries = %d, want none for a no-op revoke", len(entries))
	}

	if _, err := env.services.Sharing.Grant(ctx, owner, docID, &services.GrantRequest{
		Target: deptTarget("hr"), Level: models.AccessView,
	}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := env.services.Sharing.Revoke(ctx, owner, docID, deptTarget("hr")); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	rules, _ := env.services.Sharing.List(ctx, owner, docID)
	if len(rules) != 0 {
		t.Errorf("rules = %d, want 0 after revoke", len(rules))
	}
	entries, _ := env.audit.ListByDocument(ctx, docID, 0, 10)
	if len(entries) != 2 || entries[0].Action != models.AuditAccessRevoked {
		t.Errorf("expected a revoke audit entry, got %d entries", len(entries))
	}
}
