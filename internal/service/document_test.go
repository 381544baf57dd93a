package service

import (
	"context"
	"errors"
	"testing"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
)

func TestDocumentCreateWithTagsAndAudit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}

	doc, err := env.services.Documents.Create(ctx, owner, &services.CreateDocumentRequest{
		Title: "onboarding guide",
		Tags:  []string{"hr", "guide"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if doc.OwnerID != owner.ID {
		t.Errorf("owner = %d, want %d", doc.OwnerID, owner.ID)
	}
	if doc.CurrentVersionID != nil {
		t.Error("new document must start without a current version")
	}
	if len(doc.Tags) != 2 {
		t.Errorf("tags = %v, want 2", doc.Tags)
	}

	entries, _ := env.audit.ListByDocument(ctx, doc.ID, 0, 10)
	if len(entries) != 1 || entries[0].Action != models.AuditDocumentCreated {
		t.Errorf("audit = %v, want one created entry", entries)
	}
}

func TestDocumentCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}

	cases := []struct {
		name string
		req  services.CreateDocumentRequest
	}{
		{"empty title", services.CreateDocumentRequest{}},
		{"departmental without department", services.CreateDocumentRequest{
			Title: "x", IsDepartmental: true,
		}},
		{"empty tag", services.CreateDocumentRequest{
			Title: "x", Tags: []string{""},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.services.Documents.Create(ctx, owner, &tc.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want invalid input", err)
			}
		})
	}
}

func TestDocumentCreateRequiresVisibleFolder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	hidden := env.seedFolder(1, "private", nil, nil)
	outsider := models.Principal{ID: 2}

	_, err := env.services.Documents.Create(ctx, outsider, &services.CreateDocumentRequest{
		Title:    "notes",
		FolderID: &hidden,
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("create in hidden folder: err = %v, want forbidden", err)
	}
}

func TestDocumentGetBuildsPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}

	root := env.seedFolder(owner.ID, "finance", nil, nil)
	sub := env.seedFolder(owner.ID, "2026", &root, nil)
	docID := env.seedDocument(owner.ID, func(d *models.Document) { d.FolderID = &sub })
	_ = env.tags.Replace(ctx, docID, []string{"budget"})

	doc, err := env.services.Documents.Get(ctx, owner, docID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc.Path != "/finance/2026" {
		t.Errorf("path = %q, want /finance/2026", doc.Path)
	}
	if len(doc.Tags) != 1 || doc.Tags[0] != "budget" {
		t.Errorf("tags = %v, want [budget]", doc.Tags)
	}

	if _, err := env.services.Documents.Get(ctx, owner, "not-a-uuid"); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("malformed id: err = %v, want invalid input", err)
	}
	if _, err := env.services.Documents.Get(ctx, owner, "00000000-0000-4000-8000-999999999999"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown id: err = %v, want not found", err)
	}
}

func TestUpdateMetadataVisibilityRequiresManage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}
	editor := models.Principal{ID: 2}
	docID := env.seedDocument(owner.ID, nil)

	if _, err := env.services.Sharing.Grant(ctx, owner, docID, &services.GrantRequest{
		Target: userTarget(editor.ID), Level: models.AccessEdit,
	}); err != nil {
		t.Fatalf("grant edit: %v", err)
	}

	// Edit covers a title change.
	title := "renamed"
	doc, err := env.services.Documents.UpdateMetadata(ctx, editor, docID, &services.UpdateDocumentRequest{Title: &title})
	if err != nil {
		t.Fatalf("editor renames: %v", err)
	}
	if doc.Title != "renamed" {
		t.Errorf("title = %q, want renamed", doc.Title)
	}

	// But not a visibility flip.
	public := true
	_, err = env.services.Documents.UpdateMetadata(ctx, editor, docID, &services.UpdateDocumentRequest{IsPublic: &public})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("editor flips visibility: err = %v, want forbidden", err)
	}

	// The owner can.
	doc, err = env.services.Documents.UpdateMetadata(ctx, owner, docID, &services.UpdateDocumentRequest{IsPublic: &public})
	if err != nil {
		t.Fatalf("owner flips visibility: %v", err)
	}
	if !doc.IsPublic {
		t.Error("document not public after update")
	}
}

func TestUpdateMetadataMovesToRoot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}

	folder := env.seedFolder(owner.ID, "inbox", nil, nil)
	docID := env.seedDocument(owner.ID, func(d *models.Document) { d.FolderID = &folder })

	empty := ""
	doc, err := env.services.Documents.UpdateMetadata(ctx, owner, docID, &services.UpdateDocumentRequest{FolderID: &empty})
	if err != nil {
		t.Fatalf("move to root: %v", err)
	}
	if doc.FolderID != nil {
		t.Errorf("folder = %v, want root", *doc.FolderID)
	}
}

func TestUpdateMetadataDepartmentalNeedsDepartment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}
	docID := env.seedDocument(owner.ID, nil)

	departmental := true
	_, err := env.services.Documents.UpdateMetadata(ctx, owner, docID, &services.UpdateDocumentRequest{IsDepartmental: &departmental})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("departmental without department: err = %v, want invalid input", err)
	}
}

func TestDocumentListVisibilityAndArchived(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}

	env.seedDocument(owner.ID, func(d *models.Document) { d.Title = "public"; d.IsPublic = true })
	env.seedDocument(owner.ID, func(d *models.Document) { d.Title = "private" })
	env.seedDocument(owner.ID, func(d *models.Document) {
		d.Title = "archived"
		d.IsPublic = true
		d.Status = models.StatusArchived
	})

	outsider := models.Principal{ID: 2}
	list, err := env.services.Documents.List(ctx, outsider, &services.ListDocumentsRequest{})
	if err != nil {
		t.Fatalf("List outsider: %v", err)
	}
	if len(list.Documents) != 1 || list.Documents[0].Title != "public" {
		t.Errorf("outsider sees %d documents, want just the public active one", len(list.Documents))
	}

	list, err = env.services.Documents.List(ctx, owner, &services.ListDocumentsRequest{IncludeArchived: true})
	if err != nil {
		t.Fatalf("List owner: %v", err)
	}
	if len(list.Documents) != 3 {
		t.Errorf("owner with archived sees %d documents, want 3", len(list.Documents))
	}
	if list.Pagination.Total != 3 {
		t.Errorf("total = %d, want 3", list.Pagination.Total)
	}
}

func TestDocumentArchiveRestoreAudit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}
	docID := env.seedDocument(owner.ID, nil)

	if err := env.services.Documents.Archive(ctx, owner, docID); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	// A second archive is a no-op and writes no second entry.
	if err := env.services.Documents.Archive(ctx, owner, docID); err != nil {
		t.Fatalf("Archive again: %v", err)
	}
	if err := env.services.Documents.Restore(ctx, owner, docID); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	entries, _ := env.audit.ListByDocument(ctx, docID, 0, 10)
	if len(entries) != 2 {
		t.Fatalf("audit entries = %d, want archive + restore", len(entries))
	}
	if entries[0].Action != models.AuditDocumentRestored || entries[1].Action != models.AuditDocumentArchived {
		t.Errorf("audit actions = %q, %q", entries[0].Action, entries[1].Action)
	}
}

func TestHardDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}
	docID := env.seedDocument(owner.ID, nil)

	if _, err := env.services.Versions.CreateVersion(ctx, owner, docID, &services.CreateVersionRequest{StorageKey: "keys/v1"}); err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	if _, err := env.services.Comments.Create(ctx, owner, docID, "keep this"); err != nil {
		t.Fatalf("Comment: %v", err)
	}
	if _, err := env.services.Sharing.Grant(ctx, owner, docID, &services.GrantRequest{
		Target: userTarget(2), Level: models.AccessView,
	}); err != nil {
		t.Fatalf("Grant: %v", err)
	}

	// Only edit-level holders cannot hard delete, even via a manage rule.
	manager := models.Principal{ID: 3}
	if _, err := env.services.Sharing.Grant(ctx, owner, docID, &services.GrantRequest{
		Target: userTarget(manager.ID), Level: models.AccessManage,
	}); err != nil {
		t.Fatalf("Grant manage: %v", err)
	}
	if err := env.services.Documents.HardDelete(ctx, manager, docID); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("manage-rule holder deletes: err = %v, want forbidden", err)
	}

	if err := env.services.Documents.HardDelete(ctx, owner, docID); err != nil {
		t.Fatalf("HardDelete: %v", err)
	}

	if _, err := env.docs.GetByID(ctx, docID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("document row survived hard delete")
	}
	if n, _ := env.versions.CountByDocument(ctx, docID); n != 0 {
		t.Errorf("versions left = %d", n)
	}
	if n, _ := env.comments.CountByDocument(ctx, docID); n != 0 {
		t.Errorf("comments left = %d", n)
	}
	if rules, _ := env.rules.ListByDocument(ctx, docID); len(rules) != 0 {
		t.Errorf("rules left = %d", len(rules))
	}
	if n, _ := env.audit.CountByDocument(ctx, docID); n != 0 {
		t.Errorf("audit entries left = %d", n)
	}
	if len(env.store.deleted) != 1 || env.store.deleted[0] != "keys/v1" {
		t.Errorf("storage deletes = %v, want [keys/v1]", env.store.deleted)
	}
}

func TestHardDeleteSurvivesStorageFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}
	docID := env.seedDocument(owner.ID, nil)

	if _, err := env.services.Versions.CreateVersion(ctx, owner, docID, &services.CreateVersionRequest{StorageKey: "keys/broken"}); err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	env.store.failKeys["keys/broken"] = true

	// The metadata transaction is authoritative; a storage failure is
	// logged, not surfaced.
	if err := env.services.Documents.HardDelete(ctx, owner, docID); err != nil {
		t.Fatalf("HardDelete with failing storage: %v", err)
	}
	if _, err := env.docs.GetByID(ctx, docID); !errors.Is(err, domain.ErrNotFound) {
		t.Error("document row survived hard delete")
	}
}

func TestSetTagsReplacesSet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := models.Principal{ID: 1}
	docID := env.seedDocument(owner.ID, nil)

	tags, err := env.services.Documents.SetTags(ctx, owner, docID, []string{"a", "b"})
	if err != nil {
		t.Fatalf("SetTags: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("tags = %v, want 2", tags)
	}

	tags, err = env.services.Documents.SetTags(ctx, owner, docID, []string{"c"})
	if err != nil {
		t.Fatalf("SetTags replace: %v", err)
	}
	if len(tags) != 1 || tags[0] != "c" {
		t.Errorf("tags = %v, want [c]", tags)
	}

	if _, err := env.services.Documents.SetTags(ctx, owner, docID, []string{""}); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("empty tag: err = %v, want invalid input", err)
	}
}
