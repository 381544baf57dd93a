package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"docvault/internal/access"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
	"docvault/internal/domain/services"
	"docvault/internal/policy"
)

// In-memory repositories for service tests. They honor the same contracts
// as the postgres implementations: not-found errors, newest-first
// ordering, upsert natural keys and the visibility filter on listings.

var testIDCounter int

func nextTestID() string {
	testIDCounter++
	// Valid UUID shape so validateID passes.
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", testIDCounter)
}

type fakeStore struct {
	deleted   []string
	failKeys  map[string]bool
	presigned []string
}

func (s *fakeStore) PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	s.presigned = append(s.presigned, key)
	return "https://storage.test/upload/" + key, nil
}

func (s *fakeStore) PresignDownload(ctx context.Context, key, filename string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + key, nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	if s.failKeys[key] {
		return fmt.Errorf("storage unavailable for %s", key)
	}
	s.deleted = append(s.deleted, key)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakeDocumentRepo struct {
	docs map[string]*models.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[string]*models.Document)}
}

func (r *fakeDocumentRepo) Create(ctx context.Context, doc *models.Document) error {
	doc.ID = nextTestID()
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) GetByID(ctx context.Context, id string) (*models.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "document not found"}
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Document, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeDocumentRepo) matches(doc *models.Document, in repositories.ListDocumentsInput, rules map[string][]models.AccessRule) bool {
	if !in.Filter.Matches(doc.Visibility(), rules[doc.ID]) {
		return false
	}
	if !in.IncludeArchived && doc.Status != models.StatusActive {
		return false
	}
	if in.FolderScoped {
		switch {
		case in.FolderID == nil:
			if doc.FolderID != nil {
				return false
			}
		case doc.FolderID == nil || *doc.FolderID != *in.FolderID:
			return false
		}
	}
	if in.Title != "" && !strings.Contains(strings.ToLower(doc.Title), strings.ToLower(in.Title)) {
		return false
	}
	return true
}

func (r *fakeDocumentRepo) list(in repositories.ListDocumentsInput) []models.Document {
	var out []models.Document
	for _, doc := range r.docs {
		if r.matches(doc, in, nil) {
			out = append(out, *doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeDocumentRepo) List(ctx context.Context, in repositories.ListDocumentsInput) ([]models.Document, error) {
	out := r.list(in)
	if in.Offset >= len(out) {
		return nil, nil
	}
	end := in.Offset + in.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[in.Offset:end], nil
}

func (r *fakeDocumentRepo) Count(ctx context.Context, in repositories.ListDocumentsInput) (int64, error) {
	return int64(len(r.list(in))), nil
}

func (r *fakeDocumentRepo) UpdateMetadata(ctx context.Context, doc *models.Document) error {
	stored, ok := r.docs[doc.ID]
	if !ok {
		return &domain.NotFoundError{Message: "document not found"}
	}
	copied := *doc
	copied.CreatedAt = stored.CreatedAt
	copied.UpdatedAt = time.Now()
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) UpdateStatus(ctx context.Context, id string, status models.ResourceStatus) error {
	doc, ok := r.docs[id]
	if !ok {
		return &domain.NotFoundError{Message: "document not found"}
	}
	doc.Status = status
	return nil
}

func (r *fakeDocumentRepo) SetCurrentVersion(ctx context.Context, id, versionID string) error {
	doc, ok := r.docs[id]
	if !ok {
		return &domain.NotFoundError{Message: "document not found"}
	}
	doc.CurrentVersionID = &versionID
	return nil
}

func (r *fakeDocumentRepo) HardDelete(ctx context.Context, id string) error {
	if _, ok := r.docs[id]; !ok {
		return &domain.NotFoundError{Message: "document not found"}
	}
	delete(r.docs, id)
	return nil
}

type fakeFolderRepo struct {
	folders map[string]*models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]*models.Folder)}
}

func (r *fakeFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	folder.ID = nextTestID()
	folder.CreatedAt = time.Now()
	folder.UpdatedAt = folder.CreatedAt
	copied := *folder
	r.folders[folder.ID] = &copied
	return nil
}

func (r *fakeFolderRepo) GetByID(ctx context.Context, id string) (*models.Folder, error) {
	folder, ok := r.folders[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "folder not found"}
	}
	copied := *folder
	return &copied, nil
}

func (r *fakeFolderRepo) children(parentID *string, filter access.VisibilityFilter) []models.Folder {
	var out []models.Folder
	for _, folder := range r.folders {
		if folder.Status != models.StatusActive {
			continue
		}
		if !filter.Matches(folder.Visibility(), nil) {
			continue
		}
		switch {
		case parentID == nil:
			if folder.ParentID != nil {
				continue
			}
		case folder.ParentID == nil || *folder.ParentID != *parentID:
			continue
		}
		out = append(out, *folder)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeFolderRepo) ListChildren(ctx context.Context, in repositories.ListFoldersInput) ([]models.Folder, error) {
	out := r.children(in.ParentID, in.Filter)
	if in.Offset >= len(out) {
		return nil, nil
	}
	end := in.Offset + in.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[in.Offset:end], nil
}

func (r *fakeFolderRepo) CountChildren(ctx context.Context, parentID *string, filter access.VisibilityFilter) (int64, error) {
	return int64(len(r.children(parentID, filter))), nil
}

func (r *fakeFolderRepo) UpdateParent(ctx context.Context, id string, parentID *string) error {
	folder, ok := r.folders[id]
	if !ok {
		return &domain.NotFoundError{Message: "folder not found"}
	}
	folder.ParentID = parentID
	return nil
}

func (r *fakeFolderRepo) Rename(ctx context.Context, id, name string) error {
	folder, ok := r.folders[id]
	if !ok {
		return &domain.NotFoundError{Message: "folder not found"}
	}
	folder.Name = name
	return nil
}

func (r *fakeFolderRepo) UpdateStatus(ctx context.Context, id string, status models.ResourceStatus) error {
	folder, ok := r.folders[id]
	if !ok {
		return &domain.NotFoundError{Message: "folder not found"}
	}
	folder.Status = status
	return nil
}

type fakeVersionRepo struct {
	versions   map[string]*models.Version
	failCreate int // fail the next N Create calls with a conflict
}

func newFakeVersionRepo() *fakeVersionRepo {
	return &fakeVersionRepo{versions: make(map[string]*models.Version)}
}

func (r *fakeVersionRepo) Create(ctx context.Context, version *models.Version) error {
	if r.failCreate > 0 {
		r.failCreate--
		return &domain.ConflictError{Message: "version number already taken"}
	}
	for _, v := range r.versions {
		if v.DocumentID == version.DocumentID && v.VersionNumber == version.VersionNumber {
			return &domain.ConflictError{Message: "version number already taken"}
		}
	}
	version.ID = nextTestID()
	version.CreatedAt = time.Now()
	copied := *version
	r.versions[version.ID] = &copied
	return nil
}

func (r *fakeVersionRepo) GetByID(ctx context.Context, id string) (*models.Version, error) {
	version, ok := r.versions[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "version not found"}
	}
	copied := *version
	return &copied, nil
}

func (r *fakeVersionRepo) byDocument(documentID string) []models.Version {
	var out []models.Version
	for _, v := range r.versions {
		if v.DocumentID == documentID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VersionNumber > out[j].VersionNumber })
	return out
}

func (r *fakeVersionRepo) ListByDocument(ctx context.Context, documentID string, offset, limit int) ([]models.Version, error) {
	out := r.byDocument(documentID)
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *fakeVersionRepo) CountByDocument(ctx context.Context, documentID string) (int64, error) {
	return int64(len(r.byDocument(documentID))), nil
}

func (r *fakeVersionRepo) MaxVersionNumber(ctx context.Context, documentID string) (int, error) {
	max := 0
	for _, v := range r.versions {
		if v.DocumentID == documentID && v.VersionNumber > max {
			max = v.VersionNumber
		}
	}
	return max, nil
}

func (r *fakeVersionRepo) StorageKeysByDocument(ctx context.Context, documentID string) ([]string, error) {
	var keys []string
	for _, v := range r.byDocument(documentID) {
		keys = append(keys, v.StorageKey)
	}
	return keys, nil
}

func (r *fakeVersionRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	for id, v := range r.versions {
		if v.DocumentID == documentID {
			delete(r.versions, id)
		}
	}
	return nil
}

type fakeAccessRuleRepo struct {
	rules []models.AccessRule
}

func (r *fakeAccessRuleRepo) ListByDocument(ctx context.Context, documentID string) ([]models.AccessRule, error) {
	var out []models.AccessRule
	for _, rule := range r.rules {
		if rule.DocumentID == documentID {
			out = append(out, rule)
		}
	}
	return out, nil
}

func sameTarget(a models.AccessRule, documentID string, target models.RuleTarget) bool {
	if a.DocumentID != documentID {
		return false
	}
	if target.UserID != nil {
		return a.UserID != nil && *a.UserID == *target.UserID
	}
	return a.Department != nil && target.Department != nil && *a.Department == *target.Department
}

func (r *fakeAccessRuleRepo) Upsert(ctx context.Context, rule *models.AccessRule) error {
	target := models.RuleTarget{UserID: rule.UserID, Department: rule.Department}
	for i := range r.rules {
		if sameTarget(r.rules[i], rule.DocumentID, target) {
			r.rules[i].Level = rule.Level
			return nil
		}
	}
	r.rules = append(r.rules, *rule)
	return nil
}

func (r *fakeAccessRuleRepo) Delete(ctx context.Context, documentID string, target models.RuleTarget) (int64, error) {
	for i := range r.rules {
		if sameTarget(r.rules[i], documentID, target) {
			r.rules = append(r.rules[:i], r.rules[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *fakeAccessRuleRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	kept := r.rules[:0]
	for _, rule := range r.rules {
		if rule.DocumentID != documentID {
			kept = append(kept, rule)
		}
	}
	r.rules = kept
	return nil
}

type fakeTagRepo struct {
	tags map[string][]string
}

func newFakeTagRepo() *fakeTagRepo {
	return &fakeTagRepo{tags: make(map[string][]string)}
}

func (r *fakeTagRepo) ListByDocument(ctx context.Context, documentID string) ([]string, error) {
	return append([]string(nil), r.tags[documentID]...), nil
}

func (r *fakeTagRepo) Replace(ctx context.Context, documentID string, tags []string) error {
	seen := make(map[string]bool)
	var out []string
	for _, tag := range tags {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	r.tags[documentID] = out
	return nil
}

func (r *fakeTagRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	delete(r.tags, documentID)
	return nil
}

type fakeCommentRepo struct {
	comments map[string]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (r *fakeCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	comment.ID = nextTestID()
	comment.CreatedAt = time.Now()
	copied := *comment
	r.comments[comment.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "comment not found"}
	}
	copied := *comment
	return &copied, nil
}

func (r *fakeCommentRepo) byDocument(documentID string) []models.Comment {
	var out []models.Comment
	for _, c := range r.comments {
		if c.DocumentID == documentID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (r *fakeCommentRepo) ListByDocument(ctx context.Context, documentID string, offset, limit int) ([]models.Comment, error) {
	out := r.byDocument(documentID)
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *fakeCommentRepo) CountByDocument(ctx context.Context, documentID string) (int64, error) {
	return int64(len(r.byDocument(documentID))), nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.comments[id]; !ok {
		return &domain.NotFoundError{Message: "comment not found"}
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	for id, c := range r.comments {
		if c.DocumentID == documentID {
			delete(r.comments, id)
		}
	}
	return nil
}

type fakeAuditRepo struct {
	entries []models.AuditLogEntry
}

func (r *fakeAuditRepo) Append(ctx context.Context, entry *models.AuditLogEntry) error {
	entry.ID = nextTestID()
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeAuditRepo) byDocument(documentID string) []models.AuditLogEntry {
	var out []models.AuditLogEntry
	for i := len(r.entries) - 1; i >= 0; i-- {
		if r.entries[i].DocumentID == documentID {
			out = append(out, r.entries[i])
		}
	}
	return out
}

func (r *fakeAuditRepo) ListByDocument(ctx context.Context, documentID string, offset, limit int) ([]models.AuditLogEntry, error) {
	out := r.byDocument(documentID)
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (r *fakeAuditRepo) CountByDocument(ctx context.Context, documentID string) (int64, error) {
	return int64(len(r.byDocument(documentID))), nil
}

func (r *fakeAuditRepo) DeleteByDocument(ctx context.Context, documentID string) error {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if e.DocumentID != documentID {
			kept = append(kept, e)
		}
	}
	r.entries = kept
	return nil
}

// testEnv assembles the full service layer over the fakes.
type testEnv struct {
	docs     *fakeDocumentRepo
	folders  *fakeFolderRepo
	versions *fakeVersionRepo
	rules    *fakeAccessRuleRepo
	tags     *fakeTagRepo
	comments *fakeCommentRepo
	audit    *fakeAuditRepo
	store    *fakeStore
	services *Services
}

func newTestEnv(t *testing.T) *testEnv {
	policies, err := policy.NewRegistry()
	if err != nil {
		t.Fatalf("policy registry: %v", err)
	}

	env := &testEnv{
		docs:     newFakeDocumentRepo(),
		folders:  newFakeFolderRepo(),
		versions: newFakeVersionRepo(),
		rules:    &fakeAccessRuleRepo{},
		tags:     newFakeTagRepo(),
		comments: newFakeCommentRepo(),
		audit:    &fakeAuditRepo{},
		store:    &fakeStore{failKeys: make(map[string]bool)},
	}

	repos := Repositories{
		Documents:   env.docs,
		Folders:     env.folders,
		Versions:    env.versions,
		AccessRules: env.rules,
		Tags:        env.tags,
		Comments:    env.comments,
		AuditLog:    env.audit,
		TxManager:   fakeTxManager{},
	}
	env.services = New(repos, policies, env.store, slog.New(slog.DiscardHandler))
	return env
}

// seedDocument inserts a document owned by ownerID and returns its id.
func (env *testEnv) seedDocument(ownerID int64, mutate func(*models.Document)) string {
	doc := &models.Document{
		Title:   "quarterly report",
		OwnerID: ownerID,
		Status:  models.StatusActive,
	}
	if mutate != nil {
		mutate(doc)
	}
	_ = env.docs.Create(context.Background(), doc)
	return doc.ID
}

var _ services.ObjectStore = (*fakeStore)(nil)
