package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/domain"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// DocumentHandler handles document HTTP requests
type DocumentHandler struct {
	docService services.DocumentService
	logger     *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(docService services.DocumentService, logger *slog.Logger) *DocumentHandler {
	return &DocumentHandler{docService: docService, logger: logger}
}

// Create creates a new document
// POST /api/documents
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req services.CreateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, domain.CodeInvalidInput, err.Error())
		return
	}

	doc, err := h.docService.Create(r.Context(), p, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// Get retrieves a document by ID
// GET /api/documents/{id}
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	doc, err := h.docService.Get(r.Context(), p, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// List lists documents visible to the principal
// GET /api/documents
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	req := services.ListDocumentsRequest{
		Title:           q.Get("title"),
		Tag:             q.Get("tag"),
		IncludeArchived: q.Get("include_archived") == "true",
		SortBy:          q.Get("sort_by"),
		Order:           q.Get("order"),
	}
	req.Page, req.PageSize = pageParams(r)
	if q.Has("folder_id") {
		folderID := q.Get("folder_id")
		req.FolderID = &folderID
		req.FolderScoped = true
	}

	list, err := h.docService.List(r.Context(), p, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

// Update applies a partial metadata update
// PATCH /api/documents/{id}
func (h *DocumentHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req services.UpdateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, domain.CodeInvalidInput, err.Error())
		return
	}

	doc, err := h.docService.UpdateMetadata(r.Context(), p, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// Archive soft-deletes a document
// POST /api/documents/{id}/archive
func (h *DocumentHandler) Archive(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.docService.Archive(r.Context(), p, r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Restore reactivates an archived document
// POST /api/documents/{id}/restore
func (h *DocumentHandler) Restore(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.docService.Restore(r.Context(), p, r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete permanently removes a document
// DELETE /api/documents/{id}
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.docService.HardDelete(r.Context(), p, r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type setTagsRequest struct {
	Tags []string `json:"tags"`
}

// SetTags replaces the document's tag set
// PUT /api/documents/{id}/tags
func (h *DocumentHandler) SetTags(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req setTagsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, domain.CodeInvalidInput, err.Error())
		return
	}

	tags, err := h.docService.SetTags(r.Context(), p, r.PathValue("id"), req.Tags)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string][]string{"tags": tags})
}
