package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/domain"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folderService: folderService, logger: logger}
}

// Create creates a new folder
// POST /api/folders
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req services.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, domain.CodeInvalidInput, err.Error())
		return
	}

	folder, err := h.folderService.Create(r.Context(), p, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// Get retrieves a folder by ID
// GET /api/folders/{id}
func (h *FolderHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	folder, err := h.folderService.Get(r.Context(), p, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// ListChildren lists child folders. Without a parent_id parameter the
// root level is listed.
// GET /api/folders
func (h *FolderHandler) ListChildren(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req services.ListChildrenRequest
	req.Page, req.PageSize = pageParams(r)
	if r.URL.Query().Has("parent_id") {
		parentID := r.URL.Query().Get("parent_id")
		req.ParentID = &parentID
	}

	list, err := h.folderService.ListChildren(r.Context(), p, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

type renameFolderRequest struct {
	Name string `json:"name"`
}

// Rename renames a folder
// PATCH /api/folders/{id}
func (h *FolderHandler) Rename(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req renameFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, domain.CodeInvalidInput, err.Error())
		return
	}

	folder, err := h.folderService.Rename(r.Context(), p, r.PathValue("id"), req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

type moveFolderRequest struct {
	ParentID *string `json:"parent_id"`
}

// Move re-parents a folder
// POST /api/folders/{id}/move
func (h *FolderHandler) Move(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req moveFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, domain.CodeInvalidInput, err.Error())
		return
	}

	folder, err := h.folderService.Move(r.Context(), p, r.PathValue("id"), req.ParentID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// Archive soft-deletes a folder
// POST /api/folders/{id}/archive
func (h *FolderHandler) Archive(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.folderService.Archive(r.Context(), p, r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Restore reactivates an archived folder
// POST /api/folders/{id}/restore
func (h *FolderHandler) Restore(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.folderService.Restore(r.Context(), p, r.PathValue("id")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Path returns the folder names from the root down to the folder
// GET /api/folders/{id}/path
func (h *FolderHandler) Path(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	names, err := h.folderService.Path(r.Context(), p, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string][]string{"path": names})
}
