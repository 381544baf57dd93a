package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/domain"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// VersionHandler handles version HTTP requests
type VersionHandler struct {
	versionService services.VersionService
	logger         *slog.Logger
}

// NewVersionHandler creates a new version handler
func NewVersionHandler(versionService services.VersionService, logger *slog.Logger) *VersionHandler {
	return &VersionHandler{versionService: versionService, logger: logger}
}

// CreateUploadIntent presigns an upload URL for a new version
// POST /api/documents/{id}/versions/upload-intent
func (h *VersionHandler) CreateUploadIntent(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req services.UploadIntentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, domain.CodeInvalidInput, err.Error())
		return
	}

	intent, err := h.versionService.CreateUploadIntent(r.Context(), p, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, intent)
}

// Create commits version metadata for uploaded bytes
// POST /api/documents/{id}/versions
func (h *VersionHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req services.CreateVersionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, domain.CodeInvalidInput, err.Error())
		return
	}

	version, err := h.versionService.CreateVersion(r.Context(), p, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, version)
}

// List lists versions newest-first
// GET /api/documents/{id}/versions
func (h *VersionHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	page, pageSize := pageParams(r)
	list, err := h.versionService.List(r.Context(), p, r.PathValue("id"), page, pageSize)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

// SetCurrent moves the current-version pointer to an existing version
// POST /api/documents/{id}/versions/{versionID}/restore
func (h *VersionHandler) SetCurrent(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	version, err := h.versionService.SetCurrent(r.Context(), p, r.PathValue("id"), r.PathValue("versionID"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, version)
}

// Download presigns a download URL. Without a version_id parameter the
// current version is served.
// GET /api/documents/{id}/download
func (h *VersionHandler) Download(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	url, err := h.versionService.DownloadURL(r.Context(), p, r.PathValue("id"), r.URL.Query().Get("version_id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]string{"download_url": url})
}
