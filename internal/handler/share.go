package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// ShareHandler handles access rule HTTP requests
type ShareHandler struct {
	sharingService services.SharingService
	logger         *slog.Logger
}

// NewShareHandler creates a new share handler
func NewShareHandler(sharingService services.SharingService, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{sharingService: sharingService, logger: logger}
}

// Grant creates or updates an access rule
// POST /api/documents/{id}/shares
func (h *ShareHandler) Grant(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req services.GrantRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, domain.CodeInvalidInput, err.Error())
		return
	}

	rule, err := h.sharingService.Grant(r.Context(), p, r.PathValue("id"), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, rule)
}

type revokeRequest struct {
	Target models.RuleTarget `json:"target"`
}

// Revoke removes a target's access rule
// DELETE /api/documents/{id}/shares
func (h *ShareHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req revokeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, domain.CodeInvalidInput, err.Error())
		return
	}

	if err := h.sharingService.Revoke(r.Context(), p, r.PathValue("id"), req.Target); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List lists the document's access rules
// GET /api/documents/{id}/shares
func (h *ShareHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	rules, err := h.sharingService.List(r.Context(), p, r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string][]models.AccessRule{"rules": rules})
}
