package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// AuditHandler handles audit trail HTTP requests
type AuditHandler struct {
	auditService services.AuditService
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService services.AuditService, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{auditService: auditService, logger: logger}
}

// List lists audit entries newest-first
// GET /api/documents/{id}/audit
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	page, pageSize := pageParams(r)
	list, err := h.auditService.List(r.Context(), p, r.PathValue("id"), page, pageSize)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}
