package handler

import (
	"log/slog"
	"net/http"

	"docvault/internal/domain"
	"docvault/internal/domain/services"
	"docvault/internal/httputil"
)

// CommentHandler handles comment HTTP requests
type CommentHandler struct {
	commentService services.CommentService
	logger         *slog.Logger
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentService services.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{commentService: commentService, logger: logger}
}

type createCommentRequest struct {
	Body string `json:"body"`
}

// Create adds a comment to a document
// POST /api/documents/{id}/comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req createCommentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, domain.CodeInvalidInput, err.Error())
		return
	}

	comment, err := h.commentService.Create(r.Context(), p, r.PathValue("id"), req.Body)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, comment)
}

// List lists comments newest-first
// GET /api/documents/{id}/comments
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	page, pageSize := pageParams(r)
	list, err := h.commentService.List(r.Context(), p, r.PathValue("id"), page, pageSize)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

// Delete removes a comment
// DELETE /api/documents/{id}/comments/{commentID}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	if err := h.commentService.Delete(r.Context(), p, r.PathValue("id"), r.PathValue("commentID")); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
