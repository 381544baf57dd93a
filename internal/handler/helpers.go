package handler

import (
	"net/http"
	"strconv"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/httputil"
)

// principal extracts the authenticated principal set by the auth
// middleware. Routes are only reachable through it, so a miss is a
// server-side wiring bug surfaced as unauthorized.
func principal(w http.ResponseWriter, r *http.Request) (models.Principal, bool) {
	p, ok := httputil.GetPrincipal(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, domain.CodeUnauthorized, "missing identity context")
		return models.Principal{}, false
	}
	return p, true
}

// pageParams reads page and page_size query parameters. Zero values let
// the service layer apply its defaults.
func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	return page, pageSize
}
