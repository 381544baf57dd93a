package service

import (
	"strings"

	"docvault/internal/config"
)

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = config.DefaultPageSize
	}
	if pageSize > config.MaxPageSize {
		pageSize = config.MaxPageSize
	}
	return page, pageSize
}

func joinPath(names []string) string {
	return "/" + strings.Join(names, "/")
}
