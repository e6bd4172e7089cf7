package service

import "oohunt/internal/repository"

const maxPageSize = 100

func normalizePagination(page, limit, defaultLimit int) repository.Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return repository.Pagination{Page: page, PageSize: limit}
}

func totalPages(total, pageSize int) int {
	if total == 0 || pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
