package service

import "github.com/nwced/clc-registry-api/internal/models"

// paginate normalises page/size values and builds pagination metadata for a
// filtered result set of the given length.
func paginate(total, page, size int) (int, int, *models.Pagination) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size, &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}

// pageSlice cuts one page out of the full result set.
func pageSlice[T any](rows []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(rows) {
		return []T{}
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
