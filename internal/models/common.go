package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// MaxPageSize caps the page size of list responses.
const MaxPageSize = 100

// Paginate slices items for the requested 1-based page and returns the window with metadata.
func Paginate[T any](items []T, page, pageSize int) ([]T, *Pagination) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	total := len(items)
	start := total
	// Compare by division so a huge page cannot overflow the offset.
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return items[start:end], &Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}
