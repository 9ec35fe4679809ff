package catalog

// DefaultPageSize is the storefront's catalog grid size.
const DefaultPageSize = 9

type PageRequest struct {
	Number int
	Size   int
}

type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices items for the requested 1-based page. An empty input still has one
// page. Pages outside [1, TotalPages] are empty; the number is not clamped.
func Paginate[T any](items []T, req PageRequest) Page[T] {
	size := req.Size
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := (len(items) + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}

	page := Page[T]{
		Items:      []T{},
		Number:     req.Number,
		TotalPages: totalPages,
	}
	if req.Number < 1 || req.Number > totalPages {
		return page
	}

	start := (req.Number - 1) * size
	end := min(start+size, len(items))
	if start < end {
		page.Items = append(page.Items, items[start:end]...)
	}
	return page
}
