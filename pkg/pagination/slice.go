package pagination

// Slice pages through an in-memory sequence without copying it.
// Pages are 1-based; a page outside [1, TotalPages] is clamped to the nearest bound
// so the result always describes a page the caller can render.
func Slice[T any](items []T, page, pageSize int) PageResult[T] {
	if pageSize < 1 {
		pageSize = 1
	}

	total := len(items)
	totalPages := TotalPages(total, pageSize)

	page = max(page, 1)
	page = min(page, totalPages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	var data []T
	if start < total {
		data = items[start:end]
	}

	return NewPageResult(data, total, page, pageSize)
}

// Pages returns the 1-based page numbers for a result, used to render page controls.
func (r PageResult[T]) Pages() []int {
	pages := make([]int, r.TotalPages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// PrevPage returns the previous page number, bounded by the first page.
func (r PageResult[T]) PrevPage() int {
	return max(r.Page-1, 1)
}

// NextPage returns the next page number, bounded by the last page.
func (r PageResult[T]) NextPage() int {
	return min(r.Page+1, r.TotalPages)
}
