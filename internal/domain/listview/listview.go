// Package listview provides pagination helpers shared by the request and
// spare-parts listings. All functions are pure; a listing is never reported
// as having zero pages.
package listview

// DefaultPageWindow is the number of page links shown around the current page.
const DefaultPageWindow = 5

// TotalPages returns ceil(n/pageSize), floored to 1 so an empty listing
// still reports one page.
func TotalPages(n, pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	pages := (n + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage bounds page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Page returns the slice of items for the given (1-based) page. The page
// number is clamped before slicing, so callers never get an out-of-range
// panic from a stale page number.
func Page[T any](items []T, page, pageSize int) []T {
	if pageSize < 1 {
		return []T{}
	}
	page = ClampPage(page, TotalPages(len(items), pageSize))
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// VisiblePages returns up to window consecutive page numbers centered on
// current. Near the boundaries the window slides so the count stays at
// window whenever totalPages >= window.
func VisiblePages(totalPages, current, window int) []int {
	if window < 1 {
		window = DefaultPageWindow
	}
	current = ClampPage(current, totalPages)

	start := current - window/2
	if start < 1 {
		start = 1
	}
	end := start + window - 1
	if end > totalPages {
		end = totalPages
	}
	// Slide back when the right edge clipped the window.
	if start > end-window+1 {
		start = end - window + 1
		if start < 1 {
			start = 1
		}
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
