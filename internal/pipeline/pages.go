package pipeline

import "fintrack/internal/core"

// Page is one visible slice of a filtered-sorted list.
type Page struct {
	Items      []core.Transaction
	Index      int // 1-based
	Size       int
	TotalItems int
	TotalPages int
}

// PageItem is one entry of a pagination control: a page number or an
// ellipsis gap marker.
type PageItem struct {
	Number   int
	Ellipsis bool
}

// Paginate slices out page index (1-based) of size items, clamped to the
// list length. Page indexes past the end yield an empty page with the
// correct totals.
func Paginate(txns []core.Transaction, index, size int) Page {
	if size < 1 {
		size = 1
	}
	if index < 1 {
		index = 1
	}
	total := len(txns)
	totalPages := (total + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	start := (index - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}
	items := make([]core.Transaction, end-start)
	copy(items, txns[start:end])

	return Page{
		Items:      items,
		Index:      index,
		Size:       size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

// PageNumbers builds the page-control entries. Up to 5 pages are listed in
// full; beyond that the first and last page always appear, with a window of
// one page around the current page and ellipsis markers for the gaps.
func PageNumbers(current, total int) []PageItem {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	if total <= 5 {
		items := make([]PageItem, 0, total)
		for p := 1; p <= total; p++ {
			items = append(items, PageItem{Number: p})
		}
		return items
	}

	include := func(p int) bool {
		if p == 1 || p == total {
			return true
		}
		return p >= current-1 && p <= current+1
	}

	var items []PageItem
	prev := 0
	for p := 1; p <= total; p++ {
		if !include(p) {
			continue
		}
		if prev != 0 && p-prev > 1 {
			items = append(items, PageItem{Ellipsis: true})
		}
		items = append(items, PageItem{Number: p})
		prev = p
	}
	return items
}
