// Package paginate slices ordered result lists into fixed-size pages and
// derives the navigation state shown alongside them: previous/next
// enablement and the compressed page-number window with ellipses.
//
// Everything here is pure. The caller fetches and orders the results; this
// package only does the arithmetic, so out-of-range input degrades to empty
// output instead of erroring.
package paginate

import (
	"net/url"
	"strconv"
)

// Item is one entry in a page window: either a concrete page number or an
// ellipsis placeholder between non-adjacent numbers.
type Item struct {
	// Page is the 1-based page number. Zero when Ellipsis is true.
	Page int `json:"page,omitempty"`

	// Ellipsis marks a gap between page numbers.
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// ellipsis is the gap marker emitted by Window.
var ellipsis = Item{Ellipsis: true}

// Slice returns the elements of results visible on the given 1-based page.
// The slice is clamped to the list bounds: a page beyond the last yields an
// empty slice, never an error.
func Slice[T any](results []T, page, pageSize int) []T {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(results) {
		return nil
	}
	end := start + pageSize
	if end > len(results) {
		end = len(results)
	}
	return results[start:end]
}

// TotalPages returns ceil(count / pageSize), minimum 0.
func TotalPages(count, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 0
	}
	return (count + pageSize - 1) / pageSize
}

// Window returns the compressed list of page numbers to render for the
// current position. Up to five pages are shown in full; longer ranges
// collapse the middle or the far end behind ellipses:
//
//	total <= 5:          1 2 3 4 5
//	current <= 3:        1 2 3 4 … total
//	current >= total-2:  1 … total-3 total-2 total-1 total
//	otherwise:           1 … current-1 current current+1 … total
func Window(current, total int) []Item {
	const maxVisible = 5

	var items []Item

	switch {
	case total <= maxVisible:
		for p := 1; p <= total; p++ {
			items = append(items, Item{Page: p})
		}
	case current <= 3:
		for p := 1; p <= 4; p++ {
			items = append(items, Item{Page: p})
		}
		items = append(items, ellipsis, Item{Page: total})
	case current >= total-2:
		items = append(items, Item{Page: 1}, ellipsis)
		for p := total - 3; p <= total; p++ {
			items = append(items, Item{Page: p})
		}
	default:
		items = append(items, Item{Page: 1}, ellipsis)
		for p := current - 1; p <= current+1; p++ {
			items = append(items, Item{Page: p})
		}
		items = append(items, ellipsis, Item{Page: total})
	}

	return items
}

// HasPrev reports whether a previous-page link should be enabled.
func HasPrev(current int) bool {
	return current > 1
}

// HasNext reports whether a next-page link should be enabled.
func HasNext(current, total int) bool {
	return total > 0 && current < total
}

// PageURL builds the link for a page, preserving every existing query
// parameter except "page". Page 1 is the canonical unpaginated URL, so its
// link omits the page parameter entirely.
func PageURL(base string, params url.Values, page int) string {
	q := url.Values{}
	for key, vals := range params {
		if key == "page" {
			continue
		}
		q[key] = append([]string(nil), vals...)
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	if encoded := q.Encode(); encoded != "" {
		return base + "?" + encoded
	}
	return base
}

// ParsePage interprets a raw "page" query parameter. Missing, non-numeric,
// or non-positive values are treated as page 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
