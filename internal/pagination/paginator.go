package pagination

import (
	"strconv"
)

// Paginator slices a listing of Count items into fixed-size pages.
// Page numbers are 1-based. An unparsable page resolves to the first
// page and an out-of-range page to the last one, so listings never 404
// on a bad page parameter.
type Paginator struct {
	PerPage int
	Count   int64
}

// New creates a paginator for a listing of count items
func New(perPage int, count int64) Paginator {
	if perPage < 1 {
		perPage = 1
	}
	return Paginator{PerPage: perPage, Count: count}
}

// NumPages returns the total number of pages, at least 1
func (p Paginator) NumPages() int {
	if p.Count <= 0 {
		return 1
	}
	pages := int((p.Count + int64(p.PerPage) - 1) / int64(p.PerPage))
	if pages < 1 {
		return 1
	}
	return pages
}

// Resolve clamps a raw page parameter to a valid page number
func (p Paginator) Resolve(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	if last := p.NumPages(); page > last {
		return last
	}
	return page
}

// Offset returns the listing offset for a page
func (p Paginator) Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * p.PerPage
}

// HasNext reports whether a page after the given one exists
func (p Paginator) HasNext(page int) bool {
	return page < p.NumPages()
}

// HasPrev reports whether a page before the given one exists
func (p Paginator) HasPrev(page int) bool {
	return page > 1
}
