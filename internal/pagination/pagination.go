// Package pagination splits ordered result sets into fixed-size pages.
//
// The requested page number comes straight from the query string and is
// never trusted: missing or non-numeric values resolve to the first page,
// numbers below one clamp to the first page and numbers past the end clamp
// to the last page. Resolving a page never fails.
package pagination

import (
	"errors"
	"strconv"
	"strings"
)

// PostsPerPage is the page size of every post feed.
const PostsPerPage = 10

// Window is a resolved page: its 1-based number plus the SQL limit/offset
// needed to load it.
type Window struct {
	Number   int
	NumPages int
	Count    int64
	Limit    int
	Offset   int
}

// Paginator resolves raw page requests against a known total.
type Paginator struct {
	Count   int64
	PerPage int
}

// NumPages returns the number of pages, which is at least one.
func (p Paginator) NumPages() int {
	perPage := p.perPage()
	if p.Count <= 0 {
		return 1
	}
	return int((p.Count + int64(perPage) - 1) / int64(perPage))
}

// Page resolves raw to a concrete window.
func (p Paginator) Page(raw string) Window {
	numPages := p.NumPages()
	number := ParseNumber(raw)
	if number > numPages {
		number = numPages
	}
	perPage := p.perPage()
	return Window{
		Number:   number,
		NumPages: numPages,
		Count:    p.Count,
		Limit:    perPage,
		Offset:   (number - 1) * perPage,
	}
}

func (p Paginator) perPage() int {
	if p.PerPage <= 0 {
		return PostsPerPage
	}
	return p.PerPage
}

// ParseNumber reads a raw page parameter. Anything that is not a positive
// integer resolves to 1. Integers too large for an int saturate, so they end
// up on the last page.
func ParseNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 1
	}
	if n < 1 {
		return 1
	}
	return n
}

// Page is one page of items together with its navigation state.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Count    int64
}

// NewPage wraps items loaded for window w.
func NewPage[T any](items []T, w Window) Page[T] {
	return Page[T]{
		Items:    items,
		Number:   w.Number,
		NumPages: w.NumPages,
		Count:    w.Count,
	}
}

// Paginate pages an in-memory ordered slice.
func Paginate[T any](items []T, perPage int, raw string) Page[T] {
	w := Paginator{Count: int64(len(items)), PerPage: perPage}.Page(raw)
	end := w.Offset + w.Limit
	if end > len(items) {
		end = len(items)
	}
	var slice []T
	if w.Offset < end {
		slice = items[w.Offset:end]
	}
	return NewPage(slice, w)
}

func (p Page[T]) HasNext() bool     { return p.Number < p.NumPages }
func (p Page[T]) HasPrevious() bool { return p.Number > 1 }
func (p Page[T]) HasOtherPages() bool {
	return p.HasNext() || p.HasPrevious()
}

// NextNumber returns the following page number, or the last page.
func (p Page[T]) NextNumber() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.NumPages
}

// PreviousNumber returns the preceding page number, or the first page.
func (p Page[T]) PreviousNumber() int {
	if p.HasPrevious() {
		return p.Number - 1
	}
	return 1
}

// PageRange lists every page number, for the paginator partial.
func (p Page[T]) PageRange() []int {
	out := make([]int, p.NumPages)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
