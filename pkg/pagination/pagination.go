package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds pagination parameters for a search request.
type Params struct {
	Limit  int
	Offset int
}

// FromQuery extracts pagination parameters from request query values,
// honouring the FHIR _count/_offset names with limit/offset fallbacks.
func FromQuery(q url.Values) Params {
	limit, _ := strconv.Atoi(q.Get("_count"))
	if limit <= 0 {
		limit, _ = strconv.Atoi(q.Get("limit"))
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(q.Get("_offset"))
	if offset <= 0 {
		offset, _ = strconv.Atoi(q.Get("offset"))
	}
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// PreviousOffset returns the offset for the previous page, floored at 0.
func (p Params) PreviousOffset() int {
	prev := p.Offset - p.Limit
	if prev < 0 {
		return 0
	}
	return prev
}

// LinkSet holds the navigation URLs for a paged searchset. Absent pages
// leave their URL empty.
type LinkSet struct {
	Self     string
	Next     string
	Previous string
}

// Links computes self/next/previous URLs for the current page.
// basePath should be the search URL without paging parameters
// (e.g. "https://example.org/fhir/Patient"); extraQuery, if non-empty,
// is appended before the paging parameters.
func (p Params) Links(basePath, extraQuery string, total int) LinkSet {
	page := func(offset int) string {
		qs := extraQuery
		if qs != "" {
			qs += "&"
		}
		return fmt.Sprintf("%s?%s_offset=%d&_count=%d", basePath, qs, offset, p.Limit)
	}

	links := LinkSet{Self: page(p.Offset)}
	if p.HasNext(total) {
		links.Next = page(p.NextOffset())
	}
	if p.HasPrevious() {
		links.Previous = page(p.PreviousOffset())
	}
	return links
}
