// Package listutil parses sort and paging parameters for list endpoints and
// applies them to in-memory slices.
package listutil

import (
	"net/url"
	"slices"
	"strconv"
)

// DefaultPerPage is the page size when per_page is absent or not allowed.
const DefaultPerPage = 20

// PerPageOptions are the allowed per_page values.
var PerPageOptions = []int{5, 10, 20, 50}

// SortParams names a column and a direction.
type SortParams struct {
	Sort string `json:"sort,omitempty"` // empty keeps source order
	Dir  string `json:"dir,omitempty"`  // "asc" or "desc"
}

// PageParams is a requested page. Page is 1-indexed.
type PageParams struct {
	Page    int
	PerPage int
}

// PageInfo describes the page actually returned.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// ParseSortParams reads sort and dir.
// PRE: allowed lists the sortable columns
// POST: Sort is "" or one of allowed; Dir is "asc" or "desc"
func ParseSortParams(q url.Values, allowed []string) SortParams {
	sort := q.Get("sort")
	if !slices.Contains(allowed, sort) {
		sort = ""
	}
	dir := q.Get("dir")
	if dir != "desc" {
		dir = "asc"
	}
	return SortParams{Sort: sort, Dir: dir}
}

// Desc reports whether the order is descending.
func (s SortParams) Desc() bool {
	return s.Dir == "desc"
}

// ParsePageParams reads page and per_page. ok is false when neither is present,
// meaning the caller asked for the whole list.
// POST: Page >= 1; PerPage is one of PerPageOptions
func ParsePageParams(q url.Values) (p PageParams, ok bool) {
	if !q.Has("page") && !q.Has("per_page") {
		return PageParams{}, false
	}
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !slices.Contains(PerPageOptions, perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}, true
}

// NewPageInfo computes paging metadata.
// PRE: total >= 0
// POST: 1 <= Page <= TotalPages; TotalPages >= 1
func NewPageInfo(p PageParams, total int) PageInfo {
	perPage := p.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := max((total+perPage-1)/perPage, 1)
	page := min(max(p.Page, 1), totalPages)
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset returns the index of the first item on the page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Paginate returns the items on the page described by info.
// POST: the result aliases items; len <= info.PerPage
func Paginate[T any](items []T, info PageInfo) []T {
	start := min(info.Offset(), len(items))
	end := min(start+info.PerPage, len(items))
	return items[start:end]
}

// SortStable sorts items in place by cmp, reversed when s is descending.
// Equal items keep their source order in both directions.
func SortStable[T any](items []T, s SortParams, cmp func(a, b T) int) {
	slices.SortStableFunc(items, func(a, b T) int {
		if s.Desc() {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
}
