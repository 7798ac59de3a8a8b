// Package query models job-listing search state: filters, sort, pagination and their request parameters.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Sort orders for listings.
type Sort string

const (
	SortNewest          Sort = "newest"
	SortOldest          Sort = "oldest"
	SortSalaryHighToLow Sort = "salary-high-to-low"
	SortSalaryLowToHigh Sort = "salary-low-to-high"
)

// Sorts lists the accepted sort orders.
var Sorts = []Sort{SortNewest, SortOldest, SortSalaryHighToLow, SortSalaryLowToHigh}

// ParseSort returns the sort named s, or ok false.
func ParseSort(s string) (Sort, bool) {
	for _, v := range Sorts {
		if string(v) == s {
			return v, true
		}
	}
	return "", false
}

// DefaultLimit is the page size unless overridden.
const DefaultLimit = 10

// Query is the search state of the listing view.
type Query struct {
	Search     string
	Category   string
	Type       string
	Location   string
	Experience string
	Salary     string // "min-max" bucket, passed through verbatim; empty bound means unbounded
	Page       int
	Limit      int
	Sort       Sort
}

// New returns the default query with the given page size (DefaultLimit when limit < 1).
func New(limit int) Query {
	if limit < 1 {
		limit = DefaultLimit
	}
	return Query{Page: 1, Limit: limit, Sort: SortNewest}
}

// Default returns New(DefaultLimit).
func Default() Query {
	return New(DefaultLimit)
}

// FilterUpdate is a partial change. Nil fields are left as they are.
type FilterUpdate struct {
	Search     *string
	Category   *string
	Type       *string
	Location   *string
	Experience *string
	Salary     *string
	Sort       *Sort
	Limit      *int
	Page       *int
}

// Update merges u into q. Page becomes u.Page when set to a positive value and 1 otherwise,
// so any filter change goes back to the first page.
func (q *Query) Update(u FilterUpdate) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&q.Search, u.Search)
	set(&q.Category, u.Category)
	set(&q.Type, u.Type)
	set(&q.Location, u.Location)
	set(&q.Experience, u.Experience)
	set(&q.Salary, u.Salary)
	if u.Sort != nil && *u.Sort != "" {
		q.Sort = *u.Sort
	}
	if u.Limit != nil && *u.Limit > 0 {
		q.Limit = *u.Limit
	}
	q.Page = 1
	if u.Page != nil && *u.Page > 0 {
		q.Page = *u.Page
	}
}

// Clear resets filters, sort and page, keeping the page size.
func (q *Query) Clear() {
	*q = New(q.Limit)
}

// GoToPage moves to page if it is within 1..totalPages and reports whether it did.
func (q *Query) GoToPage(page, totalPages int) bool {
	if page < 1 || page > totalPages {
		return false
	}
	q.Page = page
	return true
}

// Params returns the request parameters: non-empty filters plus page, limit and sort.
func (q Query) Params() url.Values {
	v := url.Values{}
	add := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	add("search", q.Search)
	add("category", q.Category)
	add("type", q.Type)
	add("location", q.Location)
	add("experience", q.Experience)
	add("salary", q.Salary)

	page, limit, sort := q.Page, q.Limit, q.Sort
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if sort == "" {
		sort = SortNewest
	}
	v.Set("page", strconv.Itoa(page))
	v.Set("limit", strconv.Itoa(limit))
	v.Set("sort", string(sort))
	return v
}

// FromSearchParams builds a query from deep-link parameters (as produced by the home-page search bar):
// q or search, category, type, location, experience, salary, sort and page.
func FromSearchParams(v url.Values, limit int) Query {
	q := New(limit)
	q.Search = strings.TrimSpace(v.Get("q"))
	if q.Search == "" {
		q.Search = strings.TrimSpace(v.Get("search"))
	}
	q.Category = strings.TrimSpace(v.Get("category"))
	q.Type = strings.TrimSpace(v.Get("type"))
	q.Location = strings.TrimSpace(v.Get("location"))
	q.Experience = strings.TrimSpace(v.Get("experience"))
	q.Salary = strings.TrimSpace(v.Get("salary"))
	if s, ok := ParseSort(v.Get("sort")); ok {
		q.Sort = s
	}
	if p, err := strconv.Atoi(v.Get("page")); err == nil && p > 0 {
		q.Page = p
	}
	return q
}

// Active reports whether any filter is set.
func (q Query) Active() bool {
	return q.Search != "" || q.Category != "" || q.Type != "" || q.Location != "" || q.Experience != "" || q.Salary != ""
}
