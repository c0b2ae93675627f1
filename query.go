package swiftgrid

import (
	"errors"
	"fmt"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
)

var (
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be greater than 0")
)

// Query contains everything needed to build one view of a dataset:
// a page window, ordering keys, filters and a free-text search term.
//
// A zero Page is read as the first page and a zero PageSize disables pagination.
type Query struct {
	Page         int      `json:"page"`
	PageSize     int      `json:"pageSize"`
	Sorts        []Sort   `json:"sorts"`
	Filters      []Filter `json:"filters"`
	GlobalSearch string   `json:"globalSearch"`
}

// NewQuery returns a query for the first page of the default size.
func NewQuery() Query {
	return Query{Page: DefaultPage, PageSize: DefaultPageSize}
}

// WithPage sets the page window.
func (q Query) WithPage(page, size int) Query {
	q.Page = page
	q.PageSize = size
	return q
}

// OrderBy replaces the ordering keys.
func (q Query) OrderBy(s ...Sort) Query {
	q.Sorts = s
	return q
}

// Where adds filters.
func (q Query) Where(f ...Filter) Query {
	filters := make([]Filter, 0, len(q.Filters)+len(f))
	q.Filters = append(append(filters, q.Filters...), f...)
	return q
}

// Search sets the free-text search term.
func (q Query) Search(term string) Query {
	q.GlobalSearch = term
	return q
}

// Validate rejects a query with a negative page or page size.
func (q Query) Validate() error {
	if q.Page < 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidPage, q.Page)
	}
	if q.PageSize < 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidPageSize, q.PageSize)
	}
	return nil
}

// Paged reports whether the query selects a page window.
func (q Query) Paged() bool {
	return q.PageSize > 0
}

// Offset returns a number of records to skip.
func (q Query) Offset() int {
	if !q.Paged() || q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.PageSize
}

// Limit returns a maximum number of records to take or 0 when there is no limit.
func (q Query) Limit() int {
	if !q.Paged() {
		return 0
	}
	return q.PageSize
}
