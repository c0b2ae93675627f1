package swiftgrid

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("record not found")

// Result is a page of records selected by a [Query].
type Result[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"totalCount"` // records matching the query before pagination
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
}

// NewResult creates a [Result] and copies the window from a query.
func NewResult[T any](items []T, total int, q Query) Result[T] {
	page := q.Page
	if page < 1 {
		page = DefaultPage
	}
	return Result[T]{Items: items, TotalCount: total, Page: page, PageSize: q.PageSize}
}

// LastPage returns a number of pages. It's never less than 1.
func (r Result[T]) LastPage() int {
	if r.PageSize <= 0 || r.TotalCount == 0 {
		return 1
	}
	return (r.TotalCount + r.PageSize - 1) / r.PageSize
}

// Source is anything that can answer a [Query] with records of type T.
type Source[T any] interface {
	Fetch(ctx context.Context, q Query) (Result[T], error)
}
