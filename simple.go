package swiftgrid

import "context"

// SimpleSource is a wrapper around a [Source] for a case
// when there is no need of passing a Context to Source's methods.
type SimpleSource[T any] struct {
	source Source[T]
}

// NewSimpleSource creates a new SimpleSource.
func NewSimpleSource[T any](s Source[T]) SimpleSource[T] {
	return SimpleSource[T]{source: s}
}

// Fetch returns a page of records matching a query.
func (s SimpleSource[T]) Fetch(q Query) (Result[T], error) {
	return s.source.Fetch(context.Background(), q)
}

// All returns every record matching a query, ignoring its page window.
func (s SimpleSource[T]) All(q Query) ([]T, error) {
	r, err := s.source.Fetch(context.Background(), q.WithPage(DefaultPage, 0))
	if err != nil {
		return nil, err
	}
	return r.Items, nil
}
