package sqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/meowmeowcode/swiftgrid"
)

// Rows is a result of an SQL query.
type Rows interface {
	Scanner
	Next() bool
	Err() error
}

// CountFunc runs a query returning a single number.
type CountFunc func(ctx context.Context, query string, args ...any) (int64, error)

// QueryFunc runs a query. It returns rows and a function releasing them.
type QueryFunc func(ctx context.Context, query string, args ...any) (Rows, func(), error)

// Fetch answers a query with translated SQL: it counts records matching q
// and loads the requested page of them when there are any.
// Database drivers plug in with count and query functions.
func Fetch[T any](
	ctx context.Context,
	t *Translator[T],
	q swiftgrid.Query,
	count CountFunc,
	query QueryFunc,
) (swiftgrid.Result[T], error) {
	if err := q.Validate(); err != nil {
		return swiftgrid.Result[T]{}, err
	}

	countQuery, params := t.Count(q).Build()
	total, err := count(ctx, countQuery, params...)
	if err != nil {
		return swiftgrid.Result[T]{}, fmt.Errorf("cannot execute query `%s`: %w", countQuery, err)
	}

	items := make([]T, 0)
	if total > 0 {
		if items, err = getMany(ctx, t, q, query); err != nil {
			return swiftgrid.Result[T]{}, err
		}
	}
	return swiftgrid.NewResult(items, int(total), q), nil
}

func getMany[T any](ctx context.Context, t *Translator[T], q swiftgrid.Query, query QueryFunc) ([]T, error) {
	selectQuery, params := t.Select(q).Build()
	rows, release, err := query(ctx, selectQuery, params...)
	if err != nil {
		return nil, fmt.Errorf("cannot execute query `%s`: %w", selectQuery, err)
	}
	defer release()

	result := make([]T, 0)
	for rows.Next() {
		entity, err := t.Load(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("cannot execute query `%s`: %w", selectQuery, err)
	}
	return result, nil
}

// Executor runs queries. It's implemented by *sql.DB, *sql.Conn and *sql.Tx.
type Executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repo is a [swiftgrid.Source] working through database/sql.
type Repo[T any] struct {
	db         Executor
	translator *Translator[T]
}

// NewRepo creates a [Repo].
func NewRepo[T any](d Dialect, db Executor, conf Conf[T]) *Repo[T] {
	return &Repo[T]{db: db, translator: NewTranslator(d, conf)}
}

func (r *Repo[T]) Simple() swiftgrid.SimpleSource[T] {
	return swiftgrid.NewSimpleSource[T](r)
}

// Fetch counts records matching q and loads the requested page of them.
func (r *Repo[T]) Fetch(ctx context.Context, q swiftgrid.Query) (swiftgrid.Result[T], error) {
	return Fetch(ctx, r.translator, q, r.count, r.query)
}

func (r *Repo[T]) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *Repo[T]) query(ctx context.Context, query string, args ...any) (Rows, func(), error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	return rows, func() { _ = rows.Close() }, nil
}
