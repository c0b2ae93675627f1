// Package pg contains a grid data source for PostgreSQL.
// It uses the pgx driver.
package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"github.com/meowmeowcode/swiftgrid"
	"github.com/meowmeowcode/swiftgrid/sqldb"
)

type Dialect struct{}

func (d Dialect) ProcessParam(p any, number int) (string, any) {
	return fmt.Sprintf("$%d", number), p
}

func (d Dialect) Quote(ident string) string {
	return sqldb.QuoteWith(ident, pq.QuoteIdentifier)
}

func (d Dialect) IContains(expr, term string, number int) (string, any) {
	return fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", expr, number), sqldb.EscapeLike(term)
}

func (d Dialect) Text(expr string) string {
	return expr + "::text"
}

func (d Dialect) LimitAndOffset(l, o int) string {
	result := ""
	if l > 0 {
		result += fmt.Sprintf(" LIMIT %d", l)
	}
	if o > 0 {
		result += fmt.Sprintf(" OFFSET %d", o)
	}
	return result
}

var dialect Dialect

// NewSQL creates a new SQL builder for PostgreSQL.
func NewSQL(strs ...string) *sqldb.SQL {
	return sqldb.NewSQL(dialect, strs...)
}

// Executor runs queries. It's implemented by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Executor interface {
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
}

// Repo is a [swiftgrid.Source] reading records from PostgreSQL.
type Repo[T any] struct {
	executor   Executor
	translator *sqldb.Translator[T]
}

// NewRepo creates a [Repo].
func NewRepo[T any](executor Executor, conf sqldb.Conf[T]) *Repo[T] {
	return &Repo[T]{executor: executor, translator: sqldb.NewTranslator(dialect, conf)}
}

// Open creates a connection pool and checks that the database is reachable.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	conf, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, conf)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func (r *Repo[T]) Simple() swiftgrid.SimpleSource[T] {
	return swiftgrid.NewSimpleSource[T](r)
}

// Fetch counts records matching q and loads the requested page of them.
func (r *Repo[T]) Fetch(ctx context.Context, q swiftgrid.Query) (swiftgrid.Result[T], error) {
	return sqldb.Fetch(ctx, r.translator, q, r.count, r.query)
}

func (r *Repo[T]) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	err := r.executor.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *Repo[T]) query(ctx context.Context, query string, args ...any) (sqldb.Rows, func(), error) {
	rows, err := r.executor.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	return rows, rows.Close, nil
}
