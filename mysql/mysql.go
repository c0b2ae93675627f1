// Package mysql contains a grid data source for MySQL.
// It uses the go-sql-driver/mysql driver.
package mysql

import (
	"database/sql"
	"fmt"
	"math"
	"strings"

	driver "github.com/go-sql-driver/mysql"

	"github.com/meowmeowcode/swiftgrid/sqldb"
)

type Dialect struct{}

func (d Dialect) ProcessParam(p any, _ int) (string, any) {
	return "?", p
}

func (d Dialect) Quote(ident string) string {
	return sqldb.QuoteWith(ident, func(s string) string {
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	})
}

func (d Dialect) IContains(expr, term string, _ int) (string, any) {
	return "LOWER(" + expr + ") LIKE CONCAT('%', ?, '%')", strings.ToLower(sqldb.EscapeLike(term))
}

func (d Dialect) Text(expr string) string {
	return "CAST(" + expr + " AS CHAR)"
}

func (d Dialect) LimitAndOffset(l, o int) string {
	switch {
	case l > 0 && o > 0:
		return fmt.Sprintf(" LIMIT %d, %d", o, l)
	case o > 0:
		return fmt.Sprintf(" LIMIT %d, %d", o, uint64(math.MaxUint64))
	case l > 0:
		return fmt.Sprintf(" LIMIT %d", l)
	}
	return ""
}

var dialect Dialect

// NewSQL creates a new SQL builder for MySQL.
func NewSQL(strs ...string) *sqldb.SQL {
	return sqldb.NewSQL(dialect, strs...)
}

// NewRepo creates a repository reading records from MySQL.
func NewRepo[T any](db sqldb.Executor, conf sqldb.Conf[T]) *sqldb.Repo[T] {
	return sqldb.NewRepo(dialect, db, conf)
}

// Open opens a connection pool. DATETIME values are parsed into time.Time.
func Open(dsn string) (*sql.DB, error) {
	cfg, err := driver.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL DSN: %w", err)
	}
	cfg.ParseTime = true
	connector, err := driver.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}
