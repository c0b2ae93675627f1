// Package sqlite3 contains a grid data source for SQLite.
// It's meant to be used with the mattn/go-sqlite3 driver.
package sqlite3

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/meowmeowcode/swiftgrid/sqldb"
)

type Dialect struct{}

func (d Dialect) ProcessParam(p any, _ int) (string, any) {
	if param, ok := p.(time.Time); ok {
		text, err := param.MarshalText()
		if err != nil {
			panic(err)
		}
		return "?", string(text)
	}
	return "?", p
}

func (d Dialect) Quote(ident string) string {
	return sqldb.QuoteWith(ident, func(s string) string {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	})
}

func (d Dialect) IContains(expr, term string, _ int) (string, any) {
	return "LOWER(" + expr + `) LIKE '%' || ? || '%' ESCAPE '\'`, strings.ToLower(sqldb.EscapeLike(term))
}

func (d Dialect) Text(expr string) string {
	return "CAST(" + expr + " AS TEXT)"
}

func (d Dialect) LimitAndOffset(l, o int) string {
	result := ""
	if l == 0 && o > 0 {
		l = math.MaxInt64
	}
	if l > 0 {
		result += fmt.Sprintf(" LIMIT %d", l)
	}
	if o > 0 {
		result += fmt.Sprintf(" OFFSET %d", o)
	}
	return result
}

var dialect Dialect

// NewSQL creates a new SQL builder for SQLite.
func NewSQL(strs ...string) *sqldb.SQL {
	return sqldb.NewSQL(dialect, strs...)
}

// NewRepo creates a repository reading records from SQLite.
func NewRepo[T any](db sqldb.Executor, conf sqldb.Conf[T]) *sqldb.Repo[T] {
	return sqldb.NewRepo(dialect, db, conf)
}
