// Package sqldb contains tools shared by SQL sources: a query builder,
// a [Dialect] abstraction and translation of grid queries into SQL.
package sqldb

import (
	"strings"
)

// Dialect describes syntax differences between databases.
type Dialect interface {
	// ProcessParam returns a placeholder for a parameter with a given
	// number (starting from 1) and a value to bind.
	ProcessParam(p any, number int) (string, any)
	// Quote quotes an identifier. Dotted names are quoted part by part.
	Quote(ident string) string
	// IContains returns a condition checking that an expression contains
	// a term ignoring case, and a value to bind.
	IContains(expr string, term string, number int) (string, any)
	// Text casts an expression to text.
	Text(expr string) string
	// LimitAndOffset returns a clause selecting a window of rows.
	// Zero limit means no limit.
	LimitAndOffset(limit, offset int) string
}

// SQL builds an SQL query together with its parameters.
type SQL struct {
	dialect Dialect
	strs    []string
	params  []any
}

// NewSQL creates an [SQL] builder.
func NewSQL(d Dialect, strs ...string) *SQL {
	s := &SQL{dialect: d}
	return s.Add(strs...)
}

// Add appends strings to the query.
func (s *SQL) Add(strs ...string) *SQL {
	s.strs = append(s.strs, strs...)
	return s
}

// Param appends a placeholder and binds a parameter to it.
func (s *SQL) Param(p any) *SQL {
	str, param := s.dialect.ProcessParam(p, len(s.params)+1)
	s.params = append(s.params, param)
	s.strs = append(s.strs, str)
	return s
}

// IContains appends a case-insensitive substring condition.
func (s *SQL) IContains(expr, term string) *SQL {
	str, param := s.dialect.IContains(expr, term, len(s.params)+1)
	s.params = append(s.params, param)
	s.strs = append(s.strs, str)
	return s
}

// Join appends strings separated by sep.
func (s *SQL) Join(sep string, strs ...string) *SQL {
	count := len(strs)
	for i, str := range strs {
		s.Add(str)
		if i < count-1 {
			s.Add(sep)
		}
	}
	return s
}

// JoinParams appends placeholders of parameters separated by sep.
func (s *SQL) JoinParams(sep string, ps ...any) *SQL {
	count := len(ps)
	for i, p := range ps {
		s.Param(p)
		if i < count-1 {
			s.Add(sep)
		}
	}
	return s
}

// RemoveLast removes the last added string.
func (s *SQL) RemoveLast() *SQL {
	s.strs = s.strs[:len(s.strs)-1]
	return s
}

func (s *SQL) String() string {
	return strings.Join(s.strs, "")
}

func (s *SQL) Params() []any {
	return s.params
}

func (s *SQL) Build() (string, []any) {
	return s.String(), s.Params()
}

// QuoteWith quotes every part of a dotted identifier with a given function.
func QuoteWith(ident string, quote func(string) string) string {
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes wildcards of a LIKE pattern with a backslash.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}
