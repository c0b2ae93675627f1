package sqldb

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/meowmeowcode/swiftgrid"
	"github.com/meowmeowcode/swiftgrid/fields"
	"github.com/meowmeowcode/swiftgrid/operators"
)

// Scanner allows to fetch data from a result of an SQL query.
type Scanner interface {
	Scan(dest ...any) error
}

// Conf contains configuration of an SQL source.
type Conf[T any] struct {
	Table   string            // name of a database table
	Mapping map[string]string // mapping of entity fields to table columns
	Query   string            // SQL query to select records from the database
	// function that loads a result of an SQL query to an entity
	Load         func(Scanner) (T, error)
	SearchFields []string // entity fields matched by a global search
	// entity field that orders paged results after the sort keys;
	// the first mapped field by default
	Key    string
	Logger *slog.Logger
}

// Translator turns grid queries into SQL for records of type T.
type Translator[T any] struct {
	dialect      Dialect
	schema       *fields.Schema[T]
	table        string
	mapping      map[string]string
	fields       []string
	columns      []string
	query        string
	key          string
	load         func(Scanner) (T, error)
	searchFields []string
	logger       *slog.Logger
}

// NewTranslator creates a [Translator]. It panics when the configuration
// has no table name.
func NewTranslator[T any](d Dialect, conf Conf[T]) *Translator[T] {
	if conf.Table == "" {
		panic("table name is required to create a repository")
	}

	t := &Translator[T]{
		dialect:      d,
		schema:       fields.For[T](),
		table:        conf.Table,
		searchFields: conf.SearchFields,
		logger:       conf.Logger,
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if conf.Mapping != nil {
		t.mapping = conf.Mapping
	} else {
		t.mapping = make(map[string]string)
		for _, f := range t.schema.Fields() {
			t.mapping[f.Name] = f.Name
		}
	}

	for _, f := range t.schema.Fields() {
		if col, ok := t.mapping[f.Name]; ok {
			t.fields = append(t.fields, f.Name)
			t.columns = append(t.columns, col)
		}
	}

	if conf.Key != "" {
		_, col, ok := t.column(conf.Key)
		if !ok {
			panic(fmt.Sprintf("key field %q is not mapped to a column", conf.Key))
		}
		t.key = col
	} else if len(t.columns) > 0 {
		t.key = t.columns[0]
	}

	if conf.Query != "" {
		t.query = conf.Query
	} else {
		t.query = NewSQL(d, "SELECT ").Join(", ", t.columns...).Add(" FROM ", d.Quote(t.table)).String()
	}

	if conf.Load != nil {
		t.load = conf.Load
	} else {
		t.load = func(row Scanner) (T, error) {
			var entity T
			v := reflect.ValueOf(&entity).Elem()
			dest := make([]any, 0, len(t.fields))
			for _, field := range t.fields {
				dest = append(dest, v.FieldByName(field).Addr().Interface())
			}
			err := row.Scan(dest...)
			return entity, err
		}
	}

	return t
}

// Load loads a row to an entity.
func (t *Translator[T]) Load(row Scanner) (T, error) {
	return t.load(row)
}

// Count builds a query counting records matching filters and a search term of q.
func (t *Translator[T]) Count(q swiftgrid.Query) *SQL {
	s := NewSQL(t.dialect, "SELECT COUNT(1) FROM (", t.query)
	t.Where(s, q)
	return s.Add(") AS q")
}

// Select builds a query selecting a page of records.
func (t *Translator[T]) Select(q swiftgrid.Query) *SQL {
	s := NewSQL(t.dialect, t.query)
	t.Where(s, q)
	t.OrderBy(s, q)
	t.Window(s, q)
	return s
}

// Where appends a WHERE clause built from filters and a search term of q.
// Nothing is appended when no condition applies.
func (t *Translator[T]) Where(s *SQL, q swiftgrid.Query) {
	s.Add(" WHERE ")
	for _, f := range q.Filters {
		if t.condition(s, f) {
			s.Add(" AND ")
		}
	}
	if t.search(s, q.GlobalSearch) {
		s.Add(" AND ")
	}
	s.RemoveLast()
}

// OrderBy appends an ORDER BY clause. Unmapped fields are skipped.
// A paged query is also ordered by the key column, unless it's one of
// the sort keys, so that rows with equal sort keys keep their page.
func (t *Translator[T]) OrderBy(s *SQL, q swiftgrid.Query) {
	s.Add(" ORDER BY ")
	keyed := false
	for _, o := range q.Sorts {
		_, col, ok := t.column(o.Field)
		if !ok {
			t.logger.Debug("skipping sort on unknown field", "field", o.Field)
			continue
		}
		s.Add(col)
		if o.Direction == swiftgrid.Descending {
			s.Add(" DESC")
		}
		s.Add(", ")
		keyed = keyed || col == t.key
	}
	if q.Paged() && t.key != "" && !keyed {
		s.Add(t.key, ", ")
	}
	s.RemoveLast()
}

// Window appends a clause selecting the page of q.
func (t *Translator[T]) Window(s *SQL, q swiftgrid.Query) {
	s.Add(t.dialect.LimitAndOffset(q.Limit(), q.Offset()))
}

func (t *Translator[T]) column(name string) (*fields.Field[T], string, bool) {
	f, ok := t.schema.Lookup(name)
	if !ok {
		return nil, "", false
	}
	col, ok := t.mapping[f.Name]
	return f, col, ok
}

// condition appends a condition for a filter and reports whether it did.
func (t *Translator[T]) condition(s *SQL, f swiftgrid.Filter) bool {
	if !f.IsSet() {
		return false
	}
	field, col, ok := t.column(f.Field)
	if !ok {
		t.logger.Debug("skipping filter on unknown field", "field", f.Field)
		return false
	}
	kind := field.Kind

	skip := func() bool {
		t.logger.Debug("skipping filter", "field", f.Field, "operator", f.Operator, "kind", kind, "value", f.Value)
		return false
	}

	switch f.Operator {
	case operators.Like:
		s.IContains(t.text(col, kind), fields.Text(f.Value))

	case operators.Equal:
		v, ok := fields.Coerce(kind, f.Value)
		if !ok {
			return skip()
		}
		s.Add(col, " = ").Param(v)

	case operators.NotEqual:
		v, ok := fields.Coerce(kind, f.Value)
		if !ok {
			return skip()
		}
		s.Add("(", col, " IS NULL OR ", col, " <> ").Param(v).Add(")")

	case operators.GreaterThan, operators.GreaterThanOrEqual, operators.LessThan, operators.LessThanOrEqual:
		if !kind.Ordered() {
			return skip()
		}
		v, ok := fields.Coerce(kind, f.Value)
		if !ok {
			return skip()
		}
		s.Add(col, comparisons[f.Operator]).Param(v)

	case operators.In, operators.NotIn:
		elements := fields.Elements(f.Value)
		set := make([]any, 0, len(elements))
		for _, el := range elements {
			if v, ok := fields.Coerce(kind, el); ok {
				set = append(set, v)
			}
		}
		if len(elements) > 0 && len(set) == 0 {
			return skip()
		}
		switch {
		case f.Operator == operators.In && len(set) == 0:
			s.Add("1 = 0")
		case f.Operator == operators.In:
			s.Add(col, " IN (").JoinParams(", ", set...).Add(")")
		case len(set) == 0:
			return false
		default:
			s.Add("(", col, " IS NULL OR ", col, " NOT IN (").JoinParams(", ", set...).Add("))")
		}

	default:
		return skip()
	}
	return true
}

var comparisons = map[operators.Operator]string{
	operators.GreaterThan:        " > ",
	operators.GreaterThanOrEqual: " >= ",
	operators.LessThan:           " < ",
	operators.LessThanOrEqual:    " <= ",
}

func (t *Translator[T]) text(col string, kind fields.Kind) string {
	if kind == fields.String {
		return col
	}
	return t.dialect.Text(col)
}

// search appends a condition matching any of the search fields
// and reports whether it did.
func (t *Translator[T]) search(s *SQL, term string) bool {
	if strings.TrimSpace(term) == "" || len(t.searchFields) == 0 {
		return false
	}
	s.Add("(")
	found := false
	for _, name := range t.searchFields {
		field, col, ok := t.column(name)
		if !ok {
			t.logger.Debug("unknown search field", "field", name)
			continue
		}
		s.IContains(t.text(col, field.Kind), term).Add(" OR ")
		found = true
	}
	if !found {
		s.Add("1 = 0)")
		return true
	}
	s.RemoveLast().Add(")")
	return true
}
