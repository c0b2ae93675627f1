// Package mem applies grid queries to records held in memory.
package mem

import (
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/meowmeowcode/swiftgrid"
	"github.com/meowmeowcode/swiftgrid/fields"
	"github.com/meowmeowcode/swiftgrid/operators"
)

// Conf contains configuration of an [Evaluator] or a [Repo].
type Conf struct {
	SearchFields []string     // fields matched by a global search
	Logger       *slog.Logger // receives debug messages about skipped filters and keys
}

// Evaluator filters, searches, sorts and paginates records of type T.
// It keeps no state between calls and may be shared between goroutines.
type Evaluator[T any] struct {
	schema       *fields.Schema[T]
	searchFields []string
	logger       *slog.Logger
}

// NewEvaluator creates an [Evaluator].
func NewEvaluator[T any](conf Conf) *Evaluator[T] {
	logger := conf.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Evaluator[T]{
		schema:       fields.For[T](),
		searchFields: conf.SearchFields,
		logger:       logger,
	}
}

// Evaluate applies a query to records using the given search fields.
func Evaluate[T any](records []T, q swiftgrid.Query, searchFields ...string) (swiftgrid.Result[T], error) {
	return NewEvaluator[T](Conf{SearchFields: searchFields}).Evaluate(records, q)
}

// Evaluate returns the page of records selected by a query and the number
// of records matching its filters and search term. The records slice isn't modified.
func (e *Evaluator[T]) Evaluate(records []T, q swiftgrid.Query) (swiftgrid.Result[T], error) {
	if err := q.Validate(); err != nil {
		return swiftgrid.Result[T]{}, err
	}

	predicates := e.compileAll(q.Filters, records)
	search := e.compileSearch(q.GlobalSearch, records)
	if search != nil {
		predicates = append(predicates, search)
	}

	matched := make([]T, 0, len(records))
	for _, r := range records {
		if matchesAll(r, predicates) {
			matched = append(matched, r)
		}
	}
	total := len(matched)

	e.sort(matched, q.Sorts, records)

	offset := min(q.Offset(), total)
	end := total
	if q.Limit() > 0 {
		end = min(offset+q.Limit(), total)
	}
	return swiftgrid.NewResult(matched[offset:end], total, q), nil
}

// Match reports whether a record passes a filter.
// A filter that can't be applied lets every record pass.
func (e *Evaluator[T]) Match(record T, f swiftgrid.Filter) bool {
	p, ok := e.compile(f, []T{record})
	if !ok {
		return true
	}
	return p(record)
}

type predicate[T any] func(T) bool

func matchesAll[T any](record T, predicates []predicate[T]) bool {
	for _, p := range predicates {
		if !p(record) {
			return false
		}
	}
	return true
}

func (e *Evaluator[T]) compileAll(filters []swiftgrid.Filter, records []T) []predicate[T] {
	result := make([]predicate[T], 0, len(filters))
	for _, f := range filters {
		if p, ok := e.compile(f, records); ok {
			result = append(result, p)
		}
	}
	return result
}

// compile turns a filter into a predicate. It reports false when the filter
// has no value, refers to an unknown field or has a value that doesn't fit
// the field; such filters are skipped.
func (e *Evaluator[T]) compile(f swiftgrid.Filter, records []T) (predicate[T], bool) {
	if !f.IsSet() {
		return nil, false
	}
	field, ok := e.schema.Resolve(f.Field, records)
	if !ok {
		e.logger.Debug("skipping filter on unknown field", "field", f.Field)
		return nil, false
	}
	p, ok := compileOperator(field, f.Operator, f.Value)
	if !ok {
		e.logger.Debug("skipping filter", "field", f.Field, "operator", f.Operator, "kind", field.Kind, "value", f.Value)
	}
	return p, ok
}

func compileOperator[T any](field *fields.Field[T], op operators.Operator, value any) (predicate[T], bool) {
	kind := field.Kind

	switch op {
	case operators.Like:
		needle := strings.ToLower(fields.Text(value))
		return func(r T) bool {
			v := field.Get(r)
			return v != nil && strings.Contains(strings.ToLower(fields.Text(v)), needle)
		}, true

	case operators.Equal, operators.NotEqual:
		target, ok := fields.Coerce(kind, value)
		if !ok {
			return nil, false
		}
		if op == operators.Equal {
			return func(r T) bool {
				v := field.Get(r)
				return v != nil && fields.Compare(kind, v, target) == 0
			}, true
		}
		return func(r T) bool {
			v := field.Get(r)
			return v == nil || fields.Compare(kind, v, target) != 0
		}, true

	case operators.GreaterThan, operators.GreaterThanOrEqual, operators.LessThan, operators.LessThanOrEqual:
		if !kind.Ordered() {
			return nil, false
		}
		target, ok := fields.Coerce(kind, value)
		if !ok {
			return nil, false
		}
		holds := comparison(op)
		return func(r T) bool {
			v := field.Get(r)
			return v != nil && holds(fields.Compare(kind, v, target))
		}, true

	case operators.In, operators.NotIn:
		elements := fields.Elements(value)
		set := make([]any, 0, len(elements))
		for _, el := range elements {
			if x, ok := fields.Coerce(kind, el); ok {
				set = append(set, x)
			}
		}
		if len(elements) > 0 && len(set) == 0 {
			return nil, false
		}
		contains := func(v any) bool {
			return slices.ContainsFunc(set, func(x any) bool { return fields.Compare(kind, v, x) == 0 })
		}
		if op == operators.In {
			return func(r T) bool {
				v := field.Get(r)
				return v != nil && contains(v)
			}, true
		}
		return func(r T) bool {
			v := field.Get(r)
			return v == nil || !contains(v)
		}, true
	}

	return nil, false
}

func comparison(op operators.Operator) func(int) bool {
	switch op {
	case operators.GreaterThan:
		return func(c int) bool { return c > 0 }
	case operators.GreaterThanOrEqual:
		return func(c int) bool { return c >= 0 }
	case operators.LessThan:
		return func(c int) bool { return c < 0 }
	default:
		return func(c int) bool { return c <= 0 }
	}
}

// compileSearch returns nil when there is nothing to search.
func (e *Evaluator[T]) compileSearch(term string, records []T) predicate[T] {
	if strings.TrimSpace(term) == "" || len(e.searchFields) == 0 {
		return nil
	}
	needle := strings.ToLower(term)
	searched := make([]*fields.Field[T], 0, len(e.searchFields))
	for _, name := range e.searchFields {
		if f, ok := e.schema.Resolve(name, records); ok {
			searched = append(searched, f)
		} else {
			e.logger.Debug("unknown search field", "field", name)
		}
	}
	return func(r T) bool {
		for _, f := range searched {
			v := f.Get(r)
			if v != nil && strings.Contains(strings.ToLower(fields.Text(v)), needle) {
				return true
			}
		}
		return false
	}
}
