package mem

import (
	"slices"

	"github.com/meowmeowcode/swiftgrid"
	"github.com/meowmeowcode/swiftgrid/fields"
)

type sortKey[T any] struct {
	field *fields.Field[T]
	desc  bool
}

type keyed[T any] struct {
	record T
	keys   []any
}

// SortKey returns a function extracting an ordering key from a record
// and the kind of the key. Unknown fields are reported with false;
// [Evaluator.Evaluate] skips them instead of ordering by some other key.
func (e *Evaluator[T]) SortKey(name string, records []T) (func(T) any, fields.Kind, bool) {
	f, ok := e.schema.Resolve(name, records)
	if !ok {
		return nil, fields.Invalid, false
	}
	return f.Get, f.Kind, true
}

func (e *Evaluator[T]) sortKeys(sorts []swiftgrid.Sort, records []T) []sortKey[T] {
	keys := make([]sortKey[T], 0, len(sorts))
	for _, s := range sorts {
		f, ok := e.schema.Resolve(s.Field, records)
		if !ok {
			e.logger.Debug("skipping sort on unknown field", "field", s.Field)
			continue
		}
		keys = append(keys, sortKey[T]{field: f, desc: s.Direction == swiftgrid.Descending})
	}
	return keys
}

// sort orders records in place. The sort is stable, so records equal
// on every key keep their relative order.
func (e *Evaluator[T]) sort(result []T, sorts []swiftgrid.Sort, records []T) {
	keys := e.sortKeys(sorts, records)
	if len(keys) == 0 || len(result) < 2 {
		return
	}

	items := make([]keyed[T], len(result))
	for i, r := range result {
		values := make([]any, len(keys))
		for j, k := range keys {
			values[j] = k.field.Get(r)
		}
		items[i] = keyed[T]{record: r, keys: values}
	}

	slices.SortStableFunc(items, func(a, b keyed[T]) int {
		for i, k := range keys {
			c := fields.Compare(k.field.Kind, a.keys[i], b.keys[i])
			if k.desc {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})

	for i := range items {
		result[i] = items[i].record
	}
}
