// Package fields resolves record fields referenced by name in filters,
// ordering keys and search.
//
// Struct records are described once per type by reflection. Records of
// map types with string keys are resolved against the records themselves.
package fields

import (
	"reflect"
	"strings"
	"sync"
)

// Field is a named, typed attribute of records of type T.
type Field[T any] struct {
	Name string // name of a struct field or a map key
	Kind Kind
	get  func(T) any
	copy func(dst *T, src T) bool
}

// Get returns a normalized value of the field or nil when the record
// has no value for it.
func (f *Field[T]) Get(record T) any {
	return f.get(record)
}

// Copy sets the field of dst to its value in src. It reports false when
// the field can't be set, e.g. for map records or a nil embedded pointer.
func (f *Field[T]) Copy(dst *T, src T) bool {
	if f.copy == nil || dst == nil {
		return false
	}
	return f.copy(dst, src)
}

// Schema describes fields of records of type T.
// It's read-only after creation and safe for concurrent use.
type Schema[T any] struct {
	fields  []*Field[T]
	byName  map[string]*Field[T]
	byLower map[string]*Field[T]
	mapKey  reflect.Type // key type of map records
}

var schemas sync.Map

// For returns a cached schema for type T.
func For[T any]() *Schema[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if s, ok := schemas.Load(t); ok {
		return s.(*Schema[T])
	}
	s, _ := schemas.LoadOrStore(t, NewSchema[T]())
	return s.(*Schema[T])
}

// NewSchema builds a schema for type T.
func NewSchema[T any]() *Schema[T] {
	s := &Schema[T]{
		byName:  make(map[string]*Field[T]),
		byLower: make(map[string]*Field[T]),
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	pointer := false
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		pointer = true
	}

	switch t.Kind() {
	case reflect.Struct:
		for _, sf := range reflect.VisibleFields(t) {
			if !sf.IsExported() || sf.Anonymous {
				continue
			}
			s.addStructField(sf, pointer)
		}
	case reflect.Map:
		if !pointer && t.Key().Kind() == reflect.String {
			s.mapKey = t.Key()
		}
	}
	return s
}

func (s *Schema[T]) addStructField(sf reflect.StructField, pointer bool) {
	index := sf.Index
	kind := KindOf(sf.Type)
	f := &Field[T]{
		Name: sf.Name,
		Kind: kind,
		get: func(record T) any {
			v := reflect.ValueOf(&record).Elem()
			if pointer {
				if v.IsNil() {
					return nil
				}
				v = v.Elem()
			}
			fv, err := v.FieldByIndexErr(index)
			if err != nil {
				return nil
			}
			return normalize(kind, fv)
		},
		copy: func(dst *T, src T) bool {
			d := reflect.ValueOf(dst).Elem()
			v := reflect.ValueOf(&src).Elem()
			if pointer {
				if d.IsNil() || v.IsNil() {
					return false
				}
				d, v = d.Elem(), v.Elem()
			}
			df, err := d.FieldByIndexErr(index)
			if err != nil {
				return false
			}
			vf, err := v.FieldByIndexErr(index)
			if err != nil {
				return false
			}
			df.Set(vf)
			return true
		},
	}
	s.fields = append(s.fields, f)
	s.index(sf.Name, f)
	if tag := jsonName(sf); tag != "" {
		s.index(tag, f)
	}
}

func (s *Schema[T]) index(name string, f *Field[T]) {
	if _, ok := s.byName[name]; !ok {
		s.byName[name] = f
	}
	lower := strings.ToLower(name)
	if _, ok := s.byLower[lower]; !ok {
		s.byLower[lower] = f
	}
}

func jsonName(sf reflect.StructField) string {
	tag, ok := sf.Tag.Lookup("json")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// Dynamic reports whether fields are resolved against records (map records).
func (s *Schema[T]) Dynamic() bool {
	return s.mapKey != nil
}

// Fields returns fields of struct records in declaration order.
func (s *Schema[T]) Fields() []*Field[T] {
	return s.fields
}

// Lookup finds a field of struct records by its Go name or JSON name.
// An exact match wins over a case-insensitive one.
func (s *Schema[T]) Lookup(name string) (*Field[T], bool) {
	name = strings.TrimSpace(name)
	if f, ok := s.byName[name]; ok {
		return f, true
	}
	f, ok := s.byLower[strings.ToLower(name)]
	return f, ok
}

// Resolve finds a field by name. For map records the field exists
// if at least one of the records has a matching key; its kind is taken
// from the first non-nil value.
func (s *Schema[T]) Resolve(name string, records []T) (*Field[T], bool) {
	if !s.Dynamic() {
		return s.Lookup(name)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}

	key, found := s.findKey(name, records, strings.EqualFold)
	if !found {
		return nil, false
	}
	if exact, ok := s.findKey(name, records, func(a, b string) bool { return a == b }); ok {
		key = exact
	}

	kind := Invalid
	for _, r := range records {
		if v := s.mapValue(r, key); v.IsValid() && !isNil(v) {
			kind = KindOf(elem(v).Type())
			break
		}
	}
	if kind == Invalid {
		kind = Other
	}

	return &Field[T]{
		Name: key,
		Kind: kind,
		get: func(record T) any {
			v := s.mapValue(record, key)
			if !v.IsValid() {
				return nil
			}
			return normalize(kind, v)
		},
	}, true
}

func (s *Schema[T]) findKey(name string, records []T, eq func(a, b string) bool) (string, bool) {
	for _, r := range records {
		m := reflect.ValueOf(&r).Elem()
		if m.IsNil() {
			continue
		}
		iter := m.MapRange()
		for iter.Next() {
			if k := iter.Key().String(); eq(k, name) {
				return k, true
			}
		}
	}
	return "", false
}

func (s *Schema[T]) mapValue(record T, key string) reflect.Value {
	m := reflect.ValueOf(&record).Elem()
	if m.IsNil() {
		return reflect.Value{}
	}
	return m.MapIndex(reflect.ValueOf(key).Convert(s.mapKey))
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

func elem(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	return v
}
