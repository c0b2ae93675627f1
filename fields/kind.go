package fields

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind is a type of a field as seen by filters and sorting.
type Kind int

const (
	Invalid Kind = iota
	Int
	Float
	Decimal
	String
	Bool
	Time
	UUID
	Other
)

var kindNames = [...]string{"Invalid", "Int", "Float", "Decimal", "String", "Bool", "Time", "UUID", "Other"}

func (k Kind) String() string {
	if k < Invalid || k > Other {
		return "Invalid"
	}
	return kindNames[k]
}

// Ordered reports whether values of the kind have a total order
// usable by comparison operators.
func (k Kind) Ordered() bool {
	switch k {
	case Int, Float, Decimal, String, Time:
		return true
	}
	return false
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	decimalType = reflect.TypeOf(decimal.Decimal{})
	uuidType    = reflect.TypeOf(uuid.UUID{})
)

// KindOf returns a kind of values of a given type.
// Pointers are dereferenced.
func KindOf(t reflect.Type) Kind {
	if t == nil {
		return Invalid
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case timeType:
		return Time
	case decimalType:
		return Decimal
	case uuidType:
		return UUID
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Int
	case reflect.Float32, reflect.Float64:
		return Float
	case reflect.String:
		return String
	case reflect.Bool:
		return Bool
	}
	return Other
}

// normalize converts a field value to the representation used for a kind:
// int64, float64, decimal.Decimal, string, bool, time.Time or uuid.UUID.
// It returns nil for nil pointers and values that don't fit the kind.
func normalize(kind Kind, v reflect.Value) any {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}

	switch kind {
	case Int:
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return v.Int()
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return int64(v.Uint())
		case reflect.Float32, reflect.Float64:
			return int64(v.Float())
		}
	case Float:
		switch v.Kind() {
		case reflect.Float32, reflect.Float64:
			return v.Float()
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return float64(v.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return float64(v.Uint())
		}
	case Decimal:
		if d, ok := v.Interface().(decimal.Decimal); ok {
			return d
		}
	case String:
		if v.Kind() == reflect.String {
			return v.String()
		}
		return Text(v.Interface())
	case Bool:
		if v.Kind() == reflect.Bool {
			return v.Bool()
		}
	case Time:
		if t, ok := v.Interface().(time.Time); ok {
			return t
		}
	case UUID:
		if id, ok := v.Interface().(uuid.UUID); ok {
			return id
		}
	case Other:
		return v.Interface()
	}
	return nil
}
