package fields

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
}

// Coerce parses an external value (e.g. a filter value received from a grid)
// into the representation of a kind. It reports false when the value
// can't be represented.
func Coerce(kind Kind, value any) (any, bool) {
	if value == nil {
		return nil, false
	}
	if n, ok := value.(json.Number); ok {
		value = n.String()
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
		value = rv.Interface()
	}
	s, isString := value.(string)
	s = strings.TrimSpace(s)

	switch kind {
	case Int:
		switch {
		case isString:
			i, err := strconv.ParseInt(s, 10, 64)
			return i, err == nil
		case isInteger(rv):
			return normalize(Int, rv), true
		case isFloat(rv):
			f := rv.Float()
			if f != math.Trunc(f) || math.IsInf(f, 0) {
				return nil, false
			}
			return int64(f), true
		}
		if d, ok := value.(decimal.Decimal); ok && d.IsInteger() {
			return d.IntPart(), true
		}
	case Float:
		switch {
		case isString:
			f, err := strconv.ParseFloat(s, 64)
			return f, err == nil
		case isInteger(rv), isFloat(rv):
			return normalize(Float, rv), true
		}
		if d, ok := value.(decimal.Decimal); ok {
			return d.InexactFloat64(), true
		}
	case Decimal:
		switch v := value.(type) {
		case decimal.Decimal:
			return v, true
		case string:
			d, err := decimal.NewFromString(s)
			return d, err == nil
		}
		switch {
		case isInteger(rv):
			return decimal.NewFromInt(normalize(Int, rv).(int64)), true
		case isFloat(rv):
			return decimal.NewFromFloat(rv.Float()), true
		}
	case String:
		if isString {
			return value.(string), true
		}
		return Text(value), true
	case Bool:
		switch v := value.(type) {
		case bool:
			return v, true
		case string:
			b, err := strconv.ParseBool(s)
			return b, err == nil
		}
	case Time:
		switch v := value.(type) {
		case time.Time:
			return v, true
		case string:
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t, true
				}
			}
		}
	case UUID:
		switch v := value.(type) {
		case uuid.UUID:
			return v, true
		case string:
			id, err := uuid.Parse(s)
			return id, err == nil
		}
	case Other:
		return value, true
	}
	return nil, false
}

func isInteger(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(v reflect.Value) bool {
	return v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

// Elements returns items of a slice or an array. Any other value
// (including strings, byte slices and UUIDs) is returned as a single item.
func Elements(value any) []any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	if rv.Type() == uuidType || rv.Type() == reflect.TypeOf([]byte(nil)) {
		return []any{value}
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		result := make([]any, rv.Len())
		for i := range result {
			result[i] = rv.Index(i).Interface()
		}
		return result
	}
	return []any{value}
}

// Compare orders two normalized values of a kind.
// Nil goes before anything else.
func Compare(kind Kind, a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch kind {
	case Int:
		x, ok1 := a.(int64)
		y, ok2 := b.(int64)
		if ok1 && ok2 {
			return cmp.Compare(x, y)
		}
	case Float:
		x, ok1 := a.(float64)
		y, ok2 := b.(float64)
		if ok1 && ok2 {
			return cmp.Compare(x, y)
		}
	case Decimal:
		x, ok1 := a.(decimal.Decimal)
		y, ok2 := b.(decimal.Decimal)
		if ok1 && ok2 {
			return x.Cmp(y)
		}
	case String:
		x, ok1 := a.(string)
		y, ok2 := b.(string)
		if ok1 && ok2 {
			return strings.Compare(x, y)
		}
	case Bool:
		x, ok1 := a.(bool)
		y, ok2 := b.(bool)
		if ok1 && ok2 {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	case Time:
		x, ok1 := a.(time.Time)
		y, ok2 := b.(time.Time)
		if ok1 && ok2 {
			return x.Compare(y)
		}
	case UUID:
		x, ok1 := a.(uuid.UUID)
		y, ok2 := b.(uuid.UUID)
		if ok1 && ok2 {
			return bytes.Compare(x[:], y[:])
		}
	}
	return strings.Compare(Text(a), Text(b))
}

// Text returns a text form of a value used for substring matching.
func Text(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(time.RFC3339)
	case decimal.Decimal:
		return v.String()
	case uuid.UUID:
		return v.String()
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}
