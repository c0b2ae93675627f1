package swiftgrid

import (
	"strings"

	"github.com/meowmeowcode/swiftgrid/operators"
)

// Filter describes one inclusion test: a record passes when its Field
// compared with Value by Operator holds.
//
// A filter without a value doesn't exclude anything.
type Filter struct {
	Field    string             `json:"field"`
	Operator operators.Operator `json:"operator"`
	Value    any                `json:"value"`
}

// IsSet reports whether the filter takes part in a query.
func (f Filter) IsSet() bool {
	return strings.TrimSpace(f.Field) != "" && f.Value != nil
}

func Eq(field string, value any) Filter {
	return Filter{Field: field, Operator: operators.Equal, Value: value}
}

func Ne(field string, value any) Filter {
	return Filter{Field: field, Operator: operators.NotEqual, Value: value}
}

func Like(field string, value string) Filter {
	return Filter{Field: field, Operator: operators.Like, Value: value}
}

func Gt(field string, value any) Filter {
	return Filter{Field: field, Operator: operators.GreaterThan, Value: value}
}

func Gte(field string, value any) Filter {
	return Filter{Field: field, Operator: operators.GreaterThanOrEqual, Value: value}
}

func Lt(field string, value any) Filter {
	return Filter{Field: field, Operator: operators.LessThan, Value: value}
}

func Lte(field string, value any) Filter {
	return Filter{Field: field, Operator: operators.LessThanOrEqual, Value: value}
}

func In(field string, values ...any) Filter {
	return Filter{Field: field, Operator: operators.In, Value: values}
}

func NotIn(field string, values ...any) Filter {
	return Filter{Field: field, Operator: operators.NotIn, Value: values}
}
