// Package operators defines comparison operators of grid filters.
package operators

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownOperator is returned when a string doesn't name any [Operator].
var ErrUnknownOperator = errors.New("unknown filter operator")

// Operator defines how a [Filter] compares a field with its value.
type Operator int

const (
	Equal Operator = iota
	NotEqual
	Like // case-insensitive substring
	GreaterThan
	GreaterThanOrEqual
	LessThan
	LessThanOrEqual
	In
	NotIn
)

var operatorNames = [...]string{
	Equal:              "Equal",
	NotEqual:           "NotEqual",
	Like:               "Like",
	GreaterThan:        "GreaterThan",
	GreaterThanOrEqual: "GreaterThanOrEqual",
	LessThan:           "LessThan",
	LessThanOrEqual:    "LessThanOrEqual",
	In:                 "In",
	NotIn:              "NotIn",
}

var operatorAliases = [...]string{
	Equal:              "eq",
	NotEqual:           "neq",
	Like:               "like",
	GreaterThan:        "gt",
	GreaterThanOrEqual: "gte",
	LessThan:           "lt",
	LessThanOrEqual:    "lte",
	In:                 "in",
	NotIn:              "nin",
}

// Tabulator filter types.
var tabulatorTypes = map[string]Operator{
	"=":     Equal,
	"==":    Equal,
	"!=":    NotEqual,
	"!==":   NotEqual,
	"regex": Like,
	">":     GreaterThan,
	">=":    GreaterThanOrEqual,
	"<":     LessThan,
	"<=":    LessThanOrEqual,
}

// Valid reports whether o is one of the declared operators.
func (o Operator) Valid() bool {
	return o >= Equal && o <= NotIn
}

func (o Operator) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorNames[o]
}

// Alias returns the short name used on the wire, e.g. "gte".
func (o Operator) Alias() string {
	if !o.Valid() {
		return ""
	}
	return operatorAliases[o]
}

// ParseOperator parses canonical names ("GreaterThan"), short aliases ("gt")
// and Tabulator filter types (">").
func ParseOperator(s string) (Operator, error) {
	s = strings.TrimSpace(s)
	if op, ok := tabulatorTypes[s]; ok {
		return op, nil
	}
	for i := range operatorNames {
		if strings.EqualFold(s, operatorNames[i]) || strings.EqualFold(s, operatorAliases[i]) {
			return Operator(i), nil
		}
	}
	return Equal, fmt.Errorf("%w: %q", ErrUnknownOperator, s)
}

func (o Operator) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownOperator, int(o))
	}
	return []byte(o.Alias()), nil
}

func (o *Operator) UnmarshalText(text []byte) error {
	op, err := ParseOperator(string(text))
	if err != nil {
		return err
	}
	*o = op
	return nil
}
