package swiftgrid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection is returned when a string doesn't name a [Direction].
var ErrUnknownDirection = errors.New("unknown sort direction")

// Direction of a [Sort].
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts "asc", "ascending", "desc" and "descending" in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	dir, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = dir
	return nil
}

// Sort describes one ordering key of a [Query].
type Sort struct {
	Field     string    `json:"field"`     // field to order by
	Direction Direction `json:"direction"` // ordering direction
}

// Asc returns a [Sort] for ascending ordering by a given field.
func Asc(field string) Sort {
	return Sort{Field: field}
}

// Desc returns a [Sort] for descending ordering by a given field.
func Desc(field string) Sort {
	return Sort{Field: field, Direction: Descending}
}
