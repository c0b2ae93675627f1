package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/meowmeowcode/swiftgrid"
	"github.com/meowmeowcode/swiftgrid/operators"
)

var ErrBadRequest = errors.New("bad request")

var paramPattern = regexp.MustCompile(`^(sort|filter)\[(\d+)\]\[(field|dir|type|value)\](\[\])?$`)

type indexed struct {
	field  string
	dir    string
	typ    string
	values []string
	list   bool
}

// ParseTabulatorQuery reads a query sent by Tabulator in remote pagination mode:
// page, size, sort[i][field], sort[i][dir], filter[i][field], filter[i][type],
// filter[i][value] and a search term. The result is always paged.
func ParseTabulatorQuery(values url.Values, pageSize int) (swiftgrid.Query, error) {
	q := swiftgrid.NewQuery()
	q.PageSize = pageSize

	var err error
	if s := values.Get("page"); s != "" {
		if q.Page, err = strconv.Atoi(s); err != nil {
			return q, fmt.Errorf("%w: page must be a number, got %q", ErrBadRequest, s)
		}
	}
	if s := values.Get("size"); s != "" {
		if q.PageSize, err = strconv.Atoi(s); err != nil {
			return q, fmt.Errorf("%w: size must be a number, got %q", ErrBadRequest, s)
		}
		if q.PageSize < 1 {
			return q, fmt.Errorf("%w: size must be at least 1, got %d", ErrBadRequest, q.PageSize)
		}
	}
	q.GlobalSearch = strings.TrimSpace(values.Get("search"))

	sorts := make(map[int]*indexed)
	filters := make(map[int]*indexed)
	for key, vs := range values {
		m := paramPattern.FindStringSubmatch(key)
		if m == nil || len(vs) == 0 {
			continue
		}
		i, err := strconv.Atoi(m[2])
		if err != nil {
			return q, fmt.Errorf("%w: bad index in %s", ErrBadRequest, key)
		}
		group := sorts
		if m[1] == "filter" {
			group = filters
		}
		item, ok := group[i]
		if !ok {
			item = &indexed{}
			group[i] = item
		}
		switch m[3] {
		case "field":
			item.field = vs[0]
		case "dir":
			item.dir = vs[0]
		case "type":
			item.typ = vs[0]
		case "value":
			item.values = append(item.values, vs...)
			item.list = item.list || m[4] != "" || len(vs) > 1
		}
	}

	for _, i := range sortedKeys(sorts) {
		s := sorts[i]
		dir := swiftgrid.Ascending
		if s.dir != "" {
			if dir, err = swiftgrid.ParseDirection(s.dir); err != nil {
				return q, fmt.Errorf("%w: %w", ErrBadRequest, err)
			}
		}
		q.Sorts = append(q.Sorts, swiftgrid.Sort{Field: s.field, Direction: dir})
	}

	for _, i := range sortedKeys(filters) {
		f := filters[i]
		op := operators.Like
		if f.typ != "" {
			if op, err = operators.ParseOperator(f.typ); err != nil {
				return q, fmt.Errorf("%w: %w", ErrBadRequest, err)
			}
		}
		q.Filters = append(q.Filters, swiftgrid.Filter{Field: f.field, Operator: op, Value: f.value()})
	}

	return q, nil
}

func (f *indexed) value() any {
	if f.list {
		result := make([]any, len(f.values))
		for i, v := range f.values {
			result[i] = v
		}
		return result
	}
	if len(f.values) == 0 {
		return nil
	}
	return f.values[0]
}

func sortedKeys(m map[int]*indexed) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// QueryPayload is a query state sent by grids that post it as JSON:
// {Page, PageSize, Sorts: [{Field, Dir}], Filters: [{Field, Op, Value}], GlobalSearch}.
// Keys are matched case-insensitively. Direction and Operator may be used
// instead of Dir and Op, as names, aliases or numbers.
type QueryPayload struct {
	Page         *int
	PageSize     *int
	Sorts        []SortPayload
	Filters      []FilterPayload
	GlobalSearch string
}

type SortPayload struct {
	Field     string
	Dir       string
	Direction json.RawMessage
}

type FilterPayload struct {
	Field    string
	Op       string
	Operator json.RawMessage
	Value    any
}

// DecodeQuery decodes a [QueryPayload] into a query. Numbers in filter
// values are kept as json.Number.
func DecodeQuery(data []byte) (swiftgrid.Query, error) {
	var p QueryPayload
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	if err := d.Decode(&p); err != nil {
		return swiftgrid.Query{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return p.Query()
}

// Query converts the payload into a query. Missing page and page size
// take default values.
func (p QueryPayload) Query() (swiftgrid.Query, error) {
	q := swiftgrid.NewQuery()
	if p.Page != nil {
		q.Page = *p.Page
	}
	if p.PageSize != nil {
		q.PageSize = *p.PageSize
	}
	q.GlobalSearch = strings.TrimSpace(p.GlobalSearch)

	for _, s := range p.Sorts {
		dir, err := s.direction()
		if err != nil {
			return q, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		q.Sorts = append(q.Sorts, swiftgrid.Sort{Field: s.Field, Direction: dir})
	}
	for _, f := range p.Filters {
		op, err := f.operator()
		if err != nil {
			return q, fmt.Errorf("%w: %w", ErrBadRequest, err)
		}
		q.Filters = append(q.Filters, swiftgrid.Filter{Field: f.Field, Operator: op, Value: f.Value})
	}
	return q, nil
}

// direction prefers Direction. Dir is lenient: anything but "desc" means ascending.
func (s SortPayload) direction() (swiftgrid.Direction, error) {
	if present(s.Direction) {
		var n int
		if err := json.Unmarshal(s.Direction, &n); err == nil {
			d := swiftgrid.Direction(n)
			if d != swiftgrid.Ascending && d != swiftgrid.Descending {
				return d, fmt.Errorf("%w: %d", swiftgrid.ErrUnknownDirection, n)
			}
			return d, nil
		}
		var d swiftgrid.Direction
		err := json.Unmarshal(s.Direction, &d)
		return d, err
	}
	if strings.EqualFold(strings.TrimSpace(s.Dir), "desc") {
		return swiftgrid.Descending, nil
	}
	return swiftgrid.Ascending, nil
}

// operator prefers Operator over Op; a filter without both means Equal.
func (f FilterPayload) operator() (operators.Operator, error) {
	if present(f.Operator) {
		var n int
		if err := json.Unmarshal(f.Operator, &n); err == nil {
			op := operators.Operator(n)
			if !op.Valid() {
				return op, fmt.Errorf("%w: %d", operators.ErrUnknownOperator, n)
			}
			return op, nil
		}
		var op operators.Operator
		err := json.Unmarshal(f.Operator, &op)
		return op, err
	}
	if strings.TrimSpace(f.Op) == "" {
		return operators.Equal, nil
	}
	return operators.ParseOperator(f.Op)
}

func present(raw json.RawMessage) bool {
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}
