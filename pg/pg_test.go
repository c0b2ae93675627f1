package pg

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/meowmeowcode/swiftgrid"
	"github.com/meowmeowcode/swiftgrid/sqldb"
)

type User struct {
	Id   int64
	Name string
	Age  int
}

type call struct {
	query  string
	params []any
}

type fakeRows struct {
	pgx.Rows
	values [][]any
	i      int
	err    error
}

func (r *fakeRows) Next() bool {
	r.i++
	return r.i <= len(r.values)
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(dest, r.values[r.i-1])
}

func (r *fakeRows) Err() error {
	return r.err
}

func (r *fakeRows) Close() {}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.values)
}

func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return errors.New("wrong number of values")
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(values[i]))
	}
	return nil
}

type fakeExecutor struct {
	calls []call
	count fakeRow
	rows  *fakeRows
}

func (e *fakeExecutor) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	e.calls = append(e.calls, call{query, args})
	return e.rows, nil
}

func (e *fakeExecutor) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	e.calls = append(e.calls, call{query, args})
	return e.count
}

func TestFetch(t *testing.T) {
	executor := &fakeExecutor{
		count: fakeRow{values: []any{int64(3)}},
		rows: &fakeRows{values: [][]any{
			{int64(1), "Alice", 30},
			{int64(3), "Carl", 25},
		}},
	}
	repo := NewRepo(executor, sqldb.Conf[User]{Table: "users", SearchFields: []string{"Name", "Age"}})

	q := swiftgrid.NewQuery().
		Where(swiftgrid.Gte("Age", "25"), swiftgrid.Like("Name", "a%")).
		Search("L").
		OrderBy(swiftgrid.Desc("Age")).
		WithPage(2, 2)
	result, err := repo.Fetch(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}

	where := ` WHERE Age >= $1 AND Name ILIKE '%' || $2 || '%' AND (Name ILIKE '%' || $3 || '%' OR Age::text ILIKE '%' || $4 || '%')`
	expected := []call{
		{
			`SELECT COUNT(1) FROM (SELECT Id, Name, Age FROM "users"` + where + `) AS q`,
			[]any{int64(25), `a\%`, "L", "L"},
		},
		{
			`SELECT Id, Name, Age FROM "users"` + where + ` ORDER BY Age DESC, Id LIMIT 2 OFFSET 2`,
			[]any{int64(25), `a\%`, "L", "L"},
		},
	}
	if !reflect.DeepEqual(executor.calls, expected) {
		t.Fatalf("%v != %v", executor.calls, expected)
	}

	if result.TotalCount != 3 {
		t.Fatalf("%v != %v", result.TotalCount, 3)
	}
	users := []User{{1, "Alice", 30}, {3, "Carl", 25}}
	if !reflect.DeepEqual(result.Items, users) {
		t.Fatalf("%v != %v", result.Items, users)
	}
}

func TestFetchNothing(t *testing.T) {
	executor := &fakeExecutor{count: fakeRow{values: []any{int64(0)}}}
	repo := NewRepo(executor, sqldb.Conf[User]{Table: "users"})
	result, err := repo.Simple().Fetch(swiftgrid.NewQuery())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Items) != 0 || result.TotalCount != 0 {
		t.Fatalf("unexpected result %v", result)
	}
	if len(executor.calls) != 1 {
		t.Fatalf("%v != %v", len(executor.calls), 1)
	}
}

func TestFetchErrors(t *testing.T) {
	countErr := errors.New("count failed")
	repo := NewRepo(&fakeExecutor{count: fakeRow{err: countErr}}, sqldb.Conf[User]{Table: "users"})
	if _, err := repo.Fetch(context.Background(), swiftgrid.NewQuery()); !errors.Is(err, countErr) {
		t.Fatalf("%v != %v", err, countErr)
	}

	rowsErr := errors.New("rows failed")
	repo = NewRepo(&fakeExecutor{
		count: fakeRow{values: []any{int64(1)}},
		rows:  &fakeRows{err: rowsErr},
	}, sqldb.Conf[User]{Table: "users"})
	if _, err := repo.Fetch(context.Background(), swiftgrid.NewQuery()); !errors.Is(err, rowsErr) {
		t.Fatalf("%v != %v", err, rowsErr)
	}

	if _, err := repo.Fetch(context.Background(), swiftgrid.Query{Page: -1}); !errors.Is(err, swiftgrid.ErrInvalidPage) {
		t.Fatalf("%v != %v", err, swiftgrid.ErrInvalidPage)
	}
}

func TestQuote(t *testing.T) {
	tests := map[string]string{
		"users":        `"users"`,
		"public.users": `"public"."users"`,
		`odd"name`:     `"odd""name"`,
	}
	for ident, expected := range tests {
		if got := dialect.Quote(ident); got != expected {
			t.Fatalf("%v != %v", got, expected)
		}
	}
}
