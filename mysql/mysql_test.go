package mysql

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meowmeowcode/swiftgrid"
	"github.com/meowmeowcode/swiftgrid/sqldb"
)

type Contact struct {
	Pk   uuid.UUID
	Name string
	Age  int
}

func makeContactsRepo(t *testing.T) (*sqldb.Repo[Contact], sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewRepo(db, sqldb.Conf[Contact]{
		Table: "crm.contacts",
		Mapping: map[string]string{
			"Pk":   "id",
			"Name": "name",
			"Age":  "age",
		},
		SearchFields: []string{"Name", "Age"},
	})
	return repo, mock
}

func TestFetch(t *testing.T) {
	repo, mock := makeContactsRepo(t)
	bob := uuid.New()

	where := " WHERE (name IS NULL OR name <> ?) AND age IN (?, ?) AND (LOWER(name) LIKE CONCAT('%', ?, '%') OR LOWER(CAST(age AS CHAR)) LIKE CONCAT('%', ?, '%'))"
	mock.ExpectQuery("SELECT COUNT(1) FROM (SELECT id, name, age FROM `crm`.`contacts`" + where + ") AS q").
		WithArgs("Alice", int64(25), int64(30), `b\_`, `b\_`).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(1)"}).AddRow(int64(12)))
	mock.ExpectQuery("SELECT id, name, age FROM `crm`.`contacts`" + where + " ORDER BY age DESC, name, id LIMIT 10, 5").
		WithArgs("Alice", int64(25), int64(30), `b\_`, `b\_`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "age"}).AddRow(bob.String(), "Bob", int64(25)))

	q := swiftgrid.NewQuery().
		Where(swiftgrid.Ne("Name", "Alice"), swiftgrid.In("Age", "25", 30)).
		Search("B_").
		OrderBy(swiftgrid.Desc("Age"), swiftgrid.Asc("Name")).
		WithPage(3, 5)
	result, err := repo.Fetch(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, []Contact{{Pk: bob, Name: "Bob", Age: 25}}, result.Items)
	assert.Equal(t, 12, result.TotalCount)
	assert.Equal(t, 3, result.LastPage())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLimitAndOffset(t *testing.T) {
	assert.Equal(t, "", dialect.LimitAndOffset(0, 0))
	assert.Equal(t, " LIMIT 5", dialect.LimitAndOffset(5, 0))
	assert.Equal(t, " LIMIT 10, 5", dialect.LimitAndOffset(5, 10))
	assert.Equal(t, " LIMIT 10, 18446744073709551615", dialect.LimitAndOffset(0, 10))
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "`people`", dialect.Quote("people"))
	assert.Equal(t, "`crm`.`odd``name`", dialect.Quote("crm.odd`name"))
}

func TestOpen(t *testing.T) {
	db, err := Open("grid:grid@tcp(localhost:3306)/grid")
	require.NoError(t, err)
	assert.NoError(t, db.Close())

	_, err = Open("grid:grid@tcp(localhost:3306")
	assert.Error(t, err)
}
