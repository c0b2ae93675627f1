// Package demo contains sample records shown by the swiftgrid binary.
package demo

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meowmeowcode/swiftgrid"
)

// Person is a record of the demo grid.
type Person struct {
	Id         int64           `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Department string          `json:"department"`
	Age        int32           `json:"age"`
	Salary     decimal.Decimal `json:"salary"`
	Key        uuid.UUID       `json:"key"`
	JoinedAt   time.Time       `json:"joinedAt"`
	Active     bool            `json:"active"`
}

var (
	firstNames  = []string{"Alice", "Bob", "Carl", "Diana", "Eve", "Frank", "Grace", "Heidi", "Ivan", "Judy", "Mallory", "Olivia"}
	lastNames   = []string{"Kim", "Lee", "Park", "Choi", "Jung", "Kang", "Cho", "Yoon"}
	departments = []string{"Engineering", "Sales", "Marketing", "Finance", "Support"}

	namespace = uuid.MustParse("9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")
	epoch     = time.Date(2015, time.January, 5, 9, 0, 0, 0, time.UTC)
)

// Seed generates n people. The result only depends on n.
func Seed(n int) []Person {
	people := make([]Person, 0, n)
	for i := 0; i < n; i++ {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames))%len(lastNames)]
		id := int64(i + 1)
		people = append(people, Person{
			Id:         id,
			Name:       first + " " + last,
			Email:      fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), id),
			Department: departments[(i*3)%len(departments)],
			Age:        int32(22 + (i*7)%41),
			Salary:     decimal.NewFromInt(int64(3000 + (i*137)%5000)).Add(decimal.New(int64(i%4)*25, -2)),
			Key:        uuid.NewSHA1(namespace, []byte(fmt.Sprint(id))),
			JoinedAt:   epoch.AddDate(0, 0, i*11),
			Active:     i%4 != 3,
		})
	}
	return people
}

// Columns returns columns of the demo grid.
func Columns() []swiftgrid.Column {
	width := 80
	id := swiftgrid.NewColumn("id", "ID")
	id.Sortable = true
	id.Width = &width

	name := editable(swiftgrid.NewColumn("name", "Name"))
	name.HeaderFilter = true

	email := editable(swiftgrid.NewColumn("email", "Email"))

	department := editable(swiftgrid.NewColumn("department", "Department"))
	department.HeaderFilter = true

	age := editable(swiftgrid.NewColumn("age", "Age"))
	age.Editor = "number"

	salary := swiftgrid.NewColumn("salary", "Salary")
	salary.Sortable = true
	salary.Formatter = "money"

	joined := swiftgrid.NewColumn("joinedAt", "Joined")
	joined.Sortable = true
	joined.Formatter = "datetime"

	active := swiftgrid.NewColumn("active", "Active")
	active.Sortable = true
	active.Formatter = "tickCross"

	key := swiftgrid.NewColumn("key", "Key")
	key.Visible = false

	return []swiftgrid.Column{id, name, email, department, age, salary, joined, active, key}
}

func editable(c swiftgrid.Column) swiftgrid.Column {
	c.Sortable = true
	c.Editable = true
	return c
}

// Mapping maps fields of [Person] to columns of the people table.
func Mapping() map[string]string {
	return map[string]string{
		"Id":         "id",
		"Name":       "name",
		"Email":      "email",
		"Department": "department",
		"Age":        "age",
		"Salary":     "salary",
		"Key":        "person_key",
		"JoinedAt":   "joined_at",
		"Active":     "active",
	}
}

// Values returns column values of a person in the order of [Columns] of the table.
func Values(p Person) []any {
	return []any{p.Id, p.Name, p.Email, p.Department, p.Age, p.Salary, p.Key, p.JoinedAt, p.Active}
}

// TableColumns lists columns of the people table in the order of [Person] fields.
var TableColumns = []string{"id", "name", "email", "department", "age", "salary", "person_key", "joined_at", "active"}

var schemas = map[string]string{
	"sqlite3": `CREATE TABLE IF NOT EXISTS %s (
    id integer PRIMARY KEY,
    name text NOT NULL,
    email text NOT NULL,
    department text NOT NULL,
    age integer NOT NULL,
    salary decimal NOT NULL,
    person_key text NOT NULL,
    joined_at timestamp NOT NULL,
    active boolean NOT NULL
)`,
	"mysql": `CREATE TABLE IF NOT EXISTS %s (
    id bigint PRIMARY KEY,
    name varchar(100) NOT NULL,
    email varchar(200) NOT NULL,
    department varchar(100) NOT NULL,
    age int NOT NULL,
    salary decimal(12, 2) NOT NULL,
    person_key char(36) NOT NULL,
    joined_at datetime NOT NULL,
    active boolean NOT NULL
)`,
	"postgres": `CREATE TABLE IF NOT EXISTS %s (
    id bigint PRIMARY KEY,
    name text NOT NULL,
    email text NOT NULL,
    department text NOT NULL,
    age integer NOT NULL,
    salary numeric(12, 2) NOT NULL,
    person_key uuid NOT NULL,
    joined_at timestamptz NOT NULL,
    active boolean NOT NULL
)`,
	"clickhouse": `CREATE TABLE IF NOT EXISTS %s (
    id Int64,
    name String,
    email String,
    department String,
    age Int32,
    salary Decimal(12, 2),
    person_key UUID,
    joined_at DateTime64(3, 'UTC'),
    active Bool
) ENGINE = MergeTree ORDER BY id`,
}

// Schema returns a statement creating the people table for a driver.
func Schema(driver, table string) (string, error) {
	s, ok := schemas[driver]
	if !ok {
		return "", fmt.Errorf("no schema for driver %q", driver)
	}
	return fmt.Sprintf(s, table), nil
}
