package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const people = `[
	{"name": "Alice", "age": 34, "dept": "Sales"},
	{"name": "Bob", "age": 25, "dept": "Engineering"},
	{"name": "Carl", "age": 41, "dept": "Sales"},
	{"name": "Diana", "age": 29, "dept": "Finance"}
]`

type output struct {
	Items      []map[string]any `json:"items"`
	TotalCount int              `json:"totalCount"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	LastPage   int              `json:"lastPage"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func names(o output) []string {
	result := make([]string, len(o.Items))
	for i, item := range o.Items {
		result[i] = item["name"].(string)
	}
	return result
}

func runQueryCmd(t *testing.T, stdin string, args ...string) (output, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newQueryCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		return output{}, err
	}
	var o output
	require.NoError(t, json.Unmarshal(out.Bytes(), &o), out.String())
	return o, nil
}

func TestQueryFromStdin(t *testing.T) {
	data := writeFile(t, "people.json", people)
	query := `{
		"PageSize": 2,
		"Sorts": [{"Field": "age", "Dir": "desc"}],
		"Filters": [{"Field": "age", "Op": "gte", "Value": 29}]
	}`

	o, err := runQueryCmd(t, query, "--data", data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Carl", "Alice"}, names(o))
	assert.Equal(t, 3, o.TotalCount)
	assert.Equal(t, 1, o.Page)
	assert.Equal(t, 2, o.PageSize)
	assert.Equal(t, 2, o.LastPage)
}

func TestQueryFromFile(t *testing.T) {
	data := writeFile(t, "people.json", people)
	query := writeFile(t, "query.json", `{"GlobalSearch": "SALES", "Sorts": [{"Field": "name", "Dir": "desc"}]}`)

	o, err := runQueryCmd(t, "", "--data", data, "--query", query)
	require.NoError(t, err)
	assert.Equal(t, []string{"Carl", "Alice"}, names(o))
}

func TestQuerySearchFields(t *testing.T) {
	data := writeFile(t, "people.json", people)

	o, err := runQueryCmd(t, `{"GlobalSearch": "sales"}`, "--data", data, "--search-fields", "name")
	require.NoError(t, err)
	assert.NotNil(t, o.Items)
	assert.Empty(t, o.Items)
	assert.Equal(t, 0, o.TotalCount)
	assert.Equal(t, 1, o.LastPage)
}

func TestQueryErrors(t *testing.T) {
	data := writeFile(t, "people.json", people)
	notArray := writeFile(t, "object.json", `{"name": "Alice"}`)

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"missing data flag", `{}`, []string{}},
		{"both from stdin", `{}`, []string{"--data", "-"}},
		{"missing data file", `{}`, []string{"--data", filepath.Join(t.TempDir(), "nothing.json")}},
		{"data is not an array", `{}`, []string{"--data", notArray}},
		{"invalid query", `{"Filters": [{"Field": "age", "Op": "between"}]}`, []string{"--data", data}},
		{"negative page", `{"Page": -1}`, []string{"--data", data}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runQueryCmd(t, tt.stdin, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestKeys(t *testing.T) {
	records := []record{
		{"name": "Alice", "age": 34},
		{"dept": "Sales", "name": "Bob"},
	}
	assert.Equal(t, []string{"age", "dept", "name"}, keys(records))
	assert.Empty(t, keys(nil))
}
