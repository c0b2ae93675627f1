package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meowmeowcode/swiftgrid"
	"github.com/meowmeowcode/swiftgrid/internal/demo"
	"github.com/meowmeowcode/swiftgrid/mem"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fixture struct {
	repo   *mem.Repo[demo.Person]
	router *gin.Engine
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	columns := demo.Columns()
	repo := mem.NewRepo[demo.Person](mem.Conf{SearchFields: swiftgrid.SearchFields(columns)})
	require.NoError(t, repo.AddMany(context.Background(), demo.Seed(30)))

	size := 10
	options := swiftgrid.DefaultOptions()
	options.Pagination = true
	options.PaginationSize = &size
	options.PaginationMode = swiftgrid.PaginationRemote

	grid := &Grid[demo.Person]{
		Source:  repo,
		Editor:  repo,
		Options: options,
		Columns: columns,
		IDField: "id",
	}
	return fixture{repo: repo, router: NewRouter(Conf{CORSOrigins: []string{"*"}}, grid)}
}

func (f fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

type listResponse struct {
	LastPage int           `json:"last_page"`
	Total    int           `json:"total"`
	Data     []demo.Person `json:"data"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func ids(people []demo.Person) []int64 {
	result := make([]int64, len(people))
	for i, p := range people {
		result[i] = p.Id
	}
	return result
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRequestIDIsKept(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestNoRoute(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/nothing", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode[map[string]any](t, w)
	assert.Equal(t, "route not found", body["message"])
	assert.NotEmpty(t, body["request_id"])
}

func TestCORS(t *testing.T) {
	f := newFixture(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://grid.example.com")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestDefinition(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/grid", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[struct {
		Options map[string]any   `json:"options"`
		Columns []map[string]any `json:"columns"`
	}](t, w)
	assert.Equal(t, "remote", body.Options["paginationMode"])
	assert.Equal(t, "remote", body.Options["sortMode"])
	assert.EqualValues(t, 10, body.Options["paginationSize"])
	require.Len(t, body.Columns, len(demo.Columns()))
	assert.Equal(t, "id", body.Columns[0]["field"])
	assert.Equal(t, "input", body.Columns[1]["headerFilter"])
}

func TestListPage(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/people?page=2&size=5&sort[0][field]=age&sort[0][dir]=desc", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[listResponse](t, w)
	assert.Equal(t, 6, body.LastPage)
	assert.Equal(t, 30, body.Total)

	q := swiftgrid.NewQuery().WithPage(2, 5).OrderBy(swiftgrid.Desc("age"))
	expected, err := mem.Evaluate(demo.Seed(30), q)
	require.NoError(t, err)
	assert.Equal(t, ids(expected.Items), ids(body.Data))
}

func TestListDefaultPageSize(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/api/people", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[listResponse](t, w)
	assert.Equal(t, 3, body.LastPage)
	assert.Len(t, body.Data, 10)
	assert.Equal(t, int64(1), body.Data[0].Id)
}

func TestListFilters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		total int
	}{
		{"equal", "filter[0][field]=department&filter[0][type]==&filter[0][value]=Engineering", 6},
		{"in", "filter[0][field]=department&filter[0][type]=in&filter[0][value][]=Sales&filter[0][value][]=Finance", 12},
		{"like by default", "filter[0][field]=name&filter[0][value]=ALICE", 3},
		{"search", "search=alice", 3},
		{"unknown field", "filter[0][field]=nickname&filter[0][value]=x", 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			w := f.do(t, http.MethodGet, "/api/people?"+tt.query, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.total, decode[listResponse](t, w).Total)
		})
	}
}

func TestListBadRequests(t *testing.T) {
	queries := []string{
		"sort[0][field]=age&sort[0][dir]=up",
		"filter[0][field]=age&filter[0][type]=between&filter[0][value]=1",
		"size=-1",
		"size=0",
		"page=abc",
		"page=-2",
	}
	for _, query := range queries {
		t.Run(query, func(t *testing.T) {
			f := newFixture(t)
			w := f.do(t, http.MethodGet, "/api/people?"+query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestQuery(t *testing.T) {
	f := newFixture(t)
	payload := `{
		"Page": 1,
		"PageSize": 4,
		"Sorts": [{"Field": "age", "Direction": 1}, {"Field": "name", "Dir": "asc"}],
		"Filters": [{"Field": "age", "Operator": ">=", "Value": 40}],
		"GlobalSearch": ""
	}`
	w := f.do(t, http.MethodPost, "/api/people/query", payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[struct {
		Items      []demo.Person `json:"items"`
		TotalCount int           `json:"totalCount"`
		Page       int           `json:"page"`
		PageSize   int           `json:"pageSize"`
		LastPage   int           `json:"lastPage"`
	}](t, w)

	q := swiftgrid.NewQuery().
		WithPage(1, 4).
		OrderBy(swiftgrid.Desc("age"), swiftgrid.Asc("name")).
		Where(swiftgrid.Gte("age", 40))
	expected, err := mem.Evaluate(demo.Seed(30), q)
	require.NoError(t, err)

	assert.Equal(t, expected.TotalCount, body.TotalCount)
	assert.Equal(t, ids(expected.Items), ids(body.Items))
	assert.Equal(t, 1, body.Page)
	assert.Equal(t, 4, body.PageSize)
	assert.Equal(t, expected.LastPage(), body.LastPage)
	for _, p := range body.Items {
		assert.GreaterOrEqual(t, p.Age, int32(40))
	}
}

func TestQueryBadRequests(t *testing.T) {
	payloads := map[string]string{
		"syntax":       `{"Filters": [`,
		"unknown op":   `{"Filters": [{"Field": "age", "Op": "between", "Value": 1}]}`,
		"bad page":     `{"Page": -1}`,
		"bad size":     `{"PageSize": -5}`,
		"unpaged":      `{"PageSize": 0}`,
		"bad operator": `{"Filters": [{"Field": "age", "Operator": 99, "Value": 1}]}`,
	}
	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			w := f.do(t, http.MethodPost, "/api/people/query", payload)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func editPayload(t *testing.T, field string, value any, row demo.Person) string {
	t.Helper()
	data, err := json.Marshal(swiftgrid.CellEdited[demo.Person]{Field: field, Value: value, Row: row})
	require.NoError(t, err)
	return string(data)
}

func TestEdit(t *testing.T) {
	f := newFixture(t)
	row := demo.Seed(30)[2]
	row.Name = "Carla Kim"

	w := f.do(t, http.MethodPost, "/api/people/edit", editPayload(t, "name", row.Name, row))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Carla Kim", decode[demo.Person](t, w).Name)

	stored, err := f.repo.Get(context.Background(), swiftgrid.Eq("id", int64(3)))
	require.NoError(t, err)
	assert.Equal(t, "Carla Kim", stored.Name)

	n, err := f.repo.CountAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 30, n)
}

func TestEditKeepsOtherFields(t *testing.T) {
	f := newFixture(t)
	original := demo.Seed(30)[2]
	row := original
	row.Name = "Carla Kim"
	row.Salary = decimal.NewFromInt(999999)
	row.Department = "Board"

	w := f.do(t, http.MethodPost, "/api/people/edit", editPayload(t, "name", row.Name, row))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	response := decode[demo.Person](t, w)
	assert.Equal(t, "Carla Kim", response.Name)
	assert.True(t, original.Salary.Equal(response.Salary), response.Salary.String())

	stored, err := f.repo.Get(context.Background(), swiftgrid.Eq("id", original.Id))
	require.NoError(t, err)
	assert.Equal(t, "Carla Kim", stored.Name)
	assert.True(t, original.Salary.Equal(stored.Salary), stored.Salary.String())
	assert.Equal(t, original.Department, stored.Department)
}

func TestEditErrors(t *testing.T) {
	row := demo.Seed(30)[0]
	missing := row
	missing.Id = 1000

	tests := []struct {
		name    string
		payload string
		status  int
	}{
		{"unknown record", editPayload(t, "name", "x", missing), http.StatusNotFound},
		{"field is not editable", editPayload(t, "salary", "1", row), http.StatusBadRequest},
		{"invalid payload", `{"field": "name", "row": [}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			w := f.do(t, http.MethodPost, "/api/people/edit", tt.payload)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestEditReadOnly(t *testing.T) {
	repo := mem.NewRepo[demo.Person](mem.Conf{})
	grid := &Grid[demo.Person]{
		Source:  repo,
		Options: swiftgrid.DefaultOptions(),
		Columns: demo.Columns(),
		IDField: "id",
	}
	router := NewRouter(Conf{}, grid)

	row := demo.Seed(1)[0]
	req := httptest.NewRequest(http.MethodPost, "/api/people/edit", strings.NewReader(editPayload(t, "name", "x", row)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
