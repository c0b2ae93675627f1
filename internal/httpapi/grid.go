package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/meowmeowcode/swiftgrid"
	"github.com/meowmeowcode/swiftgrid/fields"
)

// Editor applies cell edits. It's implemented by mem.Repo.
type Editor[T any] interface {
	Get(ctx context.Context, f swiftgrid.Filter) (T, error)
	Update(ctx context.Context, f swiftgrid.Filter, record T) error
}

// Grid serves records of type T to a grid.
type Grid[T any] struct {
	Source  swiftgrid.Source[T]
	Editor  Editor[T] // nil when records can't be edited
	Options swiftgrid.Options
	Columns []swiftgrid.Column
	IDField string // field identifying a record in cell edits
}

func (g *Grid[T]) pageSize() int {
	if g.Options.Pagination && g.Options.PaginationSize != nil {
		return *g.Options.PaginationSize
	}
	return swiftgrid.DefaultPageSize
}

// Definition responds with Tabulator options and columns.
func (g *Grid[T]) Definition(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"options": g.Options.Tabulator(),
		"columns": g.Options.TabulatorColumns(g.Columns),
	})
}

// List answers a Tabulator request made in remote pagination mode.
func (g *Grid[T]) List(c *gin.Context) {
	q, err := ParseTabulatorQuery(c.Request.URL.Query(), g.pageSize())
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid query", err)
		return
	}
	result, ok := g.fetch(c, q)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"last_page": result.LastPage(),
		"total":     result.TotalCount,
		"data":      result.Items,
	})
}

type queryResponse[T any] struct {
	swiftgrid.Result[T]
	LastPage int `json:"lastPage"`
}

// Query answers a query state posted as JSON. Unpaged queries are rejected.
func (g *Grid[T]) Query(c *gin.Context) {
	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "cannot read body", err)
		return
	}
	q, err := DecodeQuery(data)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid query", err)
		return
	}
	if !q.Paged() {
		RespondError(c, http.StatusBadRequest, "invalid query", swiftgrid.ErrInvalidPageSize)
		return
	}
	result, ok := g.fetch(c, q)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, queryResponse[T]{Result: result, LastPage: result.LastPage()})
}

func (g *Grid[T]) fetch(c *gin.Context, q swiftgrid.Query) (swiftgrid.Result[T], bool) {
	result, err := g.Source.Fetch(c.Request.Context(), q)
	switch {
	case errors.Is(err, swiftgrid.ErrInvalidPage), errors.Is(err, swiftgrid.ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "invalid query", err)
		return result, false
	case err != nil:
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "cannot fetch records", err)
		return result, false
	}
	return result, true
}

// Edit applies a cell edit. Only the edited field is taken from the row;
// the rest of the record stays as stored. The response is the stored record.
func (g *Grid[T]) Edit(c *gin.Context) {
	if g.Editor == nil {
		RespondError(c, http.StatusNotImplemented, "records are read-only", nil)
		return
	}
	var edit swiftgrid.CellEdited[T]
	if err := c.ShouldBindJSON(&edit); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid payload", err)
		return
	}
	if !g.editable(edit.Field) {
		RespondError(c, http.StatusBadRequest, "field is not editable", nil)
		return
	}
	schema := fields.For[T]()
	field, ok := schema.Lookup(edit.Field)
	if !ok {
		RespondError(c, http.StatusBadRequest, "field is not editable", nil)
		return
	}
	idField, ok := schema.Lookup(g.IDField)
	if !ok {
		RespondError(c, http.StatusInternalServerError, "grid has no id field", nil)
		return
	}
	id := idField.Get(edit.Row)
	if id == nil {
		RespondError(c, http.StatusBadRequest, "row has no id", nil)
		return
	}

	ctx := c.Request.Context()
	byID := swiftgrid.Eq(g.IDField, id)
	record, err := g.Editor.Get(ctx, byID)
	if !editorOK(c, err) {
		return
	}
	if !field.Copy(&record, edit.Row) {
		RespondError(c, http.StatusBadRequest, "field can't be set", nil)
		return
	}
	if !editorOK(c, g.Editor.Update(ctx, byID, record)) {
		return
	}
	c.JSON(http.StatusOK, record)
}

func editorOK(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, swiftgrid.ErrNotFound):
		RespondError(c, http.StatusNotFound, "record not found", err)
		return false
	case err != nil:
		_ = c.Error(err)
		RespondError(c, http.StatusInternalServerError, "cannot update record", err)
		return false
	}
	return true
}

func (g *Grid[T]) editable(field string) bool {
	for _, col := range g.Columns {
		if col.Editable && strings.EqualFold(col.Field, field) {
			return true
		}
	}
	return false
}
