package swiftgrid

import (
	"errors"
	"reflect"
	"testing"
)

func intPtr(i int) *int {
	return &i
}

func boolPtr(b bool) *bool {
	return &b
}

func TestDefaultOptionsAreValid(t *testing.T) {
	if err := DefaultOptions().Validate(); err != nil {
		t.Fatal(err)
	}
	if err := (Options{}).Validate(); err != nil {
		t.Fatal(err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := map[string]Options{
		"zero pagination size": {Pagination: true, PaginationSize: intPtr(0)},
		"negative size":        {Pagination: true, PaginationSize: intPtr(-5)},
		"pagination mode":      {PaginationMode: "server"},
		"button count":         {PaginationButtonCount: intPtr(0)},
		"layout":               {Layout: "fitEverything"},
	}
	for name, o := range tests {
		if err := o.Validate(); !errors.Is(err, ErrInvalidOptions) {
			t.Fatalf("%s: %v != %v", name, err, ErrInvalidOptions)
		}
	}

	o := Options{Pagination: false, PaginationSize: intPtr(0)}
	if err := o.Validate(); err != nil {
		t.Fatalf("size of disabled pagination is validated: %v", err)
	}
}

func TestOptionsTabulator(t *testing.T) {
	o := DefaultOptions()
	o.Height = "400px"
	o.Pagination = true
	o.PaginationMode = PaginationRemote
	o.PaginationSize = intPtr(25)
	o.PaginationCounter = boolPtr(true)
	o.PaginationButtonCount = intPtr(5)
	o.Clipboard = "copy"

	expected := map[string]any{
		"layout":                "fitColumns",
		"height":                "400px",
		"selectable":            1,
		"history":               false,
		"pagination":            true,
		"paginationMode":        "remote",
		"sortMode":              "remote",
		"filterMode":            "remote",
		"paginationSize":        25,
		"paginationCounter":     "rows",
		"paginationButtonCount": 5,
		"clipboard":             "copy",
		"clipboardCopyRowRange": "selected",
	}
	if got := o.Tabulator(); !reflect.DeepEqual(got, expected) {
		t.Fatalf("%v != %v", got, expected)
	}
	if !o.Remote() {
		t.Fatal("options are not remote")
	}
}

func TestOptionsTabulatorWithoutPagination(t *testing.T) {
	o := Options{PaginationSize: intPtr(25), PaginationCounter: boolPtr(false)}
	got := o.Tabulator()
	for _, key := range []string{"pagination", "paginationSize", "paginationCounter", "height", "clipboard"} {
		if _, ok := got[key]; ok {
			t.Fatalf("unexpected option %s", key)
		}
	}
	if got["layout"] != "fitColumns" || got["clipboardCopyRowRange"] != "selected" {
		t.Fatalf("defaults are not applied: %v", got)
	}
	if o.Remote() {
		t.Fatal("options are remote")
	}
}

func TestOptionsTabulatorColumns(t *testing.T) {
	name := NewColumn("name", "Name")
	name.Sortable = true
	name.HeaderFilter = true
	age := NewColumn("age", "Age")
	age.Width = intPtr(80)
	age.Editable = true

	o := DefaultOptions()
	columns := o.TabulatorColumns([]Column{name, age})
	if len(columns) != 2 {
		t.Fatalf("%v != %v", len(columns), 2)
	}
	expected := map[string]any{
		"field":        "name",
		"title":        "Name",
		"headerSort":   true,
		"visible":      true,
		"headerFilter": "input",
	}
	if !reflect.DeepEqual(columns[0], expected) {
		t.Fatalf("%v != %v", columns[0], expected)
	}
	if columns[1]["width"] != 80 || columns[1]["editor"] != "input" || columns[1]["editable"] != true {
		t.Fatalf("unexpected column %v", columns[1])
	}

	o.EnableRowSelectionCheckbox = true
	o.RowSelectionRange = "visible"
	columns = o.TabulatorColumns([]Column{name, age})
	if len(columns) != 3 {
		t.Fatalf("%v != %v", len(columns), 3)
	}
	if columns[0]["formatter"] != "rowSelection" {
		t.Fatalf("%v != %v", columns[0]["formatter"], "rowSelection")
	}
	params := columns[0]["formatterParams"].(map[string]any)
	if params["rowRange"] != "visible" {
		t.Fatalf("%v != %v", params["rowRange"], "visible")
	}
}

func TestSearchFields(t *testing.T) {
	hidden := NewColumn("email", "Email")
	hidden.Visible = false
	columns := []Column{NewColumn("name", "Name"), hidden, {Title: "Actions", Visible: true}, NewColumn("age", "Age")}
	got := SearchFields(columns)
	if !reflect.DeepEqual(got, []string{"name", "age"}) {
		t.Fatalf("%v != %v", got, []string{"name", "age"})
	}
}
