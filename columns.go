package swiftgrid

// Column defines a grid column bound to a record field.
type Column struct {
	Field        string `json:"field"`
	Title        string `json:"title"`
	Sortable     bool   `json:"sortable"`
	Visible      bool   `json:"visible"`
	Formatter    string `json:"formatter,omitempty"`
	Width        *int   `json:"width,omitempty"`
	HeaderFilter bool   `json:"headerFilter"`
	Editable     bool   `json:"editable"`
	Editor       string `json:"editor,omitempty"`
}

// NewColumn creates a visible column.
func NewColumn(field, title string) Column {
	return Column{Field: field, Title: title, Visible: true}
}

// Tabulator translates the column into a Tabulator column definition.
func (c Column) Tabulator() map[string]any {
	t := map[string]any{
		"field":      c.Field,
		"title":      c.Title,
		"headerSort": c.Sortable,
		"visible":    c.Visible,
	}
	if c.Width != nil {
		t["width"] = *c.Width
	}
	if c.Formatter != "" {
		t["formatter"] = c.Formatter
	}
	if c.HeaderFilter {
		t["headerFilter"] = "input"
	}
	if c.Editable {
		t["editable"] = true
		editor := c.Editor
		if editor == "" {
			editor = "input"
		}
		t["editor"] = editor
	}
	return t
}

// SearchFields returns fields of visible columns in the order of the columns.
// The result is meant for the global search of a grid.
func SearchFields(columns []Column) []string {
	result := make([]string, 0, len(columns))
	for _, c := range columns {
		if c.Visible && c.Field != "" {
			result = append(result, c.Field)
		}
	}
	return result
}

// CellEdited describes a change of one cell made in a grid.
type CellEdited[T any] struct {
	Field    string `json:"field"`
	Value    any    `json:"value"`
	OldValue any    `json:"oldValue"`
	Row      T      `json:"row"`
}
