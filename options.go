package swiftgrid

import (
	"errors"
	"fmt"
	"slices"
)

var ErrInvalidOptions = errors.New("invalid grid options")

const (
	PaginationLocal  = "local"
	PaginationRemote = "remote"
)

// Layouts supported by the grid.
var Layouts = []string{"fitColumns", "fitData", "fitDataFill", "fitDataStretch", "fitDataTable"}

// Options configures a grid.
//
// Height is a CSS value such as "400px". Selectable 0 disables row selection.
// Clipboard is true, false, "copy" or "paste".
type Options struct {
	Layout                     string `json:"layout" mapstructure:"layout"`
	Height                     string `json:"height,omitempty" mapstructure:"height"`
	Selectable                 int    `json:"selectable" mapstructure:"selectable"`
	Pagination                 bool   `json:"pagination" mapstructure:"pagination"`
	PaginationSize             *int   `json:"paginationSize,omitempty" mapstructure:"pagination_size"`
	PaginationMode             string `json:"paginationMode" mapstructure:"pagination_mode"`
	PaginationCounter          *bool  `json:"paginationCounter,omitempty" mapstructure:"pagination_counter"`
	PaginationSizeSelector     *bool  `json:"paginationSizeSelector,omitempty" mapstructure:"pagination_size_selector"`
	PaginationButtonCount      *int   `json:"paginationButtonCount,omitempty" mapstructure:"pagination_button_count"`
	History                    bool   `json:"history" mapstructure:"history"`
	EditTriggerEvent           string `json:"editTriggerEvent,omitempty" mapstructure:"edit_trigger_event"`
	Clipboard                  any    `json:"clipboard,omitempty" mapstructure:"clipboard"`
	ClipboardCopyRowRange      string `json:"clipboardCopyRowRange,omitempty" mapstructure:"clipboard_copy_row_range"`
	EnableRowSelectionCheckbox bool   `json:"enableRowSelectionCheckbox" mapstructure:"enable_row_selection_checkbox"`
	RowSelectionRange          string `json:"rowSelectionRange,omitempty" mapstructure:"row_selection_range"`
	EnableRowContextMenu       bool   `json:"enableRowContextMenu" mapstructure:"enable_row_context_menu"`
}

// DefaultOptions returns options with default values.
func DefaultOptions() Options {
	return Options{
		Layout:                "fitColumns",
		Selectable:            1,
		PaginationMode:        PaginationLocal,
		ClipboardCopyRowRange: "selected",
		RowSelectionRange:     "active",
	}
}

// Validate checks the options and returns an error wrapping [ErrInvalidOptions].
func (o Options) Validate() error {
	if o.Pagination && o.PaginationSize != nil && *o.PaginationSize <= 0 {
		return fmt.Errorf("%w: pagination size must be greater than 0 when pagination is enabled", ErrInvalidOptions)
	}
	if o.PaginationMode != "" && o.PaginationMode != PaginationLocal && o.PaginationMode != PaginationRemote {
		return fmt.Errorf("%w: pagination mode must be either %q or %q, got %q",
			ErrInvalidOptions, PaginationLocal, PaginationRemote, o.PaginationMode)
	}
	if o.PaginationButtonCount != nil && *o.PaginationButtonCount < 1 {
		return fmt.Errorf("%w: pagination button count must be at least 1", ErrInvalidOptions)
	}
	if o.Layout != "" && !slices.Contains(Layouts, o.Layout) {
		return fmt.Errorf("%w: unknown layout %q", ErrInvalidOptions, o.Layout)
	}
	return nil
}

// Remote reports whether pagination, sorting and filtering happen on a server.
func (o Options) Remote() bool {
	return o.Pagination && o.PaginationMode == PaginationRemote
}

// Tabulator translates the options into a Tabulator option object.
func (o Options) Tabulator() map[string]any {
	t := map[string]any{
		"layout":     o.Layout,
		"selectable": o.Selectable,
		"history":    o.History,
	}
	if o.Layout == "" {
		t["layout"] = "fitColumns"
	}
	if o.Height != "" {
		t["height"] = o.Height
	}

	if o.Pagination {
		t["pagination"] = true
		mode := o.PaginationMode
		if mode == "" {
			mode = PaginationLocal
		}
		t["paginationMode"] = mode
		if mode == PaginationRemote {
			t["sortMode"] = PaginationRemote
			t["filterMode"] = PaginationRemote
		}
		if o.PaginationSize != nil {
			t["paginationSize"] = *o.PaginationSize
		}
		if o.PaginationCounter != nil {
			if *o.PaginationCounter {
				t["paginationCounter"] = "rows"
			} else {
				t["paginationCounter"] = false
			}
		}
		if o.PaginationSizeSelector != nil {
			t["paginationSizeSelector"] = *o.PaginationSizeSelector
		}
		if o.PaginationButtonCount != nil {
			t["paginationButtonCount"] = *o.PaginationButtonCount
		}
	}

	if o.EditTriggerEvent != "" {
		t["editTriggerEvent"] = o.EditTriggerEvent
	}
	if o.Clipboard != nil {
		t["clipboard"] = o.Clipboard
	}
	t["clipboardCopyRowRange"] = o.ClipboardCopyRowRange
	if o.ClipboardCopyRowRange == "" {
		t["clipboardCopyRowRange"] = "selected"
	}
	return t
}

// TabulatorColumns translates column definitions and prepends
// a checkbox column when row selection by checkbox is enabled.
func (o Options) TabulatorColumns(columns []Column) []map[string]any {
	result := make([]map[string]any, 0, len(columns)+1)
	if o.EnableRowSelectionCheckbox {
		result = append(result, selectionColumn(o.RowSelectionRange))
	}
	for _, c := range columns {
		result = append(result, c.Tabulator())
	}
	return result
}

func selectionColumn(rowRange string) map[string]any {
	if rowRange == "" {
		rowRange = "active"
	}
	params := map[string]any{"rowRange": rowRange}
	return map[string]any{
		"formatter":            "rowSelection",
		"titleFormatter":       "rowSelection",
		"formatterParams":      params,
		"titleFormatterParams": params,
		"headerSort":           false,
		"hozAlign":             "center",
		"vertAlign":            "middle",
		"headerHozAlign":       "center",
		"headerVertAlign":      "middle",
		"width":                50,
		"frozen":               true,
		"resizable":            false,
	}
}
