// Package tabular reads uploaded shift and transaction exports into an
// ordered sequence of rows keyed by column name. It handles delimited text
// (.dat/.csv) and spreadsheet (.xlsx/.xls) files and the concatenation of
// multi-file upload batches.
package tabular

import "errors"

// ErrNoRows is returned when a batch produced zero rows across all files.
var ErrNoRows = errors.New("no rows parsed from uploaded files")

// Row is one parsed record. Cells maps column name to the raw cell value as
// a string; numeric spreadsheet cells keep their serial form and are decoded
// later. FileIndex/RowIndex give the row a stable position for re-identifying
// it when a saved column template or selection is restored.
type Row struct {
	SourceFile string
	FileIndex  int
	RowIndex   int
	Cells      map[string]string
}

// Get returns the raw value for a column, or "" when the row has no cell
// under that name.
func (r Row) Get(column string) string {
	return r.Cells[column]
}

// Table is the combined result of parsing one upload batch. Columns holds
// every distinct column name in first-seen order across all files; it drives
// table rendering in the report builder.
type Table struct {
	Rows    []Row
	Columns []string
}

func (t *Table) addColumns(names []string) {
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		seen[c] = true
	}
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		t.Columns = append(t.Columns, n)
	}
}

// RowMaps returns the row data as plain maps, the form persisted on report
// records.
func (t *Table) RowMaps() []map[string]string {
	out := make([]map[string]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Cells
	}
	return out
}
