package entities

import "strings"

// RawTable is one tabular dataset exactly as retrieved from the source:
// a header row plus string-typed cells. Normalization into typed records
// happens downstream.
type RawTable struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// ColumnIndex returns the position of the named column. Header cells are
// matched after trimming whitespace, mirroring how the source spreadsheets
// pad their headers.
func (t *RawTable) ColumnIndex(name string) (int, bool) {
	for i, col := range t.Columns {
		if strings.TrimSpace(col) == name {
			return i, true
		}
	}
	return 0, false
}

// Cell returns the trimmed cell at (row, col), or "" when the row is ragged
func (t *RawTable) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// RawTableSet bundles the three financial source tables of one snapshot
type RawTableSet struct {
	Offers   RawTable `json:"offers"`
	Absences RawTable `json:"absences"`
	Rates    RawTable `json:"rates"`
}
