package models

// TotalRowLabel is the first cell of the daily total row. Renderers test for it
// to style the row differently.
const TotalRowLabel = "TOTAL"

// TableDescriptor is a display-ready table built from an analytics payload
type TableDescriptor struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// IsTotalRow reports whether row is the daily total row
func IsTotalRow(row []string) bool {
	return len(row) > 0 && row[0] == TotalRowLabel
}
