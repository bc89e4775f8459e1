package table

// RawTable is a table as recovered by a parsing strategy, before
// normalization. Rows may have a different number of cells than Headers.
type RawTable struct {
	Name    string     `json:"name,omitempty"`
	Headers []string   `json:"headers"`
	Data    [][]string `json:"data"`
}

// HasHeaders reports whether the table carries at least one header.
func (r RawTable) HasHeaders() bool {
	return len(r.Headers) > 0
}

// Table is a normalized table: every row in Data has len(Headers) cells.
type Table struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Headers []string   `json:"headers"`
	Data    [][]string `json:"data"`
}

// Raw returns a RawTable view of t. Slices are copied so the result can be
// handed to another parser or normalized again without aliasing t.
func (t Table) Raw() RawTable {
	return RawTable{
		Name:    t.Name,
		Headers: append([]string(nil), t.Headers...),
		Data:    copyRows(t.Data),
	}
}

// Width returns the number of columns of the table.
func (t Table) Width() int {
	return len(t.Headers)
}

func copyRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}
