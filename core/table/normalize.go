package table

import (
	"github.com/google/uuid"
)

// NewID returns a fresh process-unique table identifier.
func NewID() string {
	return "table-" + uuid.NewString()
}

// Normalize converts raw into a Table whose rows all have exactly
// len(raw.Headers) cells. Short rows are padded with empty strings and long
// rows lose their trailing cells. Rows and headers are never dropped or
// reordered. The returned table shares no slices with raw and carries a new ID.
func Normalize(raw RawTable) Table {
	headers := make([]string, len(raw.Headers))
	copy(headers, raw.Headers)

	return Table{
		ID:      NewID(),
		Name:    raw.Name,
		Headers: headers,
		Data:    Rectangularize(len(headers), raw.Data),
	}
}

// NormalizeAll normalizes every table in raws, preserving order.
func NormalizeAll(raws []RawTable) []Table {
	tables := make([]Table, 0, len(raws))
	for _, raw := range raws {
		tables = append(tables, Normalize(raw))
	}
	return tables
}

// Rectangularize returns a copy of rows in which every row has exactly width
// cells. It never returns nil, so an empty table encodes as [] in JSON.
func Rectangularize(width int, rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		fixed := make([]string, width)
		copy(fixed, row)
		out[i] = fixed
	}
	return out
}
