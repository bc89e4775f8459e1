package parse

import (
	"fmt"
	"strings"

	"github.com/leofalp/tabex/core/table"
)

// Line prefixes of the pipe-delimited protocol.
const (
	PrefixTable   = "TABLE:"
	PrefixHeaders = "HEADERS:"
	PrefixRow     = "ROW:"

	// ProtocolDelimiter separates fields on HEADERS: and ROW: lines.
	ProtocolDelimiter = "|"
)

// ProtocolStrategy parses the line protocol
//
//	TABLE: <name>
//	HEADERS: h1 | h2 | ...
//	ROW: v1 | v2 | ...
//
// A TABLE: line opens a new table and closes the previous one. A blank name
// becomes "Unnamed Table N", N counting unnamed tables from 1. HEADERS: and
// ROW: lines outside a table, and every other line, are ignored. A table is
// emitted only if it has at least one header.
type ProtocolStrategy struct{}

// Name implements Strategy.
func (ProtocolStrategy) Name() string { return "protocol" }

// Extract implements Strategy.
func (ProtocolStrategy) Extract(text string) ([]table.RawTable, bool) {
	tables := ParseProtocol(text)
	return tables, len(tables) > 0
}

// ParseProtocol returns every table of text that has headers, in order.
func ParseProtocol(text string) []table.RawTable {
	var (
		tables  []table.RawTable
		current *table.RawTable
		unnamed int
	)

	emit := func() {
		if current != nil && current.HasHeaders() {
			tables = append(tables, *current)
		}
	}

	for _, line := range splitLines(text) {
		switch {
		case strings.HasPrefix(line, PrefixTable):
			emit()

			name := strings.TrimSpace(line[len(PrefixTable):])
			if name == "" {
				unnamed++
				name = fmt.Sprintf("Unnamed Table %d", unnamed)
			}
			current = &table.RawTable{Name: name}

		case current == nil:
			// HEADERS: and ROW: lines need an open table.

		case strings.HasPrefix(line, PrefixHeaders):
			rest := strings.TrimSpace(line[len(PrefixHeaders):])
			if rest == "" {
				current.Headers = nil
				continue
			}
			current.Headers = splitTrim(rest, ProtocolDelimiter)

		case strings.HasPrefix(line, PrefixRow):
			rest := strings.TrimSpace(line[len(PrefixRow):])
			current.Data = append(current.Data, splitTrim(rest, ProtocolDelimiter))
		}
	}

	emit()
	return tables
}

// FormatProtocol serializes tables to the line protocol, separating tables
// with a blank line. Cells containing "|" or line breaks cannot be
// represented and will not survive a round trip.
func FormatProtocol(tables []table.Table) string {
	var b strings.Builder
	for i, t := range tables {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(PrefixTable + " " + t.Name + "\n")
		b.WriteString(PrefixHeaders + " " + strings.Join(t.Headers, " "+ProtocolDelimiter+" ") + "\n")
		for _, row := range t.Data {
			b.WriteString(PrefixRow + " " + strings.Join(row, " "+ProtocolDelimiter+" ") + "\n")
		}
	}
	return b.String()
}
