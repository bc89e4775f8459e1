package parse

import (
	"regexp"
	"strings"

	"github.com/leofalp/tabex/core/table"
)

// headerScanLines bounds how far into a block the header line is searched.
const headerScanLines = 10

var boundaryPattern = regexp.MustCompile(`(?i)table|inventory|properties|listings`)

// HeuristicStrategy recovers tables from loosely formatted prose. A line
// that mentions a table-like word and carries no ':', ',' or '[' starts a
// block named after it. Within a block the first delimited line among the
// first few is the header; its delimiter ('|' over tab over ',') splits the
// rows that follow. Text with no usable block is read as a single block
// named "Extracted Table".
type HeuristicStrategy struct{}

// Name implements Strategy.
func (HeuristicStrategy) Name() string { return "heuristic" }

// Extract implements Strategy.
func (HeuristicStrategy) Extract(text string) ([]table.RawTable, bool) {
	tables := ParseHeuristic(text)
	return tables, len(tables) > 0
}

// ParseHeuristic returns the tables found by the prose heuristics.
func ParseHeuristic(text string) []table.RawTable {
	lines := splitLines(text)

	var tables []table.RawTable
	for _, b := range splitBlocks(lines) {
		if t, ok := blockTable(b.name, b.lines); ok {
			tables = append(tables, t)
		}
	}

	if len(tables) == 0 {
		if t, ok := blockTable(ExtractedTableName, lines); ok {
			tables = append(tables, t)
		}
	}

	return tables
}

type block struct {
	name  string
	lines []string
}

func isBoundary(line string) bool {
	return boundaryPattern.MatchString(line) && !strings.ContainsAny(line, ":,[")
}

// splitBlocks groups lines under the boundary line that precedes them.
// Lines before the first boundary belong to no block.
func splitBlocks(lines []string) []block {
	var blocks []block
	for _, line := range lines {
		if isBoundary(line) {
			blocks = append(blocks, block{name: line})
			continue
		}
		if len(blocks) > 0 {
			last := &blocks[len(blocks)-1]
			last.lines = append(last.lines, line)
		}
	}
	return blocks
}

func blockTable(name string, lines []string) (table.RawTable, bool) {
	limit := min(len(lines), headerScanLines)

	header := -1
	delimiter := ""
	for i := 0; i < limit; i++ {
		if d := lineDelimiter(lines[i]); d != "" && !strings.ContainsAny(lines[i], "{}[]") {
			header, delimiter = i, d
			break
		}
	}
	if header < 0 {
		return table.RawTable{}, false
	}

	headers := splitDelimited(lines[header], delimiter)
	if allEmpty(headers) {
		return table.RawTable{}, false
	}

	var rows [][]string
	for _, line := range lines[header+1:] {
		if isBoundary(line) || !strings.Contains(line, delimiter) {
			continue
		}
		rows = append(rows, splitDelimited(line, delimiter))
	}
	if len(rows) == 0 {
		return table.RawTable{}, false
	}

	return table.RawTable{Name: name, Headers: headers, Data: rows}, true
}

// lineDelimiter picks the field separator of a line, or "" if it has none.
func lineDelimiter(line string) string {
	for _, d := range []string{"|", "\t", ","} {
		if strings.Contains(line, d) {
			return d
		}
	}
	return ""
}

// splitDelimited splits a header or data line into trimmed cells. Empty
// cells keep their position. Only pipe lines may carry one outer delimiter
// on each side, which is not a cell.
func splitDelimited(line, delimiter string) []string {
	if delimiter == "|" {
		line = strings.TrimPrefix(line, "|")
		line = strings.TrimSuffix(line, "|")
	}
	return splitTrim(line, delimiter)
}

func allEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
