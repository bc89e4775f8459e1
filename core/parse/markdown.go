package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leofalp/tabex/core/table"
)

var (
	separatorCellPattern = regexp.MustCompile(`^:?-+:?$`)
	boldLinePattern      = regexp.MustCompile(`^(?:\*\*|__)(.+?)(?:\*\*|__):?$`)
)

// MarkdownStrategy recovers pipe tables: a header line, a separator line of
// dashes (with optional alignment colons), and the following pipe rows. A
// Markdown heading, a bold line or a table keyword line right above the
// table names it; other tables are named "Table N".
type MarkdownStrategy struct{}

// Name implements Strategy.
func (MarkdownStrategy) Name() string { return "markdown" }

// Extract implements Strategy.
func (MarkdownStrategy) Extract(text string) ([]table.RawTable, bool) {
	tables := ParseMarkdownTables(text)
	return tables, len(tables) > 0
}

// ParseMarkdownTables returns every pipe table found in text, in order.
func ParseMarkdownTables(text string) []table.RawTable {
	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	var tables []table.RawTable
	for i := 0; i+1 < len(lines); i++ {
		if !strings.Contains(lines[i], "|") || !isSeparatorLine(lines[i+1]) {
			continue
		}

		t := table.RawTable{
			Name:    markdownTableName(lines, i),
			Headers: splitPipeRow(lines[i]),
		}
		if t.Name == "" {
			t.Name = fmt.Sprintf("Table %d", len(tables)+1)
		}

		j := i + 2
		for ; j < len(lines) && strings.Contains(lines[j], "|"); j++ {
			t.Data = append(t.Data, splitPipeRow(lines[j]))
		}

		tables = append(tables, t)
		i = j - 1
	}

	return tables
}

func isSeparatorLine(line string) bool {
	if !strings.Contains(line, "-") {
		return false
	}
	cells := splitPipeRow(line)
	if len(cells) == 0 {
		return false
	}
	for _, cell := range cells {
		if !separatorCellPattern.MatchString(strings.ReplaceAll(cell, " ", "")) {
			return false
		}
	}
	return true
}

// splitPipeRow splits a pipe row into trimmed cells. Outer pipes are
// optional and an escaped pipe (\|) stays inside its cell.
func splitPipeRow(line string) []string {
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "|")
	if strings.HasSuffix(line, "|") && !strings.HasSuffix(line, `\|`) {
		line = line[:len(line)-1]
	}

	var (
		cells []string
		cell  strings.Builder
	)
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '|':
			cell.WriteByte('|')
			i++
		case line[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(line[i])
		}
	}
	return append(cells, strings.TrimSpace(cell.String()))
}

// markdownTableName looks at the nearest non-blank line above the header: a
// heading, a bold line or a keyword line as the heuristics see it.
func markdownTableName(lines []string, header int) string {
	for k := header - 1; k >= 0; k-- {
		line := lines[k]
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
		if m := boldLinePattern.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}
		if isBoundary(line) {
			return line
		}
		return ""
	}
	return ""
}
