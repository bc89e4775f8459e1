package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/leofalp/tabex/core/table"
)

const (
	// SingleTableName names a table given in the flat {headers, data} schema
	// without a name.
	SingleTableName = "Real Estate Inventory"

	// ExtractedTableName names tables synthesized from loose structure.
	ExtractedTableName = "Extracted Table"
)

var (
	// objectPattern is greedy: it spans from the first '{' to the last '}'.
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)

	tablesKeyPattern = regexp.MustCompile(`"tables"\s*:\s*\[`)

	tableFragmentPattern = regexp.MustCompile(
		`\{\s*"name"\s*:\s*("(?:[^"\\]|\\.)*")\s*,` +
			`\s*"headers"\s*:\s*(\[[^\[\]]*\])\s*,` +
			`\s*"data"\s*:\s*(\[\s*(?:\[[^\[\]]*\]\s*,?\s*)*\])`)

	stringArrayPattern = regexp.MustCompile(
		`\[\s*"(?:[^"\\]|\\.)*"(?:\s*,\s*"(?:[^"\\]|\\.)*")*\s*\]`)
)

// JSONStrategy recovers tables from JSON-ish model output. It tries four
// methods in order and returns the first that yields a table with headers:
//
//  1. direct parse of the outermost {...} span after removing code fences
//     and control characters, repairing near-valid JSON if needed;
//  2. isolation of the "tables" array, parsed on its own;
//  3. per-table {"name","headers","data"} fragments, each parsed locally;
//  4. bare arrays of strings: the first is the header row, the rest are rows.
type JSONStrategy struct{}

// Name implements Strategy.
func (JSONStrategy) Name() string { return "json" }

// Extract implements Strategy.
func (JSONStrategy) Extract(text string) ([]table.RawTable, bool) {
	methods := []func(string) []table.RawTable{
		parseDirect,
		parseTablesArray,
		parseTableFragments,
		parseBareArrays,
	}

	for _, method := range methods {
		if tables := withHeaders(method(text)); len(tables) > 0 {
			return tables, true
		}
	}

	return nil, false
}

// parseDirect is method 1. It accepts {"tables":[...]} as well as the flat
// single-table schema {"name","headers","data"}.
func parseDirect(text string) []table.RawTable {
	cleaned := StripControlChars(StripFences(text))

	span := objectPattern.FindString(cleaned)
	if span == "" {
		return nil
	}

	decoded, ok := decodeLenient(span)
	if !ok {
		return nil
	}

	document, ok := decoded.(map[string]any)
	if !ok {
		return nil
	}

	if rawTables, ok := document["tables"].([]any); ok {
		return tablesFromArray(rawTables)
	}

	if t, ok := tableFromObject(document, true); ok {
		if t.Name == "" {
			t.Name = SingleTableName
		}
		return []table.RawTable{t}
	}

	return nil
}

// parseTablesArray is method 2. It tolerates a broken object around a valid
// "tables" array.
func parseTablesArray(text string) []table.RawTable {
	cleaned := StripFences(text)

	loc := tablesKeyPattern.FindStringIndex(cleaned)
	if loc == nil {
		return nil
	}

	open := loc[1] - 1
	end := matchingBracket(cleaned, open)
	if end < 0 {
		return nil
	}

	fragment := StripControlChars(cleaned[open : end+1])

	decoded, ok := decodeLenient(fragment)
	if !ok {
		return nil
	}

	rawTables, ok := decoded.([]any)
	if !ok {
		return nil
	}

	return tablesFromArray(rawTables)
}

// parseTableFragments is method 3. Syntax errors between tables do not
// matter: each fragment only has to be valid on its own.
func parseTableFragments(text string) []table.RawTable {
	cleaned := StripControlChars(StripFences(text))

	var tables []table.RawTable
	for _, m := range tableFragmentPattern.FindAllStringSubmatch(cleaned, -1) {
		var name string
		if decodeStrict(m[1], &name) != nil {
			continue
		}

		var headers []any
		if decodeStrict(m[2], &headers) != nil {
			continue
		}

		var data []any
		if decodeStrict(m[3], &data) != nil {
			continue
		}

		hs := cellsOf(headers)
		tables = append(tables, table.RawTable{
			Name:    name,
			Headers: hs,
			Data:    rowsOf(data, hs),
		})
	}

	return tables
}

// parseBareArrays is method 4, the least reliable one.
func parseBareArrays(text string) []table.RawTable {
	cleaned := StripControlChars(StripFences(text))

	var arrays [][]string
	for _, candidate := range stringArrayPattern.FindAllString(cleaned, -1) {
		var values []string
		if decodeStrict(candidate, &values) == nil {
			arrays = append(arrays, values)
		}
	}

	if len(arrays) < 2 {
		return nil
	}

	return []table.RawTable{{
		Name:    ExtractedTableName,
		Headers: arrays[0],
		Data:    arrays[1:],
	}}
}

// decodeStrict decodes exactly one JSON value from s, keeping numbers in
// their literal form. Trailing non-space content is an error.
func decodeStrict(s string, v any) error {
	decoder := json.NewDecoder(strings.NewReader(s))
	decoder.UseNumber()

	if err := decoder.Decode(v); err != nil {
		return err
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected content after JSON value")
	}

	return nil
}

// decodeLenient tries a strict decode first and, if that fails, repairs s
// with jsonrepair and decodes the result.
func decodeLenient(s string) (any, bool) {
	var strict any
	if decodeStrict(s, &strict) == nil {
		return strict, true
	}

	repaired, err := jsonrepair.JSONRepair(s)
	if err != nil {
		return nil, false
	}

	var lenient any
	if decodeStrict(repaired, &lenient) != nil {
		return nil, false
	}
	return lenient, true
}

// tablesFromArray converts the elements of a "tables" array. Elements that
// are not objects with a headers array are skipped. Tables without a name
// are numbered in the order they appear.
func tablesFromArray(rawTables []any) []table.RawTable {
	var tables []table.RawTable
	unnamed := 0

	for _, raw := range rawTables {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		t, ok := tableFromObject(obj, false)
		if !ok {
			continue
		}

		if t.Name == "" {
			unnamed++
			t.Name = fmt.Sprintf("Unnamed Table %d", unnamed)
		}
		tables = append(tables, t)
	}

	return tables
}

// tableFromObject reads name, headers and data from obj. requireData makes
// a missing "data" array a rejection rather than an empty table.
func tableFromObject(obj map[string]any, requireData bool) (table.RawTable, bool) {
	rawHeaders, ok := obj["headers"].([]any)
	if !ok {
		return table.RawTable{}, false
	}

	rawData, hasData := obj["data"].([]any)
	if requireData && !hasData {
		return table.RawTable{}, false
	}

	headers := cellsOf(rawHeaders)
	name, _ := obj["name"].(string)

	return table.RawTable{
		Name:    strings.TrimSpace(name),
		Headers: headers,
		Data:    rowsOf(rawData, headers),
	}, true
}

func cellsOf(values []any) []string {
	cells := make([]string, len(values))
	for i, v := range values {
		cells[i] = cellText(v)
	}
	return cells
}

// rowsOf converts decoded rows. A row given as an object is laid out in
// header order; a scalar row becomes a single cell.
func rowsOf(values []any, headers []string) [][]string {
	rows := make([][]string, 0, len(values))
	for _, v := range values {
		switch row := v.(type) {
		case []any:
			rows = append(rows, cellsOf(row))
		case map[string]any:
			cells := make([]string, len(headers))
			for i, h := range headers {
				cells[i] = cellText(row[h])
			}
			rows = append(rows, cells)
		default:
			rows = append(rows, []string{cellText(row)})
		}
	}
	return rows
}

// cellText renders a decoded JSON value as cell text.
func cellText(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case json.Number:
		return value.String()
	case bool:
		if value {
			return "true"
		}
		return "false"
	default:
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprint(value)
		}
		return string(encoded)
	}
}
