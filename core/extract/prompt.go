package extract

import (
	"fmt"
	"strings"

	"github.com/leofalp/tabex/internal/jsonschema"
)

// Dialect selects the output format requested from the model. Both dialects
// are parsed by the same strategy chain, so a model that ignores the
// request still produces usable tables.
type Dialect string

const (
	// DialectPipe asks for TABLE: / HEADERS: / ROW: lines.
	DialectPipe Dialect = "pipe"

	// DialectJSON asks for a {"tables":[...]} object and nothing else.
	DialectJSON Dialect = "json"
)

// ParseDialect maps a user-supplied name to a Dialect. The empty string
// selects [DialectPipe].
func ParseDialect(name string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(name))) {
	case "", DialectPipe:
		return DialectPipe, nil
	case DialectJSON:
		return DialectJSON, nil
	default:
		return "", fmt.Errorf("unknown dialect %q (want %q or %q)", name, DialectPipe, DialectJSON)
	}
}

// tablesResponse is the shape requested from the model in the JSON dialect.
type tablesResponse struct {
	Tables []tableResponse `json:"tables" jsonschema:"description=Every table in the document in reading order"`
}

type tableResponse struct {
	Name    string     `json:"name" jsonschema:"description=Table title as printed; empty if untitled"`
	Headers []string   `json:"headers" jsonschema:"description=Column headers in order"`
	Data    [][]string `json:"data" jsonschema:"description=Rows of cell text; one entry per header"`
}

var tablesSchema = jsonschema.MustFor[tablesResponse]()

// ResponseSchema returns the JSON schema the model is asked to follow, or
// nil for dialects that are not JSON.
func (d Dialect) ResponseSchema() *jsonschema.Schema {
	if d != DialectJSON {
		return nil
	}
	return tablesSchema
}

// Prompt returns the instruction text sent with the document.
func (d Dialect) Prompt() string {
	if d == DialectJSON {
		return jsonPrompt
	}
	return pipePrompt
}

const extractionPreamble = `You are an expert at accurately extracting tables from PDFs or images without missing any details. Analyze the provided real estate inventory document (PDF or image) and carefully extract ALL tables exactly as presented, preserving all table titles (or names, if available), fields, headers, and rows precisely as they appear in the original document.

If the document contains multiple tables, extract each separately and clearly.
`

const pipePrompt = extractionPreamble + `
IMPORTANT: Instead of JSON, respond with a simple text format as follows:

TABLE: [Table Name 1]
HEADERS: Header1 | Header2 | Header3 | ... | HeaderN
ROW: Value1 | Value2 | Value3 | ... | ValueN
ROW: Value1 | Value2 | Value3 | ... | ValueN
... (more rows)

TABLE: [Table Name 2]
HEADERS: Header1 | Header2 | Header3 | ... | HeaderN
ROW: Value1 | Value2 | Value3 | ... | ValueN
ROW: Value1 | Value2 | Value3 | ... | ValueN
... (more rows)

CRITICAL INSTRUCTIONS TO FOLLOW STRICTLY:
1. Include EVERY table found in the original document separately.
2. If a table has no explicit name, use "Unnamed Table 1", "Unnamed Table 2", etc., in sequence.
3. Do NOT omit any columns or rows; every header and cell data from each table must be included exactly.
4. Use an empty value (||) for any missing or unclear data.
5. Maintain the exact header titles and exact column order from each original table.
6. Ensure the extracted data precisely matches the original content without additions, interpretations, or assumptions.
7. Use the pipe character (|) as a delimiter between values.
8. Start each table with "TABLE:" followed by the table name.
9. Start the headers row with "HEADERS:" followed by the headers separated by pipes.
10. Start each data row with "ROW:" followed by the values separated by pipes.
11. Make sure to extract ALL tables from the document, even if there are many of them.`

const jsonPrompt = extractionPreamble + `
Format your response as a JSON object with this exact structure:
{
  "tables": [
    {
      "name": "Table Name 1",
      "headers": ["Header1", "Header2", "HeaderN"],
      "data": [
        ["Value1", "Value2", "ValueN"],
        ["Value1", "Value2", "ValueN"]
      ]
    }
  ]
}

IMPORTANT INSTRUCTIONS:
1. Return ONLY the JSON object, nothing else.
2. Do not include markdown formatting or code blocks.
3. If a table has no explicit name, use "Unnamed Table 1", "Unnamed Table 2", etc., in sequence.
4. Use empty strings for missing or unclear values.
5. Make sure every row has exactly as many values as the headers array.
6. Include every table and every row found in the document.`
