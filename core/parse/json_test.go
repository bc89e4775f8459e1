package parse

import (
	"reflect"
	"testing"

	"github.com/leofalp/tabex/core/table"
)

const listingsJSON = `{"tables":[{"name":"Listings","headers":["Address","Price"],"data":[["1 Main St","100000"],["2 Oak Ave","250000"]]}]}`

func TestJSONStrategy_Extract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []table.RawTable
	}{
		{
			name:  "tables schema",
			input: listingsJSON,
			want: []table.RawTable{{
				Name:    "Listings",
				Headers: []string{"Address", "Price"},
				Data:    [][]string{{"1 Main St", "100000"}, {"2 Oak Ave", "250000"}},
			}},
		},
		{
			name:  "surrounded by prose",
			input: "Sure! Here is the data:\n" + listingsJSON + "\nLet me know if you need more.",
			want: []table.RawTable{{
				Name:    "Listings",
				Headers: []string{"Address", "Price"},
				Data:    [][]string{{"1 Main St", "100000"}, {"2 Oak Ave", "250000"}},
			}},
		},
		{
			name:  "single table schema",
			input: `{"headers":["A","B"],"data":[["1","2"]]}`,
			want: []table.RawTable{{
				Name:    SingleTableName,
				Headers: []string{"A", "B"},
				Data:    [][]string{{"1", "2"}},
			}},
		},
		{
			name:  "scalar cells",
			input: `{"tables":[{"name":"T","headers":["a","b","c","d"],"data":[[1, 2.50, null, true]]}]}`,
			want: []table.RawTable{{
				Name:    "T",
				Headers: []string{"a", "b", "c", "d"},
				Data:    [][]string{{"1", "2.50", "", "true"}},
			}},
		},
		{
			name:  "object rows follow headers",
			input: `{"tables":[{"name":"T","headers":["a","b"],"data":[{"b":"y","a":"x"},{"a":"z"}]}]}`,
			want: []table.RawTable{{
				Name:    "T",
				Headers: []string{"a", "b"},
				Data:    [][]string{{"x", "y"}, {"z", ""}},
			}},
		},
		{
			name:  "unnamed tables are numbered",
			input: `{"tables":[{"headers":["a"],"data":[]},{"name":"N","headers":["b"],"data":[]},{"headers":["c"],"data":[]}]}`,
			want: []table.RawTable{
				{Name: "Unnamed Table 1", Headers: []string{"a"}, Data: [][]string{}},
				{Name: "N", Headers: []string{"b"}, Data: [][]string{}},
				{Name: "Unnamed Table 2", Headers: []string{"c"}, Data: [][]string{}},
			},
		},
		{
			name:  "trailing comma is repaired",
			input: `{"tables":[{"name":"T","headers":["a","b"],"data":[["1","2"],]}]}`,
			want: []table.RawTable{{
				Name:    "T",
				Headers: []string{"a", "b"},
				Data:    [][]string{{"1", "2"}},
			}},
		},
		{
			name:  "control characters are removed",
			input: "{\"tables\":[{\"name\":\"T\x01\",\"headers\":[\"a\"],\"data\":[[\"x\ty\"]]}]}",
			want: []table.RawTable{{
				Name:    "T",
				Headers: []string{"a"},
				Data:    [][]string{{"xy"}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := JSONStrategy{}.Extract(tt.input)
			if !ok {
				t.Fatalf("Extract() ok = false, want true")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestJSONStrategy_FencedMatchesUnfenced(t *testing.T) {
	plain, ok := JSONStrategy{}.Extract(listingsJSON)
	if !ok {
		t.Fatal("unfenced input not recognised")
	}

	for _, fenced := range []string{
		"```json\n" + listingsJSON + "\n```",
		"```JSON\n" + listingsJSON + "\n```",
		"```\n" + listingsJSON + "\n```",
	} {
		got, ok := JSONStrategy{}.Extract(fenced)
		if !ok {
			t.Fatalf("fenced input %q not recognised", fenced)
		}
		if !reflect.DeepEqual(got, plain) {
			t.Errorf("fenced result = %#v, want %#v", got, plain)
		}
	}
}

func TestJSONStrategy_NotApplicable(t *testing.T) {
	inputs := []string{
		"",
		"random prose with no structure",
		`{"message":"no tables here"}`,
		`["only one array"]`,
	}

	for _, input := range inputs {
		if got, ok := (JSONStrategy{}).Extract(input); ok {
			t.Errorf("Extract(%q) = %#v, want no match", input, got)
		}
	}
}

func TestParseTablesArray(t *testing.T) {
	input := `noise "tables": [{"name":"T","headers":["a","b"],"data":[["1","]2"]]}] more`

	got := parseTablesArray(input)
	want := []table.RawTable{{
		Name:    "T",
		Headers: []string{"a", "b"},
		Data:    [][]string{{"1", "]2"}},
	}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseTablesArray() = %#v, want %#v", got, want)
	}
}

func TestParseTablesArray_Unterminated(t *testing.T) {
	if got := parseTablesArray(`"tables": [{"name":"T","headers":["a"]`); got != nil {
		t.Errorf("parseTablesArray() = %#v, want nil", got)
	}
}

func TestParseTableFragments(t *testing.T) {
	input := `{"name":"A","headers":["x","y"],"data":[["1","2"],["3","4"]]} garbage ,,} ` +
		`{"name":"B","headers":["z"],"data":[]}`

	got := parseTableFragments(input)
	want := []table.RawTable{
		{Name: "A", Headers: []string{"x", "y"}, Data: [][]string{{"1", "2"}, {"3", "4"}}},
		{Name: "B", Headers: []string{"z"}, Data: [][]string{}},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseTableFragments() = %#v, want %#v", got, want)
	}
}

func TestParseBareArrays(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []table.RawTable
	}{
		{
			name:  "header and rows",
			input: `headers ["Address","Price"] then ["1 Main","100"] and ["2 Oak","200"]`,
			want: []table.RawTable{{
				Name:    ExtractedTableName,
				Headers: []string{"Address", "Price"},
				Data:    [][]string{{"1 Main", "100"}, {"2 Oak", "200"}},
			}},
		},
		{
			name:  "single array",
			input: `["Address","Price"]`,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseBareArrays(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseBareArrays() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCellText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"string", `"abc"`, "abc"},
		{"integer", `42`, "42"},
		{"decimal keeps literal", `1.50`, "1.50"},
		{"null", `null`, ""},
		{"false", `false`, "false"},
		{"nested object", `{"a":[1,2]}`, `{"a":[1,2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v any
			if err := decodeStrict(tt.input, &v); err != nil {
				t.Fatalf("decodeStrict() error = %v", err)
			}
			if got := cellText(v); got != tt.want {
				t.Errorf("cellText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeStrict_TrailingContent(t *testing.T) {
	var v any
	if err := decodeStrict(`{"a":1} trailing`, &v); err == nil {
		t.Error("decodeStrict() error = nil, want error for trailing content")
	}
}

func TestMatchingBracket(t *testing.T) {
	tests := []struct {
		name    string
		content string
		start   int
		want    int
	}{
		{"flat array", `[1,2]`, 0, 4},
		{"nested", `[[1],[2]] x`, 0, 8},
		{"bracket in string", `["a]b"]`, 0, 6},
		{"escaped quote", `["a\"]"]`, 0, 7},
		{"object", `{"a":{"b":1}}`, 0, 12},
		{"unbalanced", `[[1]`, 0, -1},
		{"not a bracket", `abc`, 0, -1},
		{"out of range", `[]`, 5, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchingBracket(tt.content, tt.start); got != tt.want {
				t.Errorf("matchingBracket(%q, %d) = %d, want %d", tt.content, tt.start, got, tt.want)
			}
		})
	}
}
