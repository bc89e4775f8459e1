package jsonschema

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

type cell struct {
	Value string `json:"value" jsonschema:"description=Cell text"`
}

type sample struct {
	Name     string            `json:"name" jsonschema:"description=Table title"`
	Kind     string            `json:"kind,omitempty" jsonschema:"enum=list|grid"`
	Count    int               `json:"count"`
	Ratio    float64           `json:"ratio,omitempty" jsonschema:"required"`
	Active   bool              `json:"active"`
	Note     *string           `json:"note"`
	Rows     [][]string        `json:"rows"`
	Cells    []cell            `json:"cells"`
	Labels   map[string]string `json:"labels,omitempty"`
	Untagged string
	Skipped  string `json:"-"`
	hidden   string
}

type recursive struct {
	Children []recursive `json:"children"`
}

type badEnum struct {
	N int `json:"n" jsonschema:"enum=1|2"`
}

type badOption struct {
	S string `json:"s" jsonschema:"minLength=3"`
}

func TestFor(t *testing.T) {
	s, err := For[sample]()
	if err != nil {
		t.Fatalf("For() error = %v", err)
	}

	if s.Type != "object" {
		t.Errorf("Type = %q, want object", s.Type)
	}

	wantOrder := []string{"name", "kind", "count", "ratio", "active", "note", "rows", "cells", "labels", "Untagged"}
	if !reflect.DeepEqual(s.PropertyOrdering, wantOrder) {
		t.Errorf("PropertyOrdering = %v, want %v", s.PropertyOrdering, wantOrder)
	}

	wantRequired := []string{"name", "count", "ratio", "active", "rows", "cells", "Untagged"}
	if !reflect.DeepEqual(s.Required, wantRequired) {
		t.Errorf("Required = %v, want %v", s.Required, wantRequired)
	}

	tests := []struct {
		prop string
		want *Schema
	}{
		{"name", &Schema{Type: "string", Description: "Table title"}},
		{"kind", &Schema{Type: "string", Enum: []string{"list", "grid"}}},
		{"count", &Schema{Type: "integer"}},
		{"ratio", &Schema{Type: "number"}},
		{"active", &Schema{Type: "boolean"}},
		{"note", &Schema{Type: "string", Nullable: true}},
		{"rows", &Schema{Type: "array", Items: &Schema{Type: "array", Items: &Schema{Type: "string"}}}},
		{"labels", &Schema{Type: "object"}},
		{"cells", &Schema{Type: "array", Items: &Schema{
			Type:             "object",
			Properties:       map[string]*Schema{"value": {Type: "string", Description: "Cell text"}},
			PropertyOrdering: []string{"value"},
			Required:         []string{"value"},
		}}},
	}
	for _, tt := range tests {
		if got := s.Properties[tt.prop]; !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Properties[%q] = %+v, want %+v", tt.prop, got, tt.want)
		}
	}
}

func TestFor_Errors(t *testing.T) {
	tests := []struct {
		name    string
		gen     func() (*Schema, error)
		wantErr string
	}{
		{"recursive", For[recursive], "recursive type"},
		{"enum on int", For[badEnum], "enum on non-string"},
		{"unknown option", For[badOption], "unknown tag option"},
		{"unsupported kind", For[chan int], "unsupported kind"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.gen()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestMustFor_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustFor did not panic on a recursive type")
		}
	}()
	MustFor[recursive]()
}

func TestSchema_MarshalOmitsEmpty(t *testing.T) {
	data, err := json.Marshal(MustFor[cell]())
	if err != nil {
		t.Fatal(err)
	}

	want := `{"type":"object","properties":{"value":{"type":"string","description":"Cell text"}},"propertyOrdering":["value"],"required":["value"]}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
