package jsonschema

import (
	"fmt"
	"reflect"
	"strings"
)

// Schema is a JSON Schema node.
type Schema struct {
	Type             string             `json:"type,omitempty"`
	Description      string             `json:"description,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
	Required         []string           `json:"required,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
	Enum             []string           `json:"enum,omitempty"`
	Nullable         bool               `json:"nullable,omitempty"`
}

// For returns the schema of T.
//
// Struct fields are named after their json tag and skipped when tagged "-"
// or unexported. A field is required unless it is a pointer or its json tag
// has omitempty; the jsonschema tag can force it with "required". The
// jsonschema tag also accepts "description=..." and, for strings,
// "enum=a|b|c". Descriptions may not contain commas.
func For[T any]() (*Schema, error) {
	return generate(reflect.TypeFor[T](), map[reflect.Type]bool{})
}

// MustFor is For for package-level schemas of known-good types.
func MustFor[T any]() *Schema {
	s, err := For[T]()
	if err != nil {
		panic(err)
	}
	return s
}

func generate(t reflect.Type, inProgress map[reflect.Type]bool) (*Schema, error) {
	switch t.Kind() {
	case reflect.Pointer:
		s, err := generate(t.Elem(), inProgress)
		if err != nil {
			return nil, err
		}
		s.Nullable = true
		return s, nil

	case reflect.String:
		return &Schema{Type: "string"}, nil
	case reflect.Bool:
		return &Schema{Type: "boolean"}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}, nil
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}, nil

	case reflect.Slice, reflect.Array:
		items, err := generate(t.Elem(), inProgress)
		if err != nil {
			return nil, err
		}
		return &Schema{Type: "array", Items: items}, nil

	case reflect.Map:
		return &Schema{Type: "object"}, nil

	case reflect.Struct:
		if inProgress[t] {
			return nil, fmt.Errorf("jsonschema: recursive type %s", t)
		}
		inProgress[t] = true
		defer delete(inProgress, t)
		return generateStruct(t, inProgress)

	default:
		return nil, fmt.Errorf("jsonschema: unsupported kind %s", t.Kind())
	}
}

func generateStruct(t reflect.Type, inProgress map[reflect.Type]bool) (*Schema, error) {
	s := &Schema{Type: "object", Properties: map[string]*Schema{}}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		name, omitEmpty, skip := jsonName(field)
		if skip {
			continue
		}

		fs, err := generate(field.Type, inProgress)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.Name(), field.Name, err)
		}

		required, err := applyTag(field, fs)
		if err != nil {
			return nil, err
		}

		s.Properties[name] = fs
		s.PropertyOrdering = append(s.PropertyOrdering, name)
		if required || (!omitEmpty && field.Type.Kind() != reflect.Pointer) {
			s.Required = append(s.Required, name)
		}
	}
	return s, nil
}

func jsonName(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}

	name, opts, _ := strings.Cut(tag, ",")
	if name == "" {
		name = field.Name
	}
	return name, strings.Contains(opts, "omitempty"), false
}

// applyTag applies the jsonschema tag of field to s and reports whether the
// tag marks the field required.
func applyTag(field reflect.StructField, s *Schema) (bool, error) {
	tag := field.Tag.Get("jsonschema")
	if tag == "" {
		return false, nil
	}

	required := false
	for _, item := range strings.Split(tag, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(item), "=")
		switch key {
		case "required":
			required = true
		case "description":
			s.Description = value
		case "enum":
			if s.Type != "string" {
				return false, fmt.Errorf("jsonschema: enum on non-string field %s", field.Name)
			}
			s.Enum = append(s.Enum, strings.Split(value, "|")...)
		default:
			return false, fmt.Errorf("jsonschema: unknown tag option %q on field %s", key, field.Name)
		}
	}
	return required, nil
}
