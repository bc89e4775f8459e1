// Package jsonschema derives JSON Schema documents from Go types.
//
// The generated schemas stay within the subset accepted by Gemini's
// responseSchema: no $ref, no additionalProperties, and a propertyOrdering
// list that mirrors struct field order so the model emits keys in a stable
// order. Recursive types are rejected. The main entry point is [For].
package jsonschema
