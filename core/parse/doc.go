// Package parse recovers tables from raw model output. Because generative
// models frequently ignore the requested format (wrapping JSON in prose or
// code fences, emitting near-valid JSON, switching to Markdown or to loosely
// delimited text), this package applies a layered recovery strategy instead
// of trusting any single schema.
//
// Each recovery technique is a [Strategy]: a pure function from text to
// tables. A [Chain] tries its strategies in a fixed order and returns the
// first one that yields at least one table with headers. It never merges
// results from several strategies.
//
// [DefaultChain] runs, in order:
//
//   - [JSONStrategy]: direct parse, tables-array isolation, per-table
//     fragments, and bare-array pairing, with jsonrepair for near-valid JSON;
//   - [ProtocolStrategy]: the TABLE: / HEADERS: / ROW: line protocol;
//   - [HTMLStrategy]: HTML table markup, converted to Markdown first;
//   - [MarkdownStrategy]: pipe tables with a separator row;
//   - [HeuristicStrategy]: keyword and delimiter heuristics over prose.
//
// The last three are degraded strategies: callers report their results as
// partial rather than fully successful.
package parse
