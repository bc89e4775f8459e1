// Package table defines the tabular data model shared by every extraction
// strategy: [RawTable] as produced by a parser, and [Table], its rectangular
// form after [Normalize].
//
// A RawTable may carry rows of any width. Normalization pads short rows with
// empty cells and truncates long ones so that every row has exactly one cell
// per header, and assigns the table a fresh identifier. [Fallback] builds the
// terminal single-cell table used when no structured data could be found.
package table
