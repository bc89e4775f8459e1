// Package extract turns an uploaded document into tables. It validates the
// document, asks a generative model to transcribe the tables in one of two
// prompt dialects, retries the call with exponential backoff, and recovers
// tables from whatever text comes back using the parse strategy chain.
//
// An [Extractor] never fails because of malformed model output: the caller
// always receives an [ExtractionResult]. Structured tables yield status
// success or partial, unstructured text is wrapped in a single-cell
// fallback table, and only a call that fails on every attempt produces
// Success=false. The only returned errors are input validation errors
// ([ErrNoDocument], [ErrUnsupportedType]).
package extract
