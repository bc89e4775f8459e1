// Package ai defines the provider-agnostic request and response types used
// to talk to generative models. Each provider's conversion layer maps these
// types to its own wire format, keeping the extraction pipeline decoupled
// from provider-specific details.
//
// The central interface is [Provider]. Request data flows through
// [ChatRequest]; multimodal input (such as the document to extract tables
// from) travels as [ContentPart] values on a [Message]. Responses are
// returned as [ChatResponse].
package ai
