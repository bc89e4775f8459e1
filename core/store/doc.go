// Package store keeps the latest extraction result of each session in
// process memory. Results are applied through [Ticket]s issued when a
// request starts, so a slow request that finishes after a newer one never
// overwrites the newer result (last write, by start order, wins).
//
// The main entry point is [New]; a [ResultStore] is safe for concurrent use.
package store
