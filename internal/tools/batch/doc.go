// Package batch provides helpers for tools that act on several resources in
// one call: parsing a string-or-array argument, running the per-item
// operation with bounded concurrency and formatting per-item results with
// partial failures.
package batch
