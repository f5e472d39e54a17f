// Package diag defines the diagnostic model shared by the driver and the CLI.
//
// # Purpose
//
//   - Provide deterministic data structures for findings produced while
//     loading, formatting and writing files.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or rendering.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: tri-level enum (Info, Warning, Error).
//   - Code: numeric identifier with a stable string form (CFG/FMT/IO).
//   - Message: short, actionable text.
//   - Primary: Span{Path, Line}; Line is 1-based, 0 means "whole file".
//   - Notes: optional secondary messages.
//
// # Concurrency
//
// Bag is not safe for concurrent use. The driver gives every file its own
// bag; the CLI merges them for display.
package diag
