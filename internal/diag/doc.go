// Package diag defines the diagnostic model shared by the parser, the
// reconciliation engine and the language server.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary span – the source.Span pointing to the issue.
//   - Notes – optional secondary spans/messages for additional context.
//   - Fixes – optional text edits that would resolve the problem.
//
// Package diag does not perform any formatting or IO. Rendering lives in
// internal/diagfmt; the language server maps spans to editor ranges itself.
//
// # Emitting diagnostics
//
// Producers use a diag.Reporter to decouple emission from storage. BagReporter
// aggregates into a Bag, which supports limits, sorting and deduplication.
// DedupReporter filters repeated findings before they reach the next reporter.
package diag
