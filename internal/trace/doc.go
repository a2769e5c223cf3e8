// Package trace records begin/end spans and point events for the todo
// pipeline: a CLI command, its phases (lex, parse, reconcile, flush), each
// document and, at debug level, each item.
//
// Tracers are goroutine-safe. A Tracer travels through context.Context via
// WithTracer/FromContext; code that finds no tracer gets Nop and pays nothing.
//
// Storage modes:
//
//   - stream: events are formatted and written as they happen.
//   - ring: the last N events stay in memory; Dump writes them on demand
//     (the CLI dumps the ring when a command fails).
//   - both: stream and ring at once.
package trace
