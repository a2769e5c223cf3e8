// Package reconcile keeps the todo store in step with documents that an
// editor re-submits in full.
//
// Each open document has a membership set: the ids of the items last seen in
// it. Reconciling a freshly parsed document against a store snapshot yields
// the records to upsert, the ids that left the document and must be
// retracted, and diagnostics for malformed text. A document that was never
// reconciled has nothing to retract; Forget returns a document to that state.
package reconcile
