package reconcile

import (
	"mynd/internal/diag"
	"mynd/internal/source"
	"mynd/internal/todo"
)

// Plan is the outcome of reconciling one document. Building a plan never
// touches the store or the membership sets.
type Plan struct {
	Doc string
	// Created are records not present in the snapshot.
	Created []todo.Record
	// Kept are snapshot records still present in the document, unchanged.
	Kept []todo.Record
	// Retracted are ids that were in the document last time and are gone now.
	Retracted   []todo.ID
	Diagnostics []diag.Diagnostic

	spans   map[todo.ID][]source.Span // every occurrence, in document order
	current map[todo.ID]struct{}
}

// Upserts returns Created followed by Kept.
func (p *Plan) Upserts() []todo.Record {
	out := make([]todo.Record, 0, len(p.Created)+len(p.Kept))
	out = append(out, p.Created...)
	return append(out, p.Kept...)
}

// SpanOf returns where the item with id first appears in the document.
func (p *Plan) SpanOf(id todo.ID) (source.Span, bool) {
	spans := p.spans[id]
	if len(spans) == 0 {
		return source.Span{}, false
	}
	return spans[0], true
}

// IDAt returns the item whose span contains the byte offset, together with
// the span of that occurrence. Repeated messages map every occurrence to the
// same id.
func (p *Plan) IDAt(off uint32) (todo.ID, source.Span, bool) {
	for id, spans := range p.spans {
		for _, sp := range spans {
			if sp.Contains(off) {
				return id, sp, true
			}
		}
	}
	return "", source.Span{}, false
}

// Empty reports whether applying the plan would not change the store.
func (p *Plan) Empty() bool {
	return len(p.Created) == 0 && len(p.Retracted) == 0
}

// Members returns the membership the document will have after Commit.
func (p *Plan) Members() []todo.ID {
	return sortedIDs(p.current)
}
