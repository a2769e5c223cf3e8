package diag

import "mynd/internal/source"

// Reporter: минимальный контракт получения диагностик от фаз.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// ReporterFunc adapts a plain function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

type dedupKey struct {
	code  Code
	sev   Severity
	start uint32
	end   uint32
	msg   string
}

func keyOf(code Code, sev Severity, sp source.Span, msg string) dedupKey {
	return dedupKey{code: code, sev: sev, start: sp.Start.Offset, end: sp.End.Offset, msg: msg}
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same code, severity, primary span and message.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to the provided reporter.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(d Diagnostic) {
	if r == nil {
		return
	}
	key := keyOf(d.Code, d.Severity, d.Primary, d.Message)
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
