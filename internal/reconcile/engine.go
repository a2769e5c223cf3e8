package reconcile

import (
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/unicode/norm"

	"mynd/internal/diag"
	"mynd/internal/parser"
	"mynd/internal/source"
	"mynd/internal/todo"
)

type idSet = map[todo.ID]struct{}

// Engine owns the membership set of every open document. Calls for one
// document must be serialized by the caller; different documents may be
// reconciled from different goroutines.
type Engine struct {
	mu      sync.Mutex
	members map[string]idSet

	now     func() time.Time
	log     zerolog.Logger
	lintNFC bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used for created_at of new records.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger for store failures.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithNFCLint toggles the warning for messages that are not NFC normalized.
func WithNFCLint(on bool) Option {
	return func(e *Engine) { e.lintNFC = on }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		members: make(map[string]idSet),
		now:     time.Now,
		log:     zerolog.Nop(),
		lintNFC: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan diffs a parsed document against the store snapshot and the
// document's current membership. It does not modify the engine.
func (e *Engine) Plan(doc string, outcome parser.Outcome, snapshot []todo.Record) *Plan {
	byID := make(map[todo.ID]todo.Record, len(snapshot))
	for _, r := range snapshot {
		byID[r.ID] = r
	}

	previous := e.membersCopy(doc)
	p := &Plan{
		Doc:     doc,
		spans:   make(map[todo.ID][]source.Span),
		current: make(idSet),
	}
	now := e.now()

	for _, entry := range outcome.Entries {
		if entry.Err != nil {
			p.Diagnostics = append(p.Diagnostics, entry.Err.Diagnostic())
			continue
		}
		item := entry.Item
		id := todo.HashMessage(item.Message)
		delete(previous, id)
		p.spans[id] = append(p.spans[id], item.Span)
		if _, seen := p.current[id]; seen {
			// повтор в том же документе схлопывается в одну запись
			continue
		}
		p.current[id] = struct{}{}

		if rec, ok := byID[id]; ok {
			p.Kept = append(p.Kept, rec)
		} else {
			p.Created = append(p.Created, todo.NewRecord(item.Message, now))
		}
		if e.lintNFC && !norm.NFC.IsNormalString(item.Message) {
			p.Diagnostics = append(p.Diagnostics, diag.NewWarning(diag.StoreNotNFC, item.Span,
				"todo message is not NFC normalized; visually identical text may get a different id"))
		}
	}

	p.Retracted = sortedIDs(previous)
	return p
}

// Commit replaces the document's membership with the plan's.
func (e *Engine) Commit(p *Plan) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.members[p.Doc] = p.current
}

// Reconcile is Plan followed by Commit.
func (e *Engine) Reconcile(doc string, outcome parser.Outcome, snapshot []todo.Record) *Plan {
	p := e.Plan(doc, outcome, snapshot)
	e.Commit(p)
	return p
}

// Forget drops the membership of a closed document.
func (e *Engine) Forget(doc string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.members, doc)
}

// Tracked reports whether doc has a membership set.
func (e *Engine) Tracked(doc string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.members[doc]
	return ok
}

// Members returns the ids last seen in doc, sorted.
func (e *Engine) Members(doc string) []todo.ID {
	e.mu.Lock()
	defer e.mu.Unlock()
	return sortedIDs(e.members[doc])
}

// Documents returns every tracked document, sorted.
func (e *Engine) Documents() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	docs := make([]string, 0, len(e.members))
	for d := range e.members {
		docs = append(docs, d)
	}
	slices.Sort(docs)
	return docs
}

func (e *Engine) membersCopy(doc string) idSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(idSet, len(e.members[doc]))
	for id := range e.members[doc] {
		out[id] = struct{}{}
	}
	return out
}

func sortedIDs(set idSet) []todo.ID {
	out := make([]todo.ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
