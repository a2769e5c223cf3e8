package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	globalSeq   uint64
	globalSpans uint64
)

// NextSeq returns a monotonically increasing sequence number.
func NextSeq() uint64 {
	return atomic.AddUint64(&globalSeq, 1)
}

// NextSpanID returns a unique span ID.
func NextSpanID() uint64 {
	return atomic.AddUint64(&globalSpans, 1)
}

// Span provides begin/end tracking for one operation.
type Span struct {
	tracer   Tracer
	id       uint64
	parentID uint64
	scope    Scope
	name     string
	started  time.Time
	extra    map[string]string
}

// Begin starts a new span and emits SpanBegin event.
// parent is the parent span ID (0 if root).
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope, KindSpanBegin) {
		return &Span{tracer: Nop}
	}

	id := NextSpanID()
	now := time.Now()
	t.Emit(&Event{
		Time:     now,
		Seq:      NextSeq(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   id,
		ParentID: parent,
		Name:     name,
	})

	return &Span{
		tracer:   t,
		id:       id,
		parentID: parent,
		scope:    scope,
		name:     name,
		started:  now,
	}
}

// Start begins a span using the tracer and parent span stored in ctx and
// returns a context carrying the new span.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	sp := Begin(FromContext(ctx), scope, name, parentID(ctx))
	if sp.id == 0 {
		return ctx, sp
	}
	return withParent(ctx, sp.id), sp
}

// End emits SpanEnd event and returns the duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return 0
	}

	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parentID,
		Name:     s.name,
		Detail:   detail,
		Extra:    s.extra,
	})
	return dur
}

// WithExtra adds a key-value pair to the end event.
// Returns the span for method chaining.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil || !s.tracer.Enabled() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span ID.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under the current span.
func Point(ctx context.Context, scope Scope, name, detail string) {
	emitInstant(ctx, KindPoint, scope, name, detail)
}

// Error emits an error event; it passes every level except off.
func Error(ctx context.Context, name string, err error) {
	if err == nil {
		return
	}
	emitInstant(ctx, KindError, ScopeCommand, name, err.Error())
}

func emitInstant(ctx context.Context, kind Kind, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().ShouldEmit(scope, kind) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    scope,
		ParentID: parentID(ctx),
		Name:     name,
		Detail:   detail,
	})
}
