package trace

import "context"

type (
	tracerKey struct{}
	parentKey struct{}
)

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches t to ctx. A nil tracer attaches Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// parentID returns the id of the innermost span started on ctx, 0 if none.
func parentID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(parentKey{}).(uint64)
	return id
}

func withParent(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, parentKey{}, id)
}
