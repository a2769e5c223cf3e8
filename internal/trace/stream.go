package trace

import (
	"io"
	"sync"
)

// StreamTracer writes events immediately to an io.Writer.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

// NewStreamTracer creates a new StreamTracer.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{
		w:      w,
		level:  level,
		format: format,
	}
}

// Emit writes an event to the output.
func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope, ev.Kind) {
		return
	}
	if ev.Seq == 0 {
		ev.Seq = NextSeq()
	}
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	// Best-effort write: a broken trace sink must not fail the command
	_, _ = t.w.Write(data)
}

// Flush calls Flush on the writer when it has one.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close flushes and closes the writer if it implements io.Closer.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
