package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	// KindSpanBegin marks the start of a logical operation.
	KindSpanBegin Kind = iota + 1
	// KindSpanEnd marks the end of a logical operation.
	KindSpanEnd
	// KindPoint represents an instant event.
	KindPoint
	// KindError is an instant event that passes every level except off.
	KindError
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Scope indicates the granularity level of the event.
// Lower numeric values represent coarser events.
type Scope uint8

const (
	// ScopeCommand is one CLI command or one language server request.
	ScopeCommand Scope = iota + 1
	// ScopePhase is lex, parse, reconcile or flush.
	ScopePhase
	// ScopeDocument is per-file or per-buffer work.
	ScopeDocument
	// ScopeItem is per-todo work.
	ScopeItem
)

// String returns the string representation of Scope.
func (s Scope) String() string {
	switch s {
	case ScopeCommand:
		return "command"
	case ScopePhase:
		return "phase"
	case ScopeDocument:
		return "document"
	case ScopeItem:
		return "item"
	default:
		return "unknown"
	}
}

// Event represents a single trace event.
type Event struct {
	Time     time.Time         // wall-clock timestamp
	Seq      uint64            // global sequence number (monotonic)
	Kind     Kind              // event kind
	Scope    Scope             // granularity level
	SpanID   uint64            // unique span identifier
	ParentID uint64            // parent span (0 if root)
	Name     string            // e.g. "parse", "reconcile", "doc:file:///a.todo"
	Detail   string            // optional detail message
	Extra    map[string]string // extensible key-value pairs
}
