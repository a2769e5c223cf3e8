package source

import (
	"fmt"
)

// Position is a zero-based location inside a source buffer.
type Position struct {
	Offset uint32 // в байтах
	Line   uint32
	Col    uint32 // в рунах
}

// To builds the span that starts at p and ends at end.
func (p Position) To(end Position) Span {
	return Span{Start: p, End: end}
}

// LineCol converts the position into 1-based human coordinates.
func (p Position) LineCol() LineCol {
	return LineCol{Line: p.Line + 1, Col: p.Col + 1}
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span is a half-open range over the source text.
type Span struct {
	Start Position // включительно
	End   Position // не включительно
}

func (s Span) Empty() bool {
	return s.Start.Offset == s.End.Offset
}

func (s Span) Len() uint32 {
	if s.End.Offset < s.Start.Offset {
		return 0
	}
	return s.End.Offset - s.Start.Offset
}

// Contains reports whether the byte offset falls inside the span.
// An empty span contains only its own offset.
func (s Span) Contains(off uint32) bool {
	if s.Empty() {
		return off == s.Start.Offset
	}
	return off >= s.Start.Offset && off < s.End.Offset
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Cover returns the smallest span containing both s and other.
func (s Span) Cover(other Span) Span {
	if other.Start.Offset < s.Start.Offset {
		s.Start = other.Start
	}
	if other.End.Offset > s.End.Offset {
		s.End = other.End
	}
	return s
}

// Slice returns the bytes of content covered by the span, clamped to content bounds.
func (s Span) Slice(content []byte) []byte {
	n := uint32(len(content))
	start, end := s.Start.Offset, s.End.Offset
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return content[start:end]
}
