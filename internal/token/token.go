package token

import (
	"mynd/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsKeyword reports whether the token is a keyword.
func (t Token) IsKeyword() bool { return t.Kind == KwTodo }

// IsEOF reports whether the token terminates the stream.
func (t Token) IsEOF() bool { return t.Kind == EOF }
