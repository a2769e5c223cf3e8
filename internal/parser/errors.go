package parser

import (
	"fmt"

	"mynd/internal/diag"
	"mynd/internal/source"
	"mynd/internal/token"
)

// ErrorKind enumerates the ways a document can be malformed.
type ErrorKind uint8

const (
	// ExtraText is a text or block with no preceding keyword.
	ExtraText ErrorKind = iota + 1
	// UnexpectedEOF is an empty document or a keyword at the end of input.
	UnexpectedEOF
	// UnexpectedToken is a keyword where a string was expected.
	UnexpectedToken
)

func (k ErrorKind) String() string {
	switch k {
	case ExtraText:
		return "ExtraText"
	case UnexpectedEOF:
		return "UnexpectedEOF"
	case UnexpectedToken:
		return "UnexpectedToken"
	}
	return "Unknown"
}

// Error is a positioned parse failure. Expected and Found are set only for
// UnexpectedToken.
type Error struct {
	Kind     ErrorKind
	Span     source.Span
	Expected token.Kind
	Found    token.Kind
}

func (e *Error) Error() string {
	switch e.Kind {
	case ExtraText:
		return "dangling text; without todo"
	case UnexpectedEOF:
		return "reached an unexpected end of file"
	case UnexpectedToken:
		return fmt.Sprintf("expected a %s, but found a %s", e.Expected, e.Found)
	}
	return "unknown parse error"
}

// Code maps the error to its diagnostic code.
func (e *Error) Code() diag.Code {
	switch e.Kind {
	case ExtraText:
		return diag.SynExtraText
	case UnexpectedEOF:
		return diag.SynUnexpectedEOF
	case UnexpectedToken:
		return diag.SynUnexpectedToken
	}
	return diag.UnknownCode
}

// Diagnostic converts the error into an error-level diagnostic.
// Dangling text gets a fix that prefixes it with the keyword.
func (e *Error) Diagnostic() diag.Diagnostic {
	d := diag.NewError(e.Code(), e.Span, e.Error())
	if e.Kind == ExtraText {
		at := e.Span.Start.To(e.Span.Start)
		d = d.WithFix("prefix with `todo`", diag.FixEdit{Span: at, NewText: "todo "})
	}
	return d
}
