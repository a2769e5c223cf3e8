package ast

import (
	"strings"
	"unicode"

	"mynd/internal/source"
)

// ItemKind distinguishes the two string forms of a todo.
type ItemKind uint8

const (
	// OneLine is `todo <text>`.
	OneLine ItemKind = iota
	// Multiline is `todo { ... }`.
	Multiline
)

func (k ItemKind) String() string {
	switch k {
	case OneLine:
		return "OneLine"
	case Multiline:
		return "Multiline"
	}
	return "Unknown"
}

// Item is a single todo found in a document.
// Span covers the string token (braces included for Multiline).
type Item struct {
	Kind    ItemKind
	Message string
	Span    source.Span
}

// NormalizeBlock canonicalizes the body of a text block: the block is trimmed,
// every line is left-trimmed of Unicode white space, blank lines are dropped
// and the rest joined with '\n'. Trailing '\r' bytes are cut from every line.
// The result is stable under repeated application.
func NormalizeBlock(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.TrimLeftFunc(line, unicode.IsSpace)
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
