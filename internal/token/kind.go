package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid is the zero value and never produced by the lexer.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// KwTodo represents the 'todo' keyword.
	KwTodo // todo
	// Text is a single-line string running to the end of the line.
	Text
	// TextBlock is a brace-delimited string that may span several lines.
	TextBlock // { ... }
)

// String returns the display name used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KwTodo:
		return "todo keyword"
	case Text:
		return "text"
	case TextBlock:
		return "text block"
	case EOF:
		return "EOF"
	default:
		return "invalid"
	}
}

// IsText reports whether the kind carries a todo message.
func (k Kind) IsText() bool {
	return k == Text || k == TextBlock
}
