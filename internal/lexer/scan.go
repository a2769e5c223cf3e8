package lexer

import (
	"mynd/internal/token"
)

// scanWordOrText читает слово из [A-Za-z_]. Если это ключевое слово,
// возвращает его; иначе слово становится началом строки до конца линии.
func (lx *Lexer) scanWordOrText() token.Token {
	start := lx.cursor.Mark()
	for !lx.cursor.EOF() && isWordByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	word := lx.cursor.Slice(start)
	if kind, ok := token.LookupKeyword(word); ok {
		return token.Token{Kind: kind, Span: lx.cursor.SpanFrom(start), Text: word}
	}
	return lx.scanLine(start)
}

// scanLine reads up to, not including, the end of the line.
// A '\r' right before '\n' is left for skipSpace.
func (lx *Lexer) scanLine(start Mark) token.Token {
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '\n' {
			break
		}
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '\r' && b1 == '\n' {
			break
		}
		if b == '\r' && lx.cursor.Pos.Offset+1 == lx.cursor.Limit {
			break
		}
		lx.cursor.Bump()
	}
	return token.Token{
		Kind: token.Text,
		Span: lx.cursor.SpanFrom(start),
		Text: lx.cursor.Slice(start),
	}
}

// scanBlock reads '{' ... '}'. The first '}' closes the block, there is no
// nesting. An unterminated block runs to EOF.
func (lx *Lexer) scanBlock() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '{'

	body := lx.cursor.Mark()
	for !lx.cursor.EOF() && lx.cursor.Peek() != '}' {
		lx.cursor.Bump()
	}
	text := lx.cursor.Slice(body)
	lx.cursor.Eat('}')

	return token.Token{
		Kind: token.TextBlock,
		Span: lx.cursor.SpanFrom(start),
		Text: text,
	}
}
