package lexer

import (
	"mynd/internal/source"
	"mynd/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
	}
}

// Next возвращает следующий токен.
// После EOF всегда возвращает EOF. Лексер не порождает ошибок:
// всё, что не является ключевым словом или блоком, становится Text.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipSpace()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
		}
	}

	ch := lx.cursor.Peek()
	switch {
	case ch == '{':
		return lx.scanBlock()
	case isAlpha(ch):
		return lx.scanWordOrText()
	default:
		return lx.scanLine(lx.cursor.Mark())
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All drains the lexer, returning every token up to and including EOF.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) skipSpace() {
	for !lx.cursor.EOF() && isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return lx.cursor.Pos.To(lx.cursor.Pos)
}
