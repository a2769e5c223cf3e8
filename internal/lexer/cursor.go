package lexer

import (
	"fmt"
	"unicode/utf8"

	"mynd/internal/source"

	"fortio.org/safecast"
)

// Cursor представляет собой позицию в файле.
// Позиция продвигается по одной руне: Offset в байтах, Line/Col в строках и рунах.
type Cursor struct {
	File *source.File
	Pos  source.Position
	// Limit is the exclusive upper bound for Pos.Offset; defaults to len(File.Content).
	Limit uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{
		File:  f,
		Limit: limit,
	}
}

// EOF проверяет, достигнут ли конец файла
func (c *Cursor) EOF() bool {
	return c.Pos.Offset >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Pos.Offset]
}

// Peek2 читает текущий и следующий байт, если есть, иначе возвращает 0, 0, false
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Pos.Offset+1 >= c.Limit {
		return 0, 0, false
	}
	return c.File.Content[c.Pos.Offset], c.File.Content[c.Pos.Offset+1], true
}

// Bump перемещает курсор на одну руну вперед и возвращает ее.
// Невалидный UTF-8 байт считается отдельной колонкой.
func (c *Cursor) Bump() rune {
	if c.EOF() {
		return utf8.RuneError
	}
	b := c.File.Content[c.Pos.Offset]
	r, size := rune(b), 1
	if b >= utf8.RuneSelf {
		r, size = utf8.DecodeRune(c.File.Content[c.Pos.Offset:c.Limit])
	}
	c.Pos.Offset += uint32(size) // #nosec G115 -- size is 1..4
	if r == '\n' {
		c.Pos.Line++
		c.Pos.Col = 0
	} else {
		c.Pos.Col++
	}
	return r
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark source.Position

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Pos)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Position(m).To(c.Pos)
}

// Slice returns the text between the mark and the current position.
func (c *Cursor) Slice(m Mark) string {
	return string(c.File.Content[m.Offset:c.Pos.Offset])
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Pos = source.Position(m)
}

// Eat consumes the next byte if it matches the provided ASCII byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Pos.Offset] == b {
		c.Bump()
		return true
	}
	return false
}
