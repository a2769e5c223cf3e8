package parser

import (
	"mynd/internal/ast"
	"mynd/internal/diag"
	"mynd/internal/lexer"
	"mynd/internal/source"
	"mynd/internal/token"
)

type Options struct {
	// Reporter получает диагностику для каждой ошибки; может быть nil.
	Reporter diag.Reporter
}

// Entry is one top-level construct: exactly one of Item and Err is set.
type Entry struct {
	Item *ast.Item
	Err  *Error
}

// Ok reports whether the entry holds an item.
func (e Entry) Ok() bool { return e.Item != nil }

// Span returns the location of the item or error.
func (e Entry) Span() source.Span {
	if e.Item != nil {
		return e.Item.Span
	}
	return e.Err.Span
}

// Outcome is the ordered result of parsing one document.
type Outcome struct {
	File    *source.File
	Entries []Entry
}

// Items returns the successfully parsed items in document order.
func (o Outcome) Items() []*ast.Item {
	out := make([]*ast.Item, 0, len(o.Entries))
	for _, e := range o.Entries {
		if e.Item != nil {
			out = append(out, e.Item)
		}
	}
	return out
}

// Errors returns the parse errors in document order.
func (o Outcome) Errors() []*Error {
	var out []*Error
	for _, e := range o.Entries {
		if e.Err != nil {
			out = append(out, e.Err)
		}
	}
	return out
}

// Parser: состояние парсера на один файл
type Parser struct {
	lx   *lexer.Lexer
	opts Options
}

// ParseFile: входная точка для разбора одного файла.
func ParseFile(file *source.File, opts Options) Outcome {
	p := Parser{
		lx:   lexer.New(file),
		opts: opts,
	}
	return Outcome{File: file, Entries: p.parseDocument()}
}

// Parse разбирает текст из памяти (буфер редактора).
func Parse(name, text string) Outcome {
	return ParseFile(source.NewVirtual(name, text), Options{})
}

// parseDocument: основной цикл верхнего уровня, одна запись на каждую конструкцию до EOF.
func (p *Parser) parseDocument() []Entry {
	tok := p.lx.Next()
	if tok.Kind == token.EOF {
		return []Entry{p.fail(&Error{Kind: UnexpectedEOF, Span: tok.Span})}
	}

	var entries []Entry
	for tok.Kind != token.EOF {
		switch tok.Kind {
		case token.KwTodo:
			entries = append(entries, p.parseTodo())
		default:
			entries = append(entries, p.fail(&Error{Kind: ExtraText, Span: tok.Span}))
		}
		tok = p.lx.Next()
	}
	return entries
}

// parseTodo читает строку после ключевого слова.
// Второе ключевое слово подряд съедается вместе с ошибкой.
func (p *Parser) parseTodo() Entry {
	tok := p.lx.Next()
	switch tok.Kind {
	case token.Text:
		return Entry{Item: &ast.Item{Kind: ast.OneLine, Message: tok.Text, Span: tok.Span}}
	case token.TextBlock:
		return Entry{Item: &ast.Item{Kind: ast.Multiline, Message: ast.NormalizeBlock(tok.Text), Span: tok.Span}}
	case token.EOF:
		return p.fail(&Error{Kind: UnexpectedEOF, Span: tok.Span})
	default:
		return p.fail(&Error{Kind: UnexpectedToken, Span: tok.Span, Expected: token.Text, Found: tok.Kind})
	}
}

func (p *Parser) fail(err *Error) Entry {
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(err.Diagnostic())
	}
	return Entry{Err: err}
}
