package testkit

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"mynd/internal/parser"
	"mynd/internal/source"
	"mynd/internal/token"
)

// CheckTokenInvariants validates a token stream produced for sf:
// 1) the stream ends with exactly one EOF token
// 2) every span is within content bounds and End >= Start
// 3) spans do not overlap and appear in offset order
// 4) Line/Col of every position agree with its Offset
func CheckTokenInvariants(sf *source.File, toks []token.Token) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	for i, tok := range toks[:len(toks)-1] {
		if tok.Kind == token.EOF {
			return fmt.Errorf("token %d: EOF before end of stream", i)
		}
	}
	if last := toks[len(toks)-1]; last.Kind != token.EOF {
		return fmt.Errorf("stream ends with %s, not EOF", last.Kind)
	}

	var prevEnd uint32
	for i, tok := range toks {
		if err := checkSpan(sf, tok.Span); err != nil {
			return fmt.Errorf("token %d (%s): %w", i, tok.Kind, err)
		}
		if tok.Span.Start.Offset < prevEnd {
			return fmt.Errorf("token %d (%s) starts at %d, before previous end %d", i, tok.Kind, tok.Span.Start.Offset, prevEnd)
		}
		prevEnd = tok.Span.End.Offset
	}
	return nil
}

// CheckOutcomeInvariants validates a parse outcome:
// 1) the outcome has at least one entry
// 2) every entry holds exactly one of Item and Err
// 3) entry spans are within content, ordered and non-overlapping
// 4) an unexpected EOF can only be the last entry
func CheckOutcomeInvariants(sf *source.File, out parser.Outcome) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	if out.File != sf {
		return fmt.Errorf("outcome refers to a different file")
	}
	if len(out.Entries) == 0 {
		return fmt.Errorf("outcome has no entries")
	}

	var prevEnd uint32
	for i, e := range out.Entries {
		if (e.Item == nil) == (e.Err == nil) {
			return fmt.Errorf("entry %d: exactly one of item and error must be set", i)
		}
		sp := e.Span()
		if err := checkSpan(sf, sp); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		if sp.Start.Offset < prevEnd {
			return fmt.Errorf("entry %d starts at %d, before previous end %d", i, sp.Start.Offset, prevEnd)
		}
		prevEnd = sp.End.Offset
		if e.Err != nil && e.Err.Kind == parser.UnexpectedEOF && i != len(out.Entries)-1 {
			return fmt.Errorf("entry %d: unexpected EOF is not the last entry", i)
		}
	}
	return nil
}

func checkSpan(sf *source.File, sp source.Span) error {
	size, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End.Offset < sp.Start.Offset {
		return fmt.Errorf("span %v ends before it starts", sp)
	}
	if sp.End.Offset > size {
		return fmt.Errorf("span end beyond content: %d > %d", sp.End.Offset, size)
	}
	if err := checkPosition(sf.Content, sp.Start); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if err := checkPosition(sf.Content, sp.End); err != nil {
		return fmt.Errorf("end: %w", err)
	}
	return nil
}

// checkPosition recomputes line and column from the offset. Columns count
// runes, an invalid UTF-8 byte counts as one.
func checkPosition(content []byte, pos source.Position) error {
	var line, col uint32
	rest := content[:pos.Offset]
	for len(rest) > 0 {
		r, size := utf8.DecodeRune(rest)
		rest = rest[size:]
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	if line != pos.Line || col != pos.Col {
		return fmt.Errorf("position %d is %d:%d, want %d:%d", pos.Offset, pos.Line, pos.Col, line, col)
	}
	return nil
}
