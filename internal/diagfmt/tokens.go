package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"mynd/internal/source"
	"mynd/internal/token"
)

// PositionJSON is a zero-based position as produced by the lexer.
type PositionJSON struct {
	Offset uint32 `json:"offset"`
	Line   uint32 `json:"line"`
	Col    uint32 `json:"col"`
}

// SpanJSON is a half-open span.
type SpanJSON struct {
	Start PositionJSON `json:"start"`
	End   PositionJSON `json:"end"`
}

func spanJSON(sp source.Span) SpanJSON {
	return SpanJSON{
		Start: PositionJSON{Offset: sp.Start.Offset, Line: sp.Start.Line, Col: sp.Start.Col},
		End:   PositionJSON{Offset: sp.End.Offset, Line: sp.End.Line, Col: sp.End.Col},
	}
}

type TokenOutput struct {
	Kind string   `json:"kind"`
	Text string   `json:"text,omitempty"`
	Span SpanJSON `json:"span"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате.
// Позиции 1-based, как в диагностиках.
func FormatTokensPretty(w io.Writer, tokens []token.Token) error {
	for i, tok := range tokens {
		if _, err := fmt.Fprintf(w, "%3d: %-12s", i+1, tok.Kind.String()); err != nil {
			return err
		}
		if tok.Text != "" {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %s\n", formatRange(tok.Span))

		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		output = append(output, TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Span: spanJSON(tok.Span),
		})
		if tok.Kind == token.EOF {
			break
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
