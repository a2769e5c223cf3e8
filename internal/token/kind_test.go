package token_test

import (
	"testing"

	"mynd/internal/token"
)

func TestKindString(t *testing.T) {
	cases := map[token.Kind]string{
		token.KwTodo:    "todo keyword",
		token.Text:      "text",
		token.TextBlock: "text block",
		token.EOF:       "EOF",
		token.Invalid:   "invalid",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Fatalf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestIsText(t *testing.T) {
	if !token.Text.IsText() || !token.TextBlock.IsText() {
		t.Fatalf("text kinds must report IsText")
	}
	if token.KwTodo.IsText() || token.EOF.IsText() {
		t.Fatalf("keyword/EOF must not report IsText")
	}
}

func TestTokenPredicates(t *testing.T) {
	if !(token.Token{Kind: token.KwTodo}).IsKeyword() {
		t.Fatalf("KwTodo should be keyword")
	}
	if !(token.Token{Kind: token.EOF}).IsEOF() {
		t.Fatalf("EOF should report IsEOF")
	}
}
