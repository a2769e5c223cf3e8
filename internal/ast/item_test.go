package ast

import "testing"

func TestNormalizeBlock(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"spaces only", " \n\t\n ", ""},
		{"single", "  fix bug  ", "fix bug"},
		{"indented lines", "\n    first\n    second\n", "first\nsecond"},
		{"blank lines dropped", "a\n\n   \nb", "a\nb"},
		{"crlf", "\r\n  a\r\n  b\r\n", "a\nb"},
		{"trailing space kept inside", "a  \nb", "a  \nb"},
		{"leading nbsp", "a\n\u00a0b", "a\nb"},
		{"ideographic space line", "a\n\u3000\nb", "a\nb"},
		{"em space indent", "\u2003\u2003first\n\u2003second", "first\nsecond"},
		{"inner nbsp kept", "a\u00a0b", "a\u00a0b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBlock(tt.in)
			if got != tt.want {
				t.Fatalf("NormalizeBlock(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := NormalizeBlock(got); again != got {
				t.Fatalf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestItemKindString(t *testing.T) {
	if OneLine.String() != "OneLine" || Multiline.String() != "Multiline" {
		t.Fatalf("unexpected kind names")
	}
}
