package diag

import (
	"testing"

	"mynd/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	line1 := source.Span{
		Start: source.Position{Offset: 7, Line: 1, Col: 0},
		End:   source.Position{Offset: 12, Line: 1, Col: 5},
	}
	line0 := source.Span{
		Start: source.Position{Offset: 5, Line: 0, Col: 5},
		End:   source.Position{Offset: 6, Line: 0, Col: 6},
	}
	diags := []Diagnostic{
		NewError(SynExtraText, line1, "dangling text;\nwithout todo").WithNote(line0, "previous todo here"),
		NewWarning(StoreNotNFC, line0, "not NFC"),
	}

	expected := "note TODO1001 list.todo:1:6 previous todo here\n" +
		"warning TODO2002 list.todo:1:6 not NFC\n" +
		"error TODO1001 list.todo:2:1 dangling text; without todo"

	if got := FormatShortDiagnostics("list.todo", diags, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if got := FormatShortDiagnostics("list.todo", nil, true); got != "" {
		t.Fatalf("empty input should render nothing, got %q", got)
	}
}
