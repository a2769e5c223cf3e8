package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"mynd/internal/diag"
	"mynd/internal/parser"
	"mynd/internal/source"
)

func parseDiagnostics(t *testing.T, text string) (*source.File, []diag.Diagnostic) {
	t.Helper()
	file := source.NewVirtual("list.todo", text)
	bag := diag.NewBag(0)
	parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})
	return file, bag.Items()
}

func TestApplyAllPrefixesStrayText(t *testing.T) {
	file, diags := parseDiagnostics(t, "todo ok\nstray one\ntodo fine\n  stray two\n")

	res, err := Apply(file, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 2 {
		t.Fatalf("expected 2 applied fixes, got %+v", res.Applied)
	}
	want := "todo ok\ntodo stray one\ntodo fine\n  todo stray two\n"
	if got := string(res.Content); got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
	if string(file.Content) == want {
		t.Fatal("Apply must not modify the file")
	}

	// исправленный текст разбирается без ошибок
	_, again := parseDiagnostics(t, want)
	if len(again) != 0 {
		t.Fatalf("fixed text still has diagnostics: %+v", again)
	}
}

func TestApplyOnceTakesFirstInDocumentOrder(t *testing.T) {
	file, diags := parseDiagnostics(t, "a\nb\n")
	// обратный порядок на входе
	diags[0], diags[1] = diags[1], diags[0]

	res, err := Apply(file, diags, ApplyOptions{Mode: ApplyModeOnce})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(res.Content); got != "todo a\nb\n" {
		t.Fatalf("content = %q", got)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "only one fix applied per run" {
		t.Fatalf("unexpected skips %+v", res.Skipped)
	}
}

func TestApplySkipsConflictsAndAlternatives(t *testing.T) {
	file := source.NewVirtual("x.todo", "abcdef")
	at := func(start, end uint32) source.Span {
		return source.Span{Start: source.Position{Offset: start, Col: start}, End: source.Position{Offset: end, Col: end}}
	}
	diags := []diag.Diagnostic{
		diag.NewError(diag.SynExtraText, at(0, 2), "first").
			WithFix("replace ab", diag.FixEdit{Span: at(0, 2), NewText: "X"}).
			WithFix("alternative", diag.FixEdit{Span: at(0, 2), NewText: "Y"}),
		diag.NewError(diag.SynExtraText, at(1, 3), "second").
			WithFix("replace bc", diag.FixEdit{Span: at(1, 3), NewText: "Z"}),
		diag.NewError(diag.SynExtraText, at(4, 4), "third").
			WithFix("insert", diag.FixEdit{Span: at(4, 4), NewText: "-"}),
		diag.NewError(diag.SynExtraText, at(5, 9), "fourth").
			WithFix("out of range", diag.FixEdit{Span: at(5, 9), NewText: ""}),
		diag.NewError(diag.SynExtraText, at(5, 5), "fifth").WithFix("empty"),
	}

	res, err := Apply(file, diags, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(res.Content); got != "Xcd-ef" {
		t.Fatalf("content = %q", got)
	}
	reasons := map[string]string{}
	for _, s := range res.Skipped {
		reasons[s.Title] = s.Reason
	}
	want := map[string]string{
		"alternative":  "alternative fix",
		"replace bc":   "conflicts with a previously applied fix",
		"out of range": "edit span out of range",
		"empty":        "fix has no edits",
	}
	for title, reason := range want {
		if reasons[title] != reason {
			t.Errorf("%s: reason %q, want %q", title, reasons[title], reason)
		}
	}
}

func TestApplyWithoutFixes(t *testing.T) {
	file, diags := parseDiagnostics(t, "todo")
	res, err := Apply(file, diags, ApplyOptions{})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
	if string(res.Content) != "todo" {
		t.Fatalf("content changed: %q", res.Content)
	}
}

func TestWriteFileKeepsMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "list.todo")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := WriteFile(path, []byte("todo x")); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("mode = %v", info.Mode().Perm())
	}
	data, _ := os.ReadFile(path)
	if string(data) != "todo x" {
		t.Fatalf("content = %q", data)
	}
}
