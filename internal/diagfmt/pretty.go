package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mynd/internal/diag"
	"mynd/internal/source"
)

type palette struct {
	err, warn, info *color.Color
	gutter, note    *color.Color
	fix, bold       *color.Color
}

func newPalette(on bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		gutter: mk(color.FgBlue),
		note:   mk(color.FgCyan),
		fix:    mk(color.FgGreen),
		bold:   mk(color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики одного файла в человекочитаемый вид.
// Для каждой печатает
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строку с подчёркиванием ^~~~ по Span и, по опциям, notes и fixes.
// Порядок диагностик сохраняется (ожидается bag.Sort() заранее).
func Pretty(w io.Writer, file *source.File, diags []diag.Diagnostic, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	path := formatPath(file.Path, opts.PathMode, opts.BaseDir)

	for i, d := range diags {
		if i > 0 {
			fmt.Fprintln(w)
		}
		lc := d.Primary.Start.LineCol()
		sev := pal.severity(d.Severity)
		fmt.Fprintf(w, "%s:%d:%d: %s %s\n",
			path, lc.Line, lc.Col,
			sev.Sprintf("%s %s:", d.Severity, d.Code.ID()),
			pal.bold.Sprint(d.Message))

		writeSnippet(w, file, d.Primary, opts.Context, pal, sev)

		if opts.ShowNotes {
			for _, n := range d.Notes {
				nlc := n.Span.Start.LineCol()
				fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"), path, nlc.Line, nlc.Col, n.Msg)
			}
		}
		if opts.ShowFixes {
			writeFixes(w, file, d.Fixes, opts.ShowPreview, pal)
		}
	}
}

func writeSnippet(w io.Writer, file *source.File, sp source.Span, context int, pal palette, sev *color.Color) {
	line := int(sp.Start.Line) + 1
	total := len(file.LineIdx) + 1
	first := max(1, line-max(context, 0))
	last := min(total, line+max(context, 0))

	width := len(strconv.Itoa(last))
	bar := pal.gutter.Sprint("|")
	blank := strings.Repeat(" ", width)

	for n := first; n <= last; n++ {
		text := file.GetLine(uint32(n)) // #nosec G115 -- n is bounded by the line count
		fmt.Fprintf(w, " %s %s %s\n", pal.gutter.Sprintf("%*d", width, n), bar, text)
		if n == line {
			pad, marks := underline(text, sp)
			fmt.Fprintf(w, " %s %s %s%s\n", blank, bar, pad, sev.Sprint(marks))
		}
	}
}

// underline builds the caret line for sp on its first line. Columns are
// counted in runes and rendered with their display width.
func underline(text string, sp source.Span) (string, string) {
	runes := []rune(text)
	start := min(int(sp.Start.Col), len(runes))
	end := len(runes)
	if sp.End.Line == sp.Start.Line {
		end = min(int(sp.End.Col), len(runes))
	}
	end = max(end, start)

	var pad strings.Builder
	for _, r := range runes[:start] {
		if r == '\t' {
			pad.WriteByte('\t')
			continue
		}
		pad.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}

	n := max(runewidth.StringWidth(string(runes[start:end])), 1)
	return pad.String(), "^" + strings.Repeat("~", n-1)
}

func writeFixes(w io.Writer, file *source.File, fixes []diag.Fix, preview bool, pal palette) {
	for i, fix := range fixes {
		fmt.Fprintf(w, "  %s %s\n", pal.fix.Sprintf("fix #%d:", i+1), fix.Title)
		for _, edit := range fix.Edits {
			fmt.Fprintf(w, "    edit %s apply=%q\n", formatRange(edit.Span), edit.NewText)
			if !preview {
				continue
			}
			pv, err := buildFixEditPreview(file, edit)
			if err != nil {
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, l := range pv.before {
				fmt.Fprintf(w, "      %s\n", pal.err.Sprint("- "+l))
			}
			for _, l := range pv.after {
				fmt.Fprintf(w, "      %s\n", pal.fix.Sprint("+ "+l))
			}
		}
	}
}

func formatRange(sp source.Span) string {
	s, e := sp.Start.LineCol(), sp.End.LineCol()
	return fmt.Sprintf("%d:%d-%d:%d", s.Line, s.Col, e.Line, e.Col)
}
