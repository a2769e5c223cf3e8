package diag

import (
	"fmt"
	"sort"
	"strings"
)

type shortDiagnostic struct {
	Severity Severity
	Code     string
	Line     uint32
	Column   uint32
	Message  string
	Note     bool
}

// FormatShortDiagnostics renders diagnostics into a stable, single-line-per-entry
// representation intended for golden files and CLI short output.
// Line and column are 1-based.
func FormatShortDiagnostics(path string, diags []Diagnostic, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}

	rendered := make([]shortDiagnostic, 0, len(diags))
	for _, d := range diags {
		lc := d.Primary.Start.LineCol()
		rendered = append(rendered, shortDiagnostic{
			Severity: d.Severity,
			Code:     d.Code.ID(),
			Line:     lc.Line,
			Column:   lc.Col,
			Message:  sanitizeMessage(d.Message),
		})
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			nlc := note.Span.Start.LineCol()
			rendered = append(rendered, shortDiagnostic{
				Code:    d.Code.ID(),
				Line:    nlc.Line,
				Column:  nlc.Col,
				Message: sanitizeMessage(note.Msg),
				Note:    true,
			})
		}
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		return di.Column < dj.Column
	})

	var b strings.Builder
	for i, d := range rendered {
		label := d.Severity.Label()
		if d.Note {
			label = "note"
		}
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", label, d.Code, path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
