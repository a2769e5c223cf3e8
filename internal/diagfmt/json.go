package diagfmt

import (
	"encoding/json"
	"io"

	"mynd/internal/diag"
	"mynd/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// FixEditJSON представляет одно редактирование для JSON
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON представляет предложение по исправлению для JSON
type FixJSON struct {
	Title string        `json:"title"`
	Edits []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
	Fixes    []FixJSON    `json:"fixes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(path string, span source.Span, includePositions bool) LocationJSON {
	loc := LocationJSON{
		File:      path,
		StartByte: span.Start.Offset,
		EndByte:   span.End.Offset,
	}
	if includePositions {
		s, e := span.Start.LineCol(), span.End.LineCol()
		loc.StartLine, loc.StartCol = s.Line, s.Col
		loc.EndLine, loc.EndCol = e.Line, e.Col
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(file *source.File, diags []diag.Diagnostic, opts JSONOpts) DiagnosticsOutput {
	path := formatPath(file.Path, opts.PathMode, opts.BaseDir)

	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, 0, n)

	for _, d := range diags[:n] {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(path, d.Primary, opts.IncludePositions),
		}

		if opts.IncludeNotes {
			for _, note := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(path, note.Span, opts.IncludePositions),
				})
			}
		}

		if opts.IncludeFixes {
			for _, fix := range d.Fixes {
				fj := FixJSON{Title: fix.Title}
				for _, edit := range fix.Edits {
					ej := FixEditJSON{
						Location: makeLocation(path, edit.Span, opts.IncludePositions),
						NewText:  edit.NewText,
					}
					if opts.IncludePreviews {
						if pv, err := buildFixEditPreview(file, edit); err == nil {
							ej.BeforeLines = pv.before
							ej.AfterLines = pv.after
						}
					}
					fj.Edits = append(fj.Edits, ej)
				}
				dj.Fixes = append(dj.Fixes, fj)
			}
		}

		out = append(out, dj)
	}

	return DiagnosticsOutput{Diagnostics: out, Count: len(out)}
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, file *source.File, diags []diag.Diagnostic, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(file, diags, opts))
}
