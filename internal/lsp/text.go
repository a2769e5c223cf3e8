package lsp

import "unicode/utf8"

// applyChanges handles full replacement and, for clients that ignore the
// advertised sync kind, ranged edits.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := offsetForPosition(text, change.Range.Start)
		end := max(offsetForPosition(text, change.Range.End), start)
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetForPosition maps a UTF-16 based position to a byte offset, clamped
// to the line end and the text length.
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	line := 0
	i := 0
	for i < len(text) && line < pos.Line {
		if text[i] == '\n' {
			line++
		}
		i++
	}
	if line < pos.Line {
		return len(text)
	}
	units := 0
	for i < len(text) && text[i] != '\n' && units < pos.Character {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := utf16Len(r)
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}

func utf16Len(r rune) int {
	if r > 0xFFFF {
		return 2
	}
	return 1
}
