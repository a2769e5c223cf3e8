package lsp

import (
	"unicode/utf8"

	"fortio.org/safecast"

	"mynd/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

func offsetForPositionInFile(file *source.File, pos position) uint32 {
	if file == nil {
		return 0
	}
	return safeUint32(offsetForPosition(string(file.Content), pos))
}

// positionFor keeps the line tracked by the lexer and re-derives the column
// in UTF-16 code units from the byte offset, which is what editors count.
func positionFor(file *source.File, p source.Position) position {
	if file == nil {
		return position{Line: int(p.Line), Character: int(p.Col)}
	}
	lineStart := file.LineStart(int(p.Line))
	end := min(p.Offset, file.Size())
	units := 0
	for off := lineStart; off < end; {
		r, size := utf8.DecodeRune(file.Content[off:end])
		units += utf16Len(r)
		off += safeUint32(size)
	}
	return position{Line: int(p.Line), Character: units}
}

func rangeForSpan(file *source.File, span source.Span) lspRange {
	return lspRange{
		Start: positionFor(file, span.Start),
		End:   positionFor(file, span.End),
	}
}
