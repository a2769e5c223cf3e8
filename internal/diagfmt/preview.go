package diagfmt

import (
	"fmt"
	"strings"

	"mynd/internal/diag"
	"mynd/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview applies one edit to the lines it touches and returns
// both versions of that block.
func buildFixEditPreview(file *source.File, edit diag.FixEdit) (fixEditPreview, error) {
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("nil file")
	}

	startLine := int(edit.Span.Start.Line)
	endLine := max(int(edit.Span.End.Line), startLine)

	blockStart := file.LineStart(startLine)
	blockEnd := max(file.LineStart(endLine+1), blockStart)
	blockEnd = min(blockEnd, file.Size())

	original := file.Content[blockStart:blockEnd]

	if edit.Span.Start.Offset < blockStart || edit.Span.Start.Offset > blockEnd {
		return fixEditPreview{}, fmt.Errorf("edit span start %d out of range for preview block", edit.Span.Start.Offset)
	}
	if edit.Span.End.Offset < edit.Span.Start.Offset || edit.Span.End.Offset > blockEnd {
		return fixEditPreview{}, fmt.Errorf("edit span end %d out of range for preview block", edit.Span.End.Offset)
	}
	relStart := edit.Span.Start.Offset - blockStart
	relEnd := edit.Span.End.Offset - blockStart

	after := make([]byte, 0, len(original)+len(edit.NewText))
	after = append(after, original[:relStart]...)
	after = append(after, edit.NewText...)
	after = append(after, original[relEnd:]...)

	return fixEditPreview{
		before: splitPreviewLines(original),
		after:  splitPreviewLines(after),
	}, nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	text := strings.TrimRight(string(content), "\n")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
