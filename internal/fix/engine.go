// Package fix applies the machine-applicable fixes attached to diagnostics.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"mynd/internal/diag"
	"mynd/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeOnce applies the first fix in document order.
	ApplyModeOnce ApplyMode = iota
	// ApplyModeAll applies every fix that does not overlap an earlier one.
	ApplyModeAll
)

type ApplyOptions struct {
	Mode ApplyMode
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Title     string
	Code      diag.Code
	Message   string
	At        source.Position
	EditCount int
}

// SkippedFix captures a fix that was not applied and why.
type SkippedFix struct {
	Title  string
	At     source.Position
	Reason string
}

// Result holds the rewritten content next to what was applied.
type Result struct {
	Applied []AppliedFix
	Skipped []SkippedFix
	Content []byte
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply computes the content of file with the selected fixes applied.
// Only the first fix of each diagnostic is considered; alternatives are
// skipped. Edit spans refer to the original content. Nothing is written.
func Apply(file *source.File, diagnostics []diag.Diagnostic, opts ApplyOptions) (*Result, error) {
	if file == nil {
		return nil, fmt.Errorf("fix: file is nil")
	}
	result := &Result{Content: file.Content}

	cands, skips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, skips...)
	if len(cands) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(cands)
	if opts.Mode == ApplyModeOnce {
		for _, c := range cands[1:] {
			result.Skipped = append(result.Skipped, skip(c, "only one fix applied per run"))
		}
		cands = cands[:1]
	}

	size := uint32(len(file.Content))
	var accepted []diag.FixEdit
	for _, c := range cands {
		if reason := checkEdits(c.fix.Edits, accepted, size); reason != "" {
			result.Skipped = append(result.Skipped, skip(c, reason))
			continue
		}
		accepted = append(accepted, c.fix.Edits...)
		result.Applied = append(result.Applied, AppliedFix{
			Title:     c.fix.Title,
			Code:      c.diag.Code,
			Message:   c.diag.Message,
			At:        c.diag.Primary.Start,
			EditCount: len(c.fix.Edits),
		})
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}

	result.Content = applyEdits(file.Content, accepted)
	return result, nil
}

func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	var (
		cands []candidate
		skips []SkippedFix
	)
	for _, d := range diagnostics {
		for i, f := range d.Fixes {
			c := candidate{diag: d, fix: f, order: len(cands)}
			switch {
			case i > 0:
				skips = append(skips, skip(c, "alternative fix"))
			case len(f.Edits) == 0:
				skips = append(skips, skip(c, "fix has no edits"))
			default:
				cands = append(cands, c)
			}
		}
	}
	return cands, skips
}

// sortCandidates orders by primary span, then by diagnostic order.
func sortCandidates(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		pi, pj := cands[i].diag.Primary, cands[j].diag.Primary
		if pi.Start.Offset != pj.Start.Offset {
			return pi.Start.Offset < pj.Start.Offset
		}
		if pi.End.Offset != pj.End.Offset {
			return pi.End.Offset < pj.End.Offset
		}
		return cands[i].order < cands[j].order
	})
}

// checkEdits returns why edits cannot be applied on top of accepted, or "".
func checkEdits(edits, accepted []diag.FixEdit, size uint32) string {
	for i, e := range edits {
		if e.Span.End.Offset < e.Span.Start.Offset || e.Span.End.Offset > size {
			return "edit span out of range"
		}
		for _, prev := range accepted {
			if overlaps(e.Span, prev.Span) {
				return "conflicts with a previously applied fix"
			}
		}
		for _, other := range edits[:i] {
			if overlaps(e.Span, other.Span) {
				return "fix has overlapping edits"
			}
		}
	}
	return ""
}

// overlaps treats two insertions at the same offset as a conflict, since
// their relative order would be ambiguous.
func overlaps(a, b source.Span) bool {
	if a.Start.Offset == b.Start.Offset {
		return true
	}
	return a.Start.Offset < b.End.Offset && b.Start.Offset < a.End.Offset
}

// applyEdits splices non-overlapping edits into a copy of content.
func applyEdits(content []byte, edits []diag.FixEdit) []byte {
	sorted := append([]diag.FixEdit(nil), edits...)
	// с конца, чтобы смещения ещё не применённых правок оставались верными
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Span.Start.Offset > sorted[j].Span.Start.Offset
	})
	out := append([]byte(nil), content...)
	for _, e := range sorted {
		start, end := e.Span.Start.Offset, e.Span.End.Offset
		tail := append([]byte(nil), out[end:]...)
		out = append(append(out[:start], e.NewText...), tail...)
	}
	return out
}

func skip(c candidate, reason string) SkippedFix {
	return SkippedFix{Title: c.fix.Title, At: c.diag.Primary.Start, Reason: reason}
}

// WriteFile replaces path with content, keeping the file mode.
func WriteFile(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
