package source

import "testing"

func pos(off, line, col uint32) Position {
	return Position{Offset: off, Line: line, Col: col}
}

func TestSpanBasics(t *testing.T) {
	tests := []struct {
		name  string
		span  Span
		empty bool
		len   uint32
	}{
		{"empty", pos(3, 0, 3).To(pos(3, 0, 3)), true, 0},
		{"single", pos(0, 0, 0).To(pos(1, 0, 1)), false, 1},
		{"multiline", pos(2, 0, 2).To(pos(10, 2, 1)), false, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.Empty(); got != tt.empty {
				t.Fatalf("Empty() = %v, want %v", got, tt.empty)
			}
			if got := tt.span.Len(); got != tt.len {
				t.Fatalf("Len() = %d, want %d", got, tt.len)
			}
		})
	}
}

func TestSpanCover(t *testing.T) {
	a := pos(4, 0, 4).To(pos(8, 0, 8))
	b := pos(1, 0, 1).To(pos(6, 0, 6))
	got := a.Cover(b)
	if got.Start.Offset != 1 || got.End.Offset != 8 {
		t.Fatalf("Cover() = %s, want offsets 1..8", got)
	}
}

func TestSpanContains(t *testing.T) {
	s := pos(2, 0, 2).To(pos(5, 0, 5))
	for off, want := range map[uint32]bool{1: false, 2: true, 4: true, 5: false} {
		if got := s.Contains(off); got != want {
			t.Fatalf("Contains(%d) = %v, want %v", off, got, want)
		}
	}
	empty := pos(7, 1, 0).To(pos(7, 1, 0))
	if !empty.Contains(7) {
		t.Fatalf("empty span should contain its own offset")
	}
}

func TestSpanSliceClamps(t *testing.T) {
	content := []byte("todo hi")
	s := pos(5, 0, 5).To(pos(40, 0, 40))
	if got := string(s.Slice(content)); got != "hi" {
		t.Fatalf("Slice() = %q, want %q", got, "hi")
	}
}

func TestPositionLineCol(t *testing.T) {
	lc := pos(12, 2, 3).LineCol()
	if lc.Line != 3 || lc.Col != 4 {
		t.Fatalf("LineCol() = %+v, want 3:4", lc)
	}
}
