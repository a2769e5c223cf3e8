package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLevelShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		kind  Kind
		want  bool
	}{
		{LevelOff, ScopeCommand, KindError, false},
		{LevelError, ScopeCommand, KindSpanBegin, false},
		{LevelError, ScopeItem, KindError, true},
		{LevelPhase, ScopePhase, KindSpanBegin, true},
		{LevelPhase, ScopeDocument, KindSpanBegin, false},
		{LevelDetail, ScopeDocument, KindPoint, true},
		{LevelDetail, ScopeItem, KindPoint, false},
		{LevelDebug, ScopeItem, KindPoint, true},
	}
	for _, c := range cases {
		if got := c.level.ShouldEmit(c.scope, c.kind); got != c.want {
			t.Fatalf("%s.ShouldEmit(%s, %s) = %v, want %v", c.level, c.scope, c.kind, got, c.want)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("ParseLevel(loud) should fail")
	}
	if m, err := ParseMode("both"); err != nil || m != ModeBoth {
		t.Fatalf("ParseMode = %v, %v", m, err)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	ctx, cmd := Start(ctx, ScopeCommand, "check")
	_, phase := Start(ctx, ScopePhase, "parse")
	phase.WithExtra("files", "2").End("")
	Point(ctx, ScopeItem, "item", "filtered out at phase level")
	cmd.End("ok")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind     string            `json:"kind"`
		Name     string            `json:"name"`
		ParentID uint64            `json:"parent_id"`
		Extra    map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.Kind != "end" || ev.Name != "parse" || ev.ParentID != cmd.ID() || ev.Extra["files"] != "2" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(2, LevelDebug)
	for _, name := range []string{"a", "b", "c"} {
		r.Emit(&Event{Kind: KindPoint, Scope: ScopeItem, Name: name})
	}
	snap := r.Snapshot()
	if len(snap) != 2 || snap[0].Name != "b" || snap[1].Name != "c" {
		t.Fatalf("snapshot = %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(buf.String(), "• c") {
		t.Fatalf("dump = %q", buf.String())
	}
}

func TestNewBothExposesRing(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelError, Mode: ModeBoth, Output: &buf, Format: FormatText})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := WithTracer(context.Background(), tr)
	Error(ctx, "flush", errors.New("disk full"))

	ring, ok := Ring(tr)
	if !ok || len(ring.Snapshot()) != 1 {
		t.Fatalf("ring missing or empty")
	}
	if !strings.Contains(buf.String(), "! flush (disk full)") {
		t.Fatalf("stream output = %q", buf.String())
	}
}

func TestNopByDefault(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop tracer")
	}
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("LevelOff should yield a disabled tracer")
	}
	_, sp := Start(context.Background(), ScopeCommand, "x")
	if sp.End("") != 0 {
		t.Fatalf("nop span should report zero duration")
	}
}
