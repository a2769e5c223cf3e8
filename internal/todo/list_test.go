package todo

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"
)

type memDB struct {
	records []Record
	saves   int
	failErr error
}

func (m *memDB) Load(context.Context) ([]Record, error) {
	return slices.Clone(m.records), nil
}

func (m *memDB) Save(_ context.Context, records []Record) error {
	if m.failErr != nil {
		return m.failErr
	}
	m.records = slices.Clone(records)
	m.saves++
	return nil
}

func (m *memDB) Close() error { return nil }

func fixedClock() func() time.Time {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return t0 }
}

// listOf adds messages in order, so the last one ends up first.
func listOf(t *testing.T, msgs ...string) *List {
	t.Helper()
	l := NewList(&memDB{})
	l.SetClock(fixedClock())
	for _, m := range msgs {
		if _, err := l.Add(m); err != nil {
			t.Fatalf("Add(%q): %v", m, err)
		}
	}
	return l
}

func messages(t *testing.T, l *List) []string {
	t.Helper()
	all, err := l.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	out := make([]string, 0, len(all))
	for _, r := range all {
		out = append(out, r.Message)
	}
	return out
}

func TestHashMessage(t *testing.T) {
	a := HashMessage("a")
	if a != HashMessage("a") {
		t.Fatalf("hash is not deterministic")
	}
	if a == HashMessage("b") || a == HashMessage("a ") {
		t.Fatalf("distinct messages must hash differently")
	}
	if len(a) != 64 || a.Short() != string(a[:8]) {
		t.Fatalf("unexpected id shape %q", a)
	}
	// sha256("a")
	if a != "ca978112ca1bbdcafac231b39a23dc4da786eff8147c4e72b9807785afee48bb" {
		t.Fatalf("HashMessage(a) = %s", a)
	}
}

func TestAddInsertsAtFront(t *testing.T) {
	l := listOf(t, "1", "2", "3")
	if got := messages(t, l); !slices.Equal(got, []string{"3", "2", "1"}) {
		t.Fatalf("order = %v", got)
	}
	rec, err := l.Add("plain")
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if rec.Message != "plain" || rec.ID != HashMessage("plain") || rec.Done {
		t.Fatalf("record = %+v", rec)
	}
}

func TestAddKeepsMessageAsGiven(t *testing.T) {
	l := listOf(t, "buy milk")
	rec, err := l.Add("buy milk ")
	if err != nil {
		t.Fatalf("Add with trailing space: %v", err)
	}
	if rec.Message != "buy milk " || rec.ID != HashMessage("buy milk ") {
		t.Fatalf("record = %+v", rec)
	}
	if _, err := l.Add("buy milk "); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second Add err = %v, want ErrDuplicate", err)
	}
}

func TestAddDuplicate(t *testing.T) {
	l := listOf(t, "same")
	_, err := l.Add("same")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("err = %v, want ErrDuplicate", err)
	}
}

func TestRemoveAndMarkDone(t *testing.T) {
	l := listOf(t, "a", "b", "c")
	if err := l.Remove(HashMessage("b")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := l.Remove(HashMessage("b")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Remove: %v", err)
	}
	rec, err := l.MarkDone(HashMessage("a"))
	if err != nil || !rec.Done {
		t.Fatalf("MarkDone: %+v %v", rec, err)
	}
	rec, _ = l.MarkDone(HashMessage("a"))
	if rec.Done {
		t.Fatalf("MarkDone must toggle")
	}
	_, _ = l.MarkDone(HashMessage("c"))
	n, err := l.RemoveDone()
	if err != nil || n != 1 {
		t.Fatalf("RemoveDone = %d, %v", n, err)
	}
	if got := messages(t, l); !slices.Equal(got, []string{"a"}) {
		t.Fatalf("after RemoveDone: %v", got)
	}
}

func TestMoveUpDown(t *testing.T) {
	l := listOf(t, "3", "2", "1") // [1 2 3]
	if err := l.MoveUp(HashMessage("1")); err != nil {
		t.Fatalf("MoveUp at top: %v", err)
	}
	if err := l.MoveDown(HashMessage("3")); err != nil {
		t.Fatalf("MoveDown at bottom: %v", err)
	}
	if got := messages(t, l); !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Fatalf("edge moves changed order: %v", got)
	}
	_ = l.MoveDown(HashMessage("1"))
	if got := messages(t, l); !slices.Equal(got, []string{"2", "1", "3"}) {
		t.Fatalf("MoveDown: %v", got)
	}
	_ = l.MoveUp(HashMessage("3"))
	if got := messages(t, l); !slices.Equal(got, []string{"2", "3", "1"}) {
		t.Fatalf("MoveUp: %v", got)
	}
}

func TestMoveBelow(t *testing.T) {
	tests := []struct {
		name       string
		id, target string
		want       []string
	}{
		{"down the list", "5", "3", []string{"4", "3", "5", "2", "1"}},
		{"up the list", "2", "5", []string{"5", "2", "4", "3", "1"}},
		{"to the bottom", "5", "1", []string{"4", "3", "2", "1", "5"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := listOf(t, "1", "2", "3", "4", "5")
			if err := l.MoveBelow(HashMessage(tt.id), HashMessage(tt.target)); err != nil {
				t.Fatalf("MoveBelow: %v", err)
			}
			if got := messages(t, l); !slices.Equal(got, tt.want) {
				t.Fatalf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMoveBelowNoops(t *testing.T) {
	l := listOf(t, "1", "2", "3") // [3 2 1]
	if err := l.MoveBelow(HashMessage("2"), HashMessage("2")); !errors.Is(err, ErrNoop) {
		t.Fatalf("self move: %v", err)
	}
	if err := l.MoveBelow(HashMessage("2"), HashMessage("3")); !errors.Is(err, ErrNoop) {
		t.Fatalf("already below: %v", err)
	}
	if err := l.MoveBelow(HashMessage("x"), HashMessage("3")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
}

func TestUpsertAndRetract(t *testing.T) {
	l := listOf(t, "a")
	rec := NewRecord("b", time.Now())
	if err := l.Upsert(rec); err != nil {
		t.Fatalf("Upsert new: %v", err)
	}
	rec.Done = true
	if err := l.Upsert(rec); err != nil {
		t.Fatalf("Upsert existing: %v", err)
	}
	if got := messages(t, l); !slices.Equal(got, []string{"b", "a"}) {
		t.Fatalf("order = %v", got)
	}
	got, _ := l.Get(rec.ID)
	if !got.Done {
		t.Fatalf("Upsert did not replace in place")
	}
	if err := l.Retract(rec.ID); err != nil {
		t.Fatalf("Retract: %v", err)
	}
	if err := l.Retract(rec.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Retract missing: %v", err)
	}
}

func TestResolvePrefix(t *testing.T) {
	l := listOf(t, "a", "b")
	id := HashMessage("a")
	got, err := l.Resolve(id.Short())
	if err != nil || got != id {
		t.Fatalf("Resolve = %q, %v", got, err)
	}
	if _, err := l.Resolve(""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty prefix: %v", err)
	}
	if _, err := l.Resolve("zz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown prefix: %v", err)
	}
}

func TestTryLockFailsFast(t *testing.T) {
	l := listOf(t, "a")
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.GetAll(); !errors.Is(err, ErrLocked) {
		t.Fatalf("GetAll: %v", err)
	}
	if _, err := l.Add("b"); !errors.Is(err, ErrLocked) {
		t.Fatalf("Add: %v", err)
	}
	if err := l.Flush(context.Background()); !errors.Is(err, ErrLocked) {
		t.Fatalf("Flush: %v", err)
	}
}

func TestFlushAndReload(t *testing.T) {
	ctx := context.Background()
	db := &memDB{}
	l, err := Open(ctx, db)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := l.Flush(ctx); err != nil || db.saves != 0 {
		t.Fatalf("clean flush should not save: %v saves=%d", err, db.saves)
	}
	_, _ = l.Add("persist me")
	if !l.Dirty() {
		t.Fatalf("list should be dirty after Add")
	}
	if err := l.Flush(ctx); err != nil || db.saves != 1 {
		t.Fatalf("Flush: %v saves=%d", err, db.saves)
	}

	other, err := Open(ctx, db)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got := messages(t, other); !slices.Equal(got, []string{"persist me"}) {
		t.Fatalf("reloaded = %v", got)
	}
}

func TestFlushErrorKeepsDirty(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk full")
	db := &memDB{failErr: boom}
	l := NewList(db)
	_, _ = l.Add("x")
	if err := l.Flush(ctx); !errors.Is(err, boom) {
		t.Fatalf("Flush err = %v", err)
	}
	if !l.Dirty() {
		t.Fatalf("failed flush must keep the list dirty")
	}
}
