package reconcile

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"mynd/internal/diag"
	"mynd/internal/parser"
	"mynd/internal/todo"
)

var t0 = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newEngine() *Engine {
	return NewEngine(WithClock(func() time.Time { return t0 }))
}

func parse(text string) parser.Outcome {
	return parser.Parse("doc.todo", text)
}

// hookStore wraps a List and lets tests inject failures.
type hookStore struct {
	*todo.List
	snapshotErr error
	upsertErr   func(todo.Record) error
	retractErr  func(todo.ID) error
}

func newStore(msgs ...string) *hookStore {
	l := todo.NewList(nil)
	for _, m := range msgs {
		_, _ = l.Add(m)
	}
	return &hookStore{List: l}
}

func (s *hookStore) GetAll() ([]todo.Record, error) {
	if s.snapshotErr != nil {
		return nil, s.snapshotErr
	}
	return s.List.GetAll()
}

func (s *hookStore) Upsert(r todo.Record) error {
	if s.upsertErr != nil {
		if err := s.upsertErr(r); err != nil {
			return err
		}
	}
	return s.List.Upsert(r)
}

func (s *hookStore) Retract(id todo.ID) error {
	if s.retractErr != nil {
		if err := s.retractErr(id); err != nil {
			return err
		}
	}
	return s.List.Retract(id)
}

func ids(msgs ...string) []todo.ID {
	out := make([]todo.ID, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, todo.HashMessage(m))
	}
	slices.Sort(out)
	return out
}

func createdIDs(p *Plan) []todo.ID {
	out := make([]todo.ID, 0, len(p.Created))
	for _, r := range p.Created {
		out = append(out, r.ID)
	}
	return out
}

func TestRepeatedMessageCollapses(t *testing.T) {
	e := newEngine()
	p := e.Reconcile("doc", parse("todo a\ntodo b\ntodo a"), nil)
	if got := createdIDs(p); !slices.Equal(got, []todo.ID{todo.HashMessage("a"), todo.HashMessage("b")}) {
		t.Fatalf("created = %v", got)
	}
	if len(p.Retracted) != 0 || len(p.Diagnostics) != 0 {
		t.Fatalf("retracted = %v, diagnostics = %v", p.Retracted, p.Diagnostics)
	}
	if p.Created[0].CreatedAt != t0 || p.Created[0].Done {
		t.Fatalf("new record = %+v", p.Created[0])
	}
}

func TestUnknownDocumentRetractsNothing(t *testing.T) {
	e := newEngine()
	snapshot := []todo.Record{todo.NewRecord("from cli", t0)}
	p := e.Plan("doc", parse("todo x"), snapshot)
	if len(p.Retracted) != 0 {
		t.Fatalf("retracted = %v", p.Retracted)
	}
	if e.Tracked("doc") {
		t.Fatalf("Plan must not create membership")
	}
}

func TestKeptRecordsAreReusedUnchanged(t *testing.T) {
	e := newEngine()
	old := todo.NewRecord("a", t0.Add(-48*time.Hour))
	old.Done = true
	p := e.Plan("doc", parse("todo a"), []todo.Record{old})
	if len(p.Created) != 0 || len(p.Kept) != 1 || p.Kept[0] != old {
		t.Fatalf("plan = %+v", p)
	}
	if len(p.Upserts()) != 1 {
		t.Fatalf("Upserts() = %v", p.Upserts())
	}
}

func TestDeletionDetection(t *testing.T) {
	e := newEngine()
	p1 := e.Reconcile("doc", parse("todo A\ntodo B"), nil)
	snapshot := p1.Upserts()

	p2 := e.Reconcile("doc", parse("todo A"), snapshot)
	if !slices.Equal(p2.Retracted, ids("B")) {
		t.Fatalf("retracted = %v", p2.Retracted)
	}
	if len(p2.Created) != 0 {
		t.Fatalf("created = %v", p2.Created)
	}
	if !slices.Equal(e.Members("doc"), ids("A")) {
		t.Fatalf("members = %v", e.Members("doc"))
	}
}

func TestEmptyBufferRetractsEverything(t *testing.T) {
	e := newEngine()
	e.Reconcile("doc", parse("todo a\ntodo b"), nil)
	p := e.Reconcile("doc", parse(""), nil)
	if !slices.Equal(p.Retracted, ids("a", "b")) {
		t.Fatalf("retracted = %v", p.Retracted)
	}
	if len(p.Diagnostics) != 1 || p.Diagnostics[0].Code != diag.SynUnexpectedEOF {
		t.Fatalf("diagnostics = %+v", p.Diagnostics)
	}
}

func TestParseErrorsBecomeDiagnostics(t *testing.T) {
	e := newEngine()
	p := e.Plan("doc", parse("todo ok\nstray\ntodo todo\ntodo"), nil)
	if len(p.Created) != 1 {
		t.Fatalf("created = %v", p.Created)
	}
	codes := []diag.Code{}
	for _, d := range p.Diagnostics {
		codes = append(codes, d.Code)
	}
	want := []diag.Code{diag.SynExtraText, diag.SynUnexpectedToken, diag.SynUnexpectedEOF}
	if !slices.Equal(codes, want) {
		t.Fatalf("codes = %v, want %v", codes, want)
	}
	if p.Diagnostics[0].Primary.Start.Line != 1 {
		t.Fatalf("extra text on line %d", p.Diagnostics[0].Primary.Start.Line)
	}
}

func TestNFCWarning(t *testing.T) {
	e := newEngine()
	p := e.Plan("doc", parse("todo cafe\u0301"), nil)
	if len(p.Diagnostics) != 1 || p.Diagnostics[0].Code != diag.StoreNotNFC || p.Diagnostics[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics = %+v", p.Diagnostics)
	}
	quiet := NewEngine(WithNFCLint(false))
	if p := quiet.Plan("doc", parse("todo cafe\u0301"), nil); len(p.Diagnostics) != 0 {
		t.Fatalf("lint disabled but got %+v", p.Diagnostics)
	}
}

func TestDocumentsAreIndependent(t *testing.T) {
	e := newEngine()
	e.Reconcile("one", parse("todo a"), nil)
	e.Reconcile("two", parse("todo b"), nil)
	p := e.Reconcile("one", parse("todo c"), nil)
	if !slices.Equal(p.Retracted, ids("a")) {
		t.Fatalf("retracted = %v", p.Retracted)
	}
	if !slices.Equal(e.Members("two"), ids("b")) {
		t.Fatalf("doc two members changed: %v", e.Members("two"))
	}
	e.Forget("one")
	if e.Tracked("one") || !slices.Equal(e.Documents(), []string{"two"}) {
		t.Fatalf("Forget did not drop doc one: %v", e.Documents())
	}
}

func TestPlanSpansAndLookup(t *testing.T) {
	e := newEngine()
	p := e.Plan("doc", parse("todo a\ntodo {\n b\n}"), nil)
	id, sp, ok := p.IDAt(5)
	if !ok || id != todo.HashMessage("a") || sp.Start.Offset != 5 || sp.End.Offset != 6 {
		t.Fatalf("IDAt(5) = %v, %s, %v", id, sp, ok)
	}
	if _, _, ok := p.IDAt(2); ok {
		t.Fatalf("keyword offset should not map to an item")
	}
	sp, ok = p.SpanOf(todo.HashMessage("b"))
	if !ok || sp.Start.Line != 1 || sp.End.Line != 3 {
		t.Fatalf("SpanOf(b) = %s, %v", sp, ok)
	}
}

func TestIDAtFindsEveryOccurrence(t *testing.T) {
	e := newEngine()
	p := e.Plan("doc", parse("todo a\ntodo b\ntodo a"), nil)
	if len(p.Created) != 2 {
		t.Fatalf("created = %d, want 2", len(p.Created))
	}

	id, sp, ok := p.IDAt(19)
	if !ok || id != todo.HashMessage("a") {
		t.Fatalf("IDAt(19) = %v, %v", id, ok)
	}
	if sp.Start.Line != 2 || sp.Start.Offset != 19 || sp.End.Offset != 20 {
		t.Fatalf("second occurrence span = %s", sp)
	}

	first, ok := p.SpanOf(todo.HashMessage("a"))
	if !ok || first.Start.Offset != 5 {
		t.Fatalf("SpanOf(a) = %s, %v", first, ok)
	}
}

func TestSyncConverges(t *testing.T) {
	ctx := context.Background()
	e := newEngine()
	store := newStore()
	text := parse("todo a\ntodo b\ntodo a")

	r1, err := e.Sync(ctx, "doc", text, store)
	if err != nil {
		t.Fatalf("first Sync: %v", err)
	}
	if r1.Upserted != 2 || r1.Retracted != 0 {
		t.Fatalf("first report = %+v", r1)
	}
	r2, err := e.Sync(ctx, "doc", text, store)
	if err != nil {
		t.Fatalf("second Sync: %v", err)
	}
	if r2.Upserted != 0 || r2.Retracted != 0 || !r2.Plan.Empty() {
		t.Fatalf("second report = %+v", r2)
	}
	if store.Len() != 2 {
		t.Fatalf("store has %d records", store.Len())
	}
}

func TestCommandAndDocumentConverge(t *testing.T) {
	ctx := context.Background()
	e := newEngine()
	store := newStore("buy milk ", "call mom")

	r, err := e.Sync(ctx, "doc", parse("todo buy milk \ntodo call mom"), store)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if r.Upserted != 0 || len(r.Plan.Kept) != 2 {
		t.Fatalf("report = %+v", r)
	}
	if store.Len() != 2 {
		t.Fatalf("store has %d records", store.Len())
	}
}

func TestSyncRetractsAndToleratesMissing(t *testing.T) {
	ctx := context.Background()
	e := newEngine()
	store := newStore()
	if _, err := e.Sync(ctx, "doc", parse("todo a\ntodo b\ntodo c"), store); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	// removed from the command path meanwhile
	_ = store.Remove(todo.HashMessage("c"))

	r, err := e.Sync(ctx, "doc", parse("todo a"), store)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if r.Retracted != 2 || len(r.Failures) != 0 {
		t.Fatalf("report = %+v", r)
	}
	all, _ := store.GetAll()
	if len(all) != 1 || all[0].Message != "a" {
		t.Fatalf("store = %+v", all)
	}
}

func TestSyncLockFailureLeavesMembership(t *testing.T) {
	ctx := context.Background()
	e := newEngine()
	store := newStore()
	if _, err := e.Sync(ctx, "doc", parse("todo a"), store); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	store.snapshotErr = todo.ErrLocked
	_, err := e.Sync(ctx, "doc", parse("todo b"), store)
	if !errors.Is(err, todo.ErrLocked) {
		t.Fatalf("err = %v, want ErrLocked", err)
	}
	if !slices.Equal(e.Members("doc"), ids("a")) {
		t.Fatalf("membership changed: %v", e.Members("doc"))
	}

	store.snapshotErr = nil
	store.upsertErr = func(todo.Record) error { return todo.ErrLocked }
	if _, err := e.Sync(ctx, "doc", parse("todo b"), store); !errors.Is(err, todo.ErrLocked) {
		t.Fatalf("mid-apply lock: %v", err)
	}
	if !slices.Equal(e.Members("doc"), ids("a")) {
		t.Fatalf("membership changed after mid-apply lock: %v", e.Members("doc"))
	}
}

func TestSyncPartialFailures(t *testing.T) {
	ctx := context.Background()
	e := newEngine()
	store := newStore()
	boom := errors.New("disk on fire")
	if _, err := e.Sync(ctx, "doc", parse("todo keep\ntodo drop"), store); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	store.upsertErr = func(r todo.Record) error {
		if r.Message == "bad" {
			return boom
		}
		return nil
	}
	store.retractErr = func(todo.ID) error { return boom }

	r, err := e.Sync(ctx, "doc", parse("todo keep\ntodo bad\ntodo good"), store)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if r.Upserted != 1 || len(r.Failures) != 2 {
		t.Fatalf("report = %+v", r)
	}
	if !errors.Is(r.Failures[0], boom) || r.Failures[0].Op != OpUpsert || r.Failures[1].Op != OpRetract {
		t.Fatalf("failures = %+v", r.Failures)
	}
	var storeDiag *diag.Diagnostic
	for i := range r.Diagnostics {
		if r.Diagnostics[i].Code == diag.StoreFailure {
			storeDiag = &r.Diagnostics[i]
		}
	}
	if storeDiag == nil || storeDiag.Primary.Start.Line != 1 {
		t.Fatalf("missing store failure diagnostic: %+v", r.Diagnostics)
	}
	// the failed retraction stays tracked so the next edit retries it
	if !slices.Contains(e.Members("doc"), todo.HashMessage("drop")) {
		t.Fatalf("members = %v", e.Members("doc"))
	}

	store.retractErr = nil
	r, err = e.Sync(ctx, "doc", parse("todo keep\ntodo good"), store)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !slices.Equal(r.Plan.Retracted, ids("bad", "drop")) {
		t.Fatalf("retry retracted = %v", r.Plan.Retracted)
	}
}
