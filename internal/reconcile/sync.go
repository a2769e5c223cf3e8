package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mynd/internal/diag"
	"mynd/internal/parser"
	"mynd/internal/todo"
	"mynd/internal/trace"
)

// Op names the store operation that failed.
type Op string

const (
	OpUpsert  Op = "upsert"
	OpRetract Op = "retract"
)

// Failure is a per-record store error that did not abort the call.
type Failure struct {
	Op  Op
	ID  todo.ID
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Op, f.ID.Short(), f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Report describes what Sync did.
type Report struct {
	Plan      *Plan
	Upserted  int
	Retracted int
	Failures  []Failure
	// Diagnostics holds the plan's diagnostics plus one per failed upsert.
	Diagnostics []diag.Diagnostic
}

// Sync reconciles doc against store and applies the result.
//
// A store lock or snapshot read failure aborts the call: the error is
// returned and the document's membership is left unchanged, so the next
// edit retries. Other per-record failures are collected in Report.Failures
// and the remaining records are still processed. Ids whose retraction failed
// stay in the membership set and are retried next time.
func (e *Engine) Sync(ctx context.Context, doc string, outcome parser.Outcome, store todo.Store) (*Report, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDocument, "reconcile")
	defer span.End("")

	snapshot, err := store.GetAll()
	if err != nil {
		trace.Error(ctx, "reconcile.snapshot", err)
		return nil, fmt.Errorf("read store snapshot: %w", err)
	}

	plan := e.Plan(doc, outcome, snapshot)
	report := &Report{Plan: plan}
	report.Diagnostics = append(report.Diagnostics, plan.Diagnostics...)

	for _, rec := range plan.Created {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		err := store.Upsert(rec)
		switch {
		case err == nil:
			report.Upserted++
			trace.Point(ctx, trace.ScopeItem, "upsert", rec.ID.Short())
		case errors.Is(err, todo.ErrLocked):
			return nil, fmt.Errorf("upsert %s: %w", rec.ID.Short(), err)
		default:
			e.fail(ctx, report, Failure{Op: OpUpsert, ID: rec.ID, Err: err})
			if sp, ok := plan.SpanOf(rec.ID); ok {
				report.Diagnostics = append(report.Diagnostics,
					diag.NewError(diag.StoreFailure, sp, "failed to save todo: "+err.Error()))
			}
		}
	}

	for _, id := range plan.Retracted {
		err := store.Retract(id)
		switch {
		case err == nil:
			report.Retracted++
			trace.Point(ctx, trace.ScopeItem, "retract", id.Short())
		case errors.Is(err, todo.ErrNotFound):
			// уже удалено другой командой
			report.Retracted++
		case errors.Is(err, todo.ErrLocked):
			return nil, fmt.Errorf("retract %s: %w", id.Short(), err)
		default:
			e.fail(ctx, report, Failure{Op: OpRetract, ID: id, Err: err})
			plan.current[id] = struct{}{}
		}
	}

	e.Commit(plan)
	span.WithExtra("upserted", strconv.Itoa(report.Upserted)).
		WithExtra("retracted", strconv.Itoa(report.Retracted)).
		WithExtra("failures", strconv.Itoa(len(report.Failures)))
	return report, nil
}

func (e *Engine) fail(ctx context.Context, report *Report, f Failure) {
	report.Failures = append(report.Failures, f)
	e.log.Error().Ctx(ctx).Err(f.Err).Str("op", string(f.Op)).Str("id", f.ID.Short()).Msg("store operation failed")
	trace.Error(ctx, "reconcile."+string(f.Op), f)
}
