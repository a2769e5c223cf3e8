package driver

import (
	"context"
	"fmt"

	"mynd/internal/reconcile"
	"mynd/internal/todo"
)

// SyncFile parses path, reconciles it against store and flushes the store,
// the same pipeline the language server runs on save. The document key is
// the file path; a fresh engine knows nothing about the file, so a one-off
// sync only adds records and never retracts.
func SyncFile(ctx context.Context, path string, engine *reconcile.Engine, store todo.Store, opts Options) (*reconcile.Report, *ParseResult, error) {
	res, err := Parse(ctx, path, opts)
	if err != nil {
		return nil, nil, err
	}

	idx := opts.Timer.Begin("reconcile")
	report, err := engine.Sync(ctx, res.File.Path, res.Outcome, store)
	opts.Timer.End(idx, "")
	if err != nil {
		return nil, res, err
	}

	idx = opts.Timer.Begin("flush")
	err = store.Flush(ctx)
	opts.Timer.End(idx, "")
	if err != nil {
		return report, res, fmt.Errorf("flush store: %w", err)
	}
	return report, res, nil
}
