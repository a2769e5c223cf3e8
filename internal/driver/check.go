package driver

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"mynd/internal/diag"
	"mynd/internal/parser"
	"mynd/internal/source"
)

// CheckResult содержит результат разбора одного файла.
type CheckResult struct {
	Path    string
	File    *source.File // nil, если файл не загрузился
	Outcome parser.Outcome
	Bag     *diag.Bag
}

// CheckSummary aggregates a run for the final status line.
type CheckSummary struct {
	Files    int
	Items    int
	Errors   int
	Warnings int
}

// CheckFiles parses files in parallel. Results keep the order of files.
// A file that cannot be read yields an error diagnostic, not a failed run;
// the returned error is only set on cancellation.
func CheckFiles(ctx context.Context, files []string, opts Options) ([]CheckResult, error) {
	results := make([]CheckResult, len(files))
	if len(files) == 0 {
		return results, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	for _, path := range files {
		opts.Progress.emit(Event{File: path, Stage: StageQueued, Status: StatusQueued})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			started := time.Now()
			opts.Progress.emit(Event{File: path, Stage: StageParse, Status: StatusWorking})

			res, err := Parse(gctx, path, opts)
			if err != nil {
				bag := diag.NewBag(opts.MaxDiagnostics)
				bag.Add(diag.NewError(diag.IOLoadFile, source.Span{}, "failed to load file: "+err.Error()))
				// индекс i уникален для горутины, мьютекс не нужен
				results[i] = CheckResult{Path: path, Bag: bag}
				opts.Progress.emit(Event{File: path, Stage: StageLoad, Status: StatusError, Elapsed: time.Since(started)})
				return nil
			}

			results[i] = CheckResult{Path: path, File: res.File, Outcome: res.Outcome, Bag: res.Bag}
			status := StatusDone
			if res.Bag.HasErrors() {
				status = StatusError
			}
			opts.Progress.emit(Event{File: path, Stage: StageParse, Status: status, Elapsed: time.Since(started)})
			return nil
		})
	}

	err := g.Wait()
	opts.Progress.emit(Event{Stage: StageParse, Status: StatusDone})
	return results, err
}

// Summarize counts items and diagnostics over all results.
func Summarize(results []CheckResult) CheckSummary {
	s := CheckSummary{Files: len(results)}
	for _, r := range results {
		s.Items += len(r.Outcome.Items())
		if r.Bag == nil {
			continue
		}
		for _, d := range r.Bag.Items() {
			switch d.Severity {
			case diag.SevError:
				s.Errors++
			case diag.SevWarning:
				s.Warnings++
			}
		}
	}
	return s
}
