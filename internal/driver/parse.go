package driver

import (
	"context"
	"strconv"

	"mynd/internal/diag"
	"mynd/internal/observ"
	"mynd/internal/parser"
	"mynd/internal/source"
	"mynd/internal/trace"
)

// Options shared by Parse, CheckFiles and SyncFile.
type Options struct {
	MaxDiagnostics int // <= 0: без ограничения
	Jobs           int // <= 0: GOMAXPROCS
	Timer          *observ.Timer
	Progress       ProgressFunc
}

type ParseResult struct {
	File    *source.File
	Outcome parser.Outcome
	Bag     *diag.Bag
}

// Parse loads and parses one file. Parse errors land in the bag; only an
// I/O failure is returned as an error.
func Parse(ctx context.Context, path string, opts Options) (*ParseResult, error) {
	ctx, span := trace.Start(ctx, trace.ScopeDocument, "parse-file")
	defer span.End(path)

	load := opts.Timer.Begin("load")
	file, err := source.Load(path)
	opts.Timer.End(load, path)
	if err != nil {
		trace.Error(ctx, "load", err)
		return nil, err
	}

	return parseLoaded(ctx, file, opts), nil
}

func parseLoaded(ctx context.Context, file *source.File, opts Options) *ParseResult {
	_, span := trace.Start(ctx, trace.ScopePhase, "parse")
	idx := opts.Timer.Begin("parse")

	bag := diag.NewBag(opts.MaxDiagnostics)
	outcome := parser.ParseFile(file, parser.Options{Reporter: diag.BagReporter{Bag: bag}})

	opts.Timer.End(idx, file.Path)
	span.WithExtra("entries", strconv.Itoa(len(outcome.Entries))).End("")
	return &ParseResult{File: file, Outcome: outcome, Bag: bag}
}
