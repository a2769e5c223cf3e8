// Package prof wires the runtime profilers to command-line flags.
package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
)

// Options name the output files; empty disables that profile.
type Options struct {
	CPU       string
	Mem       string
	ExecTrace string
}

// Session holds the profilers started by Start.
type Session struct {
	opts      Options
	cpuFile   *os.File
	traceFile *os.File
}

// Start enables the CPU profiler and the execution tracer as requested.
// The heap profile is taken by Stop.
func Start(opts Options) (*Session, error) {
	s := &Session{opts: opts}
	if opts.CPU != "" {
		// #nosec G304 -- path comes from the --cpuprofile flag
		f, err := os.Create(opts.CPU)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("start cpu profile: %w", err)
		}
		s.cpuFile = f
	}
	if opts.ExecTrace != "" {
		// #nosec G304 -- path comes from the --exec-trace flag
		f, err := os.Create(opts.ExecTrace)
		if err == nil {
			err = trace.Start(f)
			if err != nil {
				_ = f.Close()
			}
		}
		if err != nil {
			_ = s.Stop()
			return nil, fmt.Errorf("start execution trace: %w", err)
		}
		s.traceFile = f
	}
	return s, nil
}

// Stop ends running profilers and writes the heap profile. Safe on nil.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.cpuFile != nil {
		pprof.StopCPUProfile()
		errs = append(errs, s.cpuFile.Close())
		s.cpuFile = nil
	}
	if s.traceFile != nil {
		trace.Stop()
		errs = append(errs, s.traceFile.Close())
		s.traceFile = nil
	}
	if s.opts.Mem != "" {
		errs = append(errs, writeHeap(s.opts.Mem))
		s.opts.Mem = ""
	}
	return errors.Join(errs...)
}

func writeHeap(path string) (err error) {
	// #nosec G304 -- path comes from the --memprofile flag
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	runtime.GC()
	return pprof.WriteHeapProfile(f)
}
