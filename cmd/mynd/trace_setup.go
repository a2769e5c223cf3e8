package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"mynd/internal/trace"
)

// setupTracing reads the trace flags and attaches a tracer to the command
// context. The returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()

	output, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}
	if format == trace.FormatAuto {
		format = trace.FormatText
		if strings.HasSuffix(output, ".ndjson") || strings.HasSuffix(output, ".jsonl") {
			format = trace.FormatNDJSON
		}
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: output,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func() {
		// в режиме ring события пишутся только при завершении
		if ring, ok := trace.Ring(tracer); ok && mode == trace.ModeRing {
			if err := dumpRing(ring, output, format); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "trace: dump error: %v\n", err)
			}
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

func dumpRing(ring *trace.RingTracer, output string, format trace.Format) error {
	var w io.Writer = os.Stderr
	if output != "" && output != "-" {
		// #nosec G304 -- path comes from the --trace flag
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return ring.Dump(w, format)
}
