package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mynd/internal/diagfmt"
	"mynd/internal/driver"
	"mynd/internal/source"
)

// checkFileJSON is one element of `mynd check --format json`.
type checkFileJSON struct {
	File string `json:"file"`
	diagfmt.DiagnosticsOutput
}

func newCheckCmd(a *app) *cobra.Command {
	var (
		jobs   int
		uiFlag string
		format string
	)
	cmd := &cobra.Command{
		Use:   "check [pattern...]",
		Short: "Parse todo files and report diagnostics",
		Long: `Check parses every file matched by the glob patterns (default "**/*.todo",
relative to the working directory) and prints their diagnostics. It exits with
status 1 when any file has errors.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "pretty" && format != "json" {
				return fmt.Errorf("unknown format: %s", format)
			}
			mode, err := readUIMode(uiFlag)
			if err != nil {
				return err
			}
			root, err := os.Getwd()
			if err != nil {
				return err
			}
			files, err := driver.ExpandPatterns(root, args)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				a.infof(cmd.ErrOrStderr(), "no todo files found\n")
				return nil
			}

			opts := a.driverOptions()
			opts.Jobs = jobs

			var results []driver.CheckResult
			if format == "pretty" && shouldUseTUI(mode, cmd.OutOrStdout()) {
				results, err = runCheckWithUI(cmd.Context(), files, opts)
			} else {
				results, err = driver.CheckFiles(cmd.Context(), files, opts)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				if err := writeCheckJSON(out, results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					r.Bag.Sort()
					a.printDiagnostics(out, r.Path, r.File, r.Bag.Items())
				}
				s := driver.Summarize(results)
				a.infof(cmd.ErrOrStderr(), "checked %d files: %d todos, %d errors, %d warnings\n",
					s.Files, s.Items, s.Errors, s.Warnings)
			}

			if driver.Summarize(results).Errors > 0 {
				return errDiagnostics
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "parallel workers (0: GOMAXPROCS)")
	cmd.Flags().StringVar(&uiFlag, "ui", "auto", "progress view (auto|on|off)")
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}

func writeCheckJSON(w io.Writer, results []driver.CheckResult) error {
	out := make([]checkFileJSON, 0, len(results))
	for _, r := range results {
		file := r.File
		if file == nil {
			file = source.NewVirtual(r.Path, "")
		}
		out = append(out, checkFileJSON{
			File: r.Path,
			DiagnosticsOutput: diagfmt.BuildDiagnosticsOutput(file, r.Bag.Items(), diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         diagfmt.PathModeAbsolute,
				IncludeNotes:     true,
				IncludeFixes:     true,
			}),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
