package main

import (
	"errors"

	"github.com/spf13/cobra"

	"mynd/internal/driver"
	"mynd/internal/fix"
)

func newFixCmd(a *app) *cobra.Command {
	var (
		all    bool
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "fix <file>",
		Short: "Apply suggested fixes, such as prefixing stray text with `todo`",
		Long: `Fix applies the first suggested fix of a file, or every non-overlapping one
with --all. The file is rewritten with normalized LF line endings; --dry-run
prints the result instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := driver.Parse(cmd.Context(), args[0], a.driverOptions())
			if err != nil {
				return err
			}
			mode := fix.ApplyModeOnce
			if all {
				mode = fix.ApplyModeAll
			}

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			result, err := fix.Apply(res.File, res.Bag.Items(), fix.ApplyOptions{Mode: mode})
			if errors.Is(err, fix.ErrNoFixes) {
				a.infof(errOut, "%s: no applicable fixes\n", res.File.Path)
				return nil
			}
			if err != nil {
				return err
			}

			for _, s := range result.Skipped {
				lc := s.At.LineCol()
				a.infof(errOut, "skipped %s at %d:%d: %s\n", s.Title, lc.Line, lc.Col, s.Reason)
			}
			if dryRun {
				_, err := out.Write(result.Content)
				return err
			}
			if err := fix.WriteFile(res.File.Path, result.Content); err != nil {
				return err
			}
			for _, ap := range result.Applied {
				lc := ap.At.LineCol()
				a.infof(out, "fixed %s:%d:%d: %s\n", res.File.Path, lc.Line, lc.Col, ap.Title)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "apply every non-overlapping fix")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the fixed text instead of writing the file")
	return cmd
}
