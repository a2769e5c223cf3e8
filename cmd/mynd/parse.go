package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mynd/internal/diagfmt"
	"mynd/internal/driver"
)

func newParseCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the items and parse errors of a todo file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "pretty" && format != "json" {
				return fmt.Errorf("unknown format: %s", format)
			}
			res, err := driver.Parse(cmd.Context(), args[0], a.driverOptions())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				err = diagfmt.FormatOutcomeJSON(out, res.Outcome)
			} else {
				err = diagfmt.FormatOutcomePretty(out, res.Outcome)
			}
			if err != nil {
				return err
			}

			if res.Bag.Len() > 0 {
				res.Bag.Sort()
				a.printDiagnostics(cmd.ErrOrStderr(), res.File.Path, res.File, res.Bag.Items())
			}
			if res.Bag.HasErrors() {
				return errDiagnostics
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}
