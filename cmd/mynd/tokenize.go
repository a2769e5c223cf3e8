package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mynd/internal/diagfmt"
	"mynd/internal/driver"
)

func newTokenizeCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tokenize <file>",
		Short: "Print the tokens of a todo file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx := a.timer.Begin("tokenize")
			result, err := driver.Tokenize(args[0])
			a.timer.End(idx, args[0])
			if err != nil {
				return fmt.Errorf("tokenization failed: %w", err)
			}

			switch format {
			case "pretty":
				return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens)
			case "json":
				return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
			}
			return fmt.Errorf("unknown format: %s", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "pretty", "output format (pretty|json)")
	return cmd
}
