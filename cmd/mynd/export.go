package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"mynd/internal/todo"
)

func newExportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the whole list, done todos included",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withList(cmd.Context(), func(list *todo.List) error {
				records, err := list.GetAll()
				if err != nil {
					return err
				}
				if records == nil {
					records = []todo.Record{}
				}
				out := cmd.OutOrStdout()
				switch format {
				case "json":
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(records)
				case "yaml":
					enc := yaml.NewEncoder(out)
					enc.SetIndent(2)
					if err := enc.Encode(records); err != nil {
						return err
					}
					return enc.Close()
				}
				return fmt.Errorf("unsupported format %q (must be json or yaml)", format)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format (json|yaml)")
	return cmd
}
