package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mynd/internal/config"
	"mynd/internal/storage"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change the mynd settings file",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective settings as TOML",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				text, err := a.cfg.Encode()
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print where the settings file lives",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), a.configPath)
			},
		},
		&cobra.Command{
			Use:       "set-format <json|binary|sqlite>",
			Short:     "Choose the store backend",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{string(storage.FormatJSON), string(storage.FormatBinary), string(storage.FormatSQLite)},
			RunE: func(cmd *cobra.Command, args []string) error {
				format, err := storage.ParseFormat(args[0])
				if err != nil {
					return err
				}
				// перечитываем файл, чтобы не записать значения из флагов
				cfg, err := config.Load(a.configPath)
				if err != nil {
					return err
				}
				cfg.Store.Format = format
				if err := config.Save(a.configPath, cfg); err != nil {
					return err
				}
				a.infof(cmd.OutOrStdout(), "store format set to %s\n", format)
				return nil
			},
		},
	)
	return cmd
}
