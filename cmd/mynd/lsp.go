package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mynd/internal/logging"
	"mynd/internal/lsp"
	"mynd/internal/reconcile"
	"mynd/internal/todo"
	"mynd/internal/version"
)

func newLSPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Run the mynd language server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withList(cmd.Context(), func(list *todo.List) error {
				logger := logging.Component("lsp")
				server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.ServerOptions{
					Store:          list,
					Engine:         reconcile.NewEngine(reconcile.WithLogger(logging.Component("reconcile"))),
					MaxDiagnostics: a.cfg.LSP.MaxDiagnostics,
					Logger:         &logger,
					Version:        version.Get().Version,
				})
				err := server.Run(cmd.Context())
				switch {
				case err == nil, errors.Is(err, lsp.ErrExit):
					return nil
				case errors.Is(err, lsp.ErrExitWithoutShutdown):
					return fmt.Errorf("lsp exit without shutdown")
				}
				return err
			})
		},
	}
}
