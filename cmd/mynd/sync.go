package main

import (
	"github.com/spf13/cobra"

	"mynd/internal/driver"
	"mynd/internal/logging"
	"mynd/internal/reconcile"
	"mynd/internal/todo"
)

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <file>",
		Short: "Reconcile a todo file against the store once",
		Long: `Sync adds every item of the file to the store, as the language server does
when the file is saved. A one-off sync has no memory of earlier versions of
the file, so items deleted from it are not retracted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithDocument(cmd.Context(), args[0])
			engine := reconcile.NewEngine(reconcile.WithLogger(logging.Component("reconcile")))

			var (
				report *reconcile.Report
				res    *driver.ParseResult
			)
			err := a.withList(ctx, func(list *todo.List) error {
				var err error
				report, res, err = driver.SyncFile(ctx, args[0], engine, list, a.driverOptions())
				return err
			})
			switch {
			case report != nil:
				a.printDiagnostics(cmd.ErrOrStderr(), res.File.Path, res.File, report.Diagnostics)
			case res != nil:
				a.printDiagnostics(cmd.ErrOrStderr(), res.File.Path, res.File, res.Bag.Items())
			}
			if err != nil {
				return err
			}

			a.infof(cmd.OutOrStdout(), "synced %s: %d added, %d retracted, %d failed\n",
				res.File.Path, report.Upserted, report.Retracted, len(report.Failures))
			if len(report.Failures) > 0 || res.Bag.HasErrors() {
				return errDiagnostics
			}
			return nil
		},
	}
}
