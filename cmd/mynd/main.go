package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mynd/internal/version"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run builds a fresh command tree, executes it and maps the result to an exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.close(stderr)
	if err == nil {
		return 0
	}
	// диагностики уже напечатаны
	if !errors.Is(err, errDiagnostics) {
		fmt.Fprintf(stderr, "mynd: %v\n", err)
	}
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "mynd",
		Short: "Plain-text todo lists kept in sync with a todo store",
		Long: `mynd keeps a newest-first todo list. Items are added from the command line
or written as "todo <message>" lines in .todo files, which the language server
reconciles against the store on every edit.`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	// Глобальные флаги
	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default $XDG_CONFIG_HOME/mynd/config.toml)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 0, "maximum number of diagnostics to show (0: from config)")
	flags.String("log-level", "", "log level (debug|info|warn|error; default from config)")
	flags.String("trace", "", "write a trace to file ('-' for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.Int("trace-ring-size", 4096, "ring buffer size for --trace-mode ring")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.String("cpuprofile", "", "write a CPU profile to file")
	flags.String("memprofile", "", "write a heap profile to file on exit")
	flags.String("exec-trace", "", "write a Go execution trace to file")

	root.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newRemoveCmd(a),
		newDoneCmd(a),
		newCleanCmd(a),
		newMoveCmd(a, "up"),
		newMoveCmd(a, "down"),
		newBelowCmd(a),
		newExportCmd(a),
		newTokenizeCmd(a),
		newParseCmd(a),
		newFixCmd(a),
		newCheckCmd(a),
		newSyncCmd(a),
		newLSPCmd(a),
		newVersionCmd(),
		newConfigCmd(a),
	)
	return root
}

// isTerminal проверяет, является ли writer терминалом
func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// terminalWidth returns the width of w, or 0 when w is not a terminal.
func terminalWidth(w any) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}
