package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"mynd/internal/config"
	"mynd/internal/diag"
	"mynd/internal/diagfmt"
	"mynd/internal/driver"
	"mynd/internal/logging"
	"mynd/internal/observ"
	"mynd/internal/prof"
	"mynd/internal/source"
	"mynd/internal/storage"
	"mynd/internal/todo"
)

// errDiagnostics makes the process exit with status 1 after diagnostics
// were already printed.
var errDiagnostics = errors.New("errors reported")

// app is the state shared by all subcommands of one invocation.
type app struct {
	configPath string
	cfg        config.Config
	color      bool
	quiet      bool
	timer      *observ.Timer
	log        zerolog.Logger
	cleanups   []func()
}

func (a *app) init(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	a.configPath = path

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	a.cfg = cfg

	colorFlag, err := flags.GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	if a.color, err = useColor(colorFlag, cmd.OutOrStdout()); err != nil {
		return err
	}
	color.NoColor = !a.color

	if a.quiet, err = flags.GetBool("quiet"); err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if timings, _ := flags.GetBool("timings"); timings {
		a.timer = observ.NewTimer()
	}
	if n, _ := flags.GetInt("max-diagnostics"); n > 0 {
		a.cfg.LSP.MaxDiagnostics = n
	}

	level, _ := flags.GetString("log-level")
	if level == "" {
		level = cfg.Log.Level
		if a.quiet {
			level = "error"
		}
	}
	logger, closeLog, err := logging.Setup(logging.Options{
		Level:   level,
		File:    cfg.Log.File,
		Writer:  cmd.ErrOrStderr(),
		Console: isTerminal(cmd.ErrOrStderr()),
	})
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	a.log = logger
	a.cleanups = append(a.cleanups, closeLog)

	closeTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	a.cleanups = append(a.cleanups, closeTrace)

	var profOpts prof.Options
	profOpts.CPU, _ = flags.GetString("cpuprofile")
	profOpts.Mem, _ = flags.GetString("memprofile")
	profOpts.ExecTrace, _ = flags.GetString("exec-trace")
	session, err := prof.Start(profOpts)
	if err != nil {
		return err
	}
	errOut := cmd.ErrOrStderr()
	a.cleanups = append(a.cleanups, func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(errOut, "prof: %v\n", err)
		}
	})

	cmd.SetContext(logging.WithCommand(cmd.Context(), cmd.CommandPath()))
	return nil
}

// close prints timings and releases logging and tracing, newest first.
func (a *app) close(stderr io.Writer) {
	if a.timer != nil && !a.quiet {
		fmt.Fprint(stderr, a.timer.Summary())
	}
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}

func useColor(mode string, out io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return isTerminal(out) && os.Getenv("NO_COLOR") == "", nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
}

func (a *app) openList(ctx context.Context) (*todo.List, error) {
	dir, err := a.cfg.StoreDir()
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(a.cfg.Store.Format, dir)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Store.Format, err)
	}
	list, err := todo.Open(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return list, nil
}

// withList opens the store, runs fn and persists whatever fn changed.
func (a *app) withList(ctx context.Context, fn func(*todo.List) error) (err error) {
	list, err := a.openList(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := list.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(list)
}

func resolve(list *todo.List, prefix string) (todo.ID, error) {
	id, err := list.Resolve(prefix)
	if err != nil {
		return "", fmt.Errorf("%s: %w", prefix, err)
	}
	return id, nil
}

func (a *app) driverOptions() driver.Options {
	return driver.Options{
		MaxDiagnostics: a.cfg.LSP.MaxDiagnostics,
		Timer:          a.timer,
	}
}

func (a *app) prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     a.color,
		Context:   1,
		PathMode:  diagfmt.PathModeAuto,
		ShowNotes: true,
		ShowFixes: true,
	}
}

// printDiagnostics renders diags for file; a nil file (load failure) gets
// the one-line form since there is no text to quote.
func (a *app) printDiagnostics(w io.Writer, path string, file *source.File, diags []diag.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	if file == nil {
		fmt.Fprint(w, diag.FormatShortDiagnostics(path, diags, false))
		return
	}
	diagfmt.Pretty(w, file, diags, a.prettyOpts())
}

func (a *app) infof(w io.Writer, format string, args ...any) {
	if a.quiet {
		return
	}
	fmt.Fprintf(w, format, args...)
}
