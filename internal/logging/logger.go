// Package logging configures the process-wide zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options describe where and how much to log.
type Options struct {
	Level   string    // debug, info, warn, error; empty means info
	File    string    // when set, JSON lines go to this file instead of Writer
	Writer  io.Writer // defaults to os.Stderr
	Console bool      // human-readable output on Writer
}

// Setup builds the logger, installs it as the global zerolog logger and
// returns a closer for the log file, if one was opened.
func Setup(opts Options) (zerolog.Logger, func(), error) {
	closer := func() {}

	level := opts.Level
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Logger{}, closer, err
	}

	var writer io.Writer = os.Stderr
	if opts.Writer != nil {
		writer = opts.Writer
	}
	switch {
	case opts.File != "":
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Logger{}, closer, fmt.Errorf("create logs dir: %w", err)
		}
		// #nosec G304 -- path comes from config
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, closer, err
		}
		closer = func() { _ = f.Close() }
		writer = f
	case opts.Console:
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: time.Kitchen}
	}

	l := zerolog.New(writer).
		With().
		Timestamp().
		Logger().
		Level(lvl).
		Hook(ContextHook{})

	log.Logger = l
	zerolog.SetGlobalLevel(lvl)
	return l, closer, nil
}

// Component creates a new logger with a component identifier.
// Uses the "cmp" key for consistency with zerolog conventions.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}
