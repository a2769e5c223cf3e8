package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"mynd/internal/driver"
	"mynd/internal/ui"
)

type checkOutcome struct {
	results []driver.CheckResult
	err     error
}

// runCheckWithUI runs CheckFiles in the background and shows its progress.
func runCheckWithUI(ctx context.Context, files []string, opts driver.Options) ([]driver.CheckResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelProgress(events)
		results, err := driver.CheckFiles(ctx, files, opts)
		outcomeCh <- checkOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("checking", files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// после выхода (в т.ч. по Ctrl+C) модель больше не читает канал
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
