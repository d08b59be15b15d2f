package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"templ/internal/driver"
	"templ/internal/source"
	"templ/internal/ui"
)

type dirOutcome struct {
	fileSet *source.FileSet
	results []*driver.TokenizeResult
	err     error
}

// runTokenizeDirWithUI runs TokenizeDir while a Bubble Tea program renders
// its progress events.
func runTokenizeDirWithUI(ctx context.Context, title, dir string, files []string, opts driver.Options) (*source.FileSet, []*driver.TokenizeResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		fileSet, results, err := driver.TokenizeDir(ctx, dir, opts)
		outcomeCh <- dirOutcome{fileSet: fileSet, results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()

	// после Ctrl+C программа больше не читает события
	go func() {
		for range events {
		}
	}()

	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.fileSet, outcome.results, uiErr
	}
	return outcome.fileSet, outcome.results, outcome.err
}
