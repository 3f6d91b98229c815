package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"avlint/internal/analysis"
	"avlint/internal/driver"
	"avlint/internal/ui"
)

type analyzeOutcome struct {
	results []driver.UnitResult
	err     error
}

// runAnalyzeDirWithUI runs directory analysis in the background while a
// Bubble Tea progress model consumes driver events in the foreground.
func runAnalyzeDirWithUI(ctx context.Context, title, dir string, units []string, set *analysis.RuleSet, opts driver.Options, jobs int) ([]driver.UnitResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = driver.ChannelSink{Ch: events}
		res, err := driver.AnalyzeDir(ctx, dir, set, optsCopy, jobs)
		outcomeCh <- analyzeOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, units, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
