package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"scriptlint/internal/driver"
	"scriptlint/internal/ui"
)

type runOutcome struct {
	report driver.Report
	err    error
}

// runWithUI runs req while a progress UI renders its events on stderr. The
// report is printed afterwards by the caller.
func runWithUI(ctx context.Context, title string, req driver.Request) (driver.Report, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		reqCopy := req
		reqCopy.Options.Progress = driver.ChannelSink{Ch: events}
		rep, err := driver.Run(ctx, reqCopy)
		close(events)
		outcomeCh <- runOutcome{report: rep, err: err}
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()

	// UI мог закрыться раньше прогона: дочитываем события, чтобы не встал воркер
	go func() {
		for range events {
		}
	}()

	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
