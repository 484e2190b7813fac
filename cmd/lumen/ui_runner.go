package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lumen/internal/decl"
	"lumen/internal/driver"
	"lumen/internal/gen"
	"lumen/internal/macroexp"
	"lumen/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

// runWithUI executes the driver behind a live progress view. The driver runs
// in its own goroutine and streams phase events to the model; closing the
// channel ends the program.
func runWithUI(ctx context.Context, title string, prog *decl.Program, gens *gen.Registry, macros *macroexp.Registry, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.PhaseEvent, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Observer = func(ev driver.PhaseEvent) { events <- ev }
		res, err := driver.Run(ctx, prog, gens, macros, optsCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, []string{"names", "bodies"}, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
