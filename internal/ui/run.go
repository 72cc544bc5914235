package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/ebs/internal/prefs"
	"github.com/five82/ebs/internal/results"
	"github.com/five82/ebs/internal/state"
)

// RunOptions configure the UI runtime.
type RunOptions struct {
	Service   results.SearchService
	Health    *state.Store
	Logger    *slog.Logger
	Prefs     prefs.Prefs
	PrefsPath string
	Messages  results.Messages

	// ProgramOptions are appended to the defaults. Tests use them to swap
	// the terminal for buffers.
	ProgramOptions []tea.ProgramOption
}

// Run starts the results pipeline and the Bubble Tea program, and blocks
// until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	if opts.Service == nil {
		return fmt.Errorf("ui requires a search service")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	msgs := opts.Messages
	if msgs == (results.Messages{}) {
		msgs = results.DefaultMessages()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := NewEvents(runCtx)
	vm := results.New(runCtx, events.Inputs(), opts.Service,
		results.WithLogger(logger),
		results.WithMessages(msgs),
	)

	model := New(Options{
		Events:    events,
		Outputs:   Subscribe(runCtx, vm),
		Health:    opts.Health,
		Logger:    logger,
		Prefs:     opts.Prefs,
		PrefsPath: opts.PrefsPath,
		Messages:  msgs,
	})
	events.ViewAppeared()

	programOpts := append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(runCtx),
	}, opts.ProgramOptions...)

	_, err := tea.NewProgram(model, programOpts...).Run()

	cancel()
	<-vm.Done()
	events.Close()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	logger.Info("ui stopped")
	return nil
}
