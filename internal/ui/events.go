package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/ebs/internal/results"
)

// Events feeds widget events into the results pipeline. The channels are
// unbuffered: each send returns only once the pipeline has taken the event,
// and the pipeline handles one event fully before it selects the next, so
// events sent from the Update goroutine are handled in the order they were
// made.
type Events struct {
	ctx            context.Context
	viewAppeared   chan struct{}
	searchAppeared chan struct{}
	filterText     chan string
	submitted      chan results.Search
	canceled       chan struct{}
}

// NewEvents creates the input channels. Sends give up once ctx is done.
func NewEvents(ctx context.Context) *Events {
	return &Events{
		ctx:            ctx,
		viewAppeared:   make(chan struct{}),
		searchAppeared: make(chan struct{}),
		filterText:     make(chan string),
		submitted:      make(chan results.Search),
		canceled:       make(chan struct{}),
	}
}

// Inputs exposes the channels to the pipeline.
func (e *Events) Inputs() results.Inputs {
	return results.Inputs{
		ViewAppeared:    e.viewAppeared,
		SearchAppeared:  e.searchAppeared,
		FilterText:      e.filterText,
		SearchSubmitted: e.submitted,
		SearchCanceled:  e.canceled,
	}
}

func (e *Events) ViewAppeared()                { send(e.ctx, e.viewAppeared, struct{}{}) }
func (e *Events) SearchAppeared()              { send(e.ctx, e.searchAppeared, struct{}{}) }
func (e *Events) Filter(text string)           { send(e.ctx, e.filterText, text) }
func (e *Events) Submit(search results.Search) { send(e.ctx, e.submitted, search) }
func (e *Events) Cancel()                      { send(e.ctx, e.canceled, struct{}{}) }

// Close ends every input.
func (e *Events) Close() {
	close(e.viewAppeared)
	close(e.searchAppeared)
	close(e.filterText)
	close(e.submitted)
	close(e.canceled)
}

func send[T any](ctx context.Context, ch chan<- T, v T) {
	select {
	case ch <- v:
	case <-ctx.Done():
	}
}

type snapshotMsg struct{ snapshot results.Snapshot }

type indicatorMsg struct{ hidden bool }

type titleMsg struct{ title string }

// Outputs are the pipeline streams the model listens to.
type Outputs struct {
	Snapshots <-chan results.Snapshot
	Hidden    <-chan bool
	Titles    <-chan string
}

// Subscribe opens the three output streams of vm.
func Subscribe(ctx context.Context, vm *results.ViewModel) Outputs {
	return Outputs{
		Snapshots: vm.Snapshots(ctx),
		Hidden:    vm.IndicatorHidden(ctx),
		Titles:    vm.Titles(ctx),
	}
}

// A closed stream produces a nil message, which ends that listen loop.

func waitSnapshot(ch <-chan results.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg{snapshot: snap}
	}
}

func waitIndicator(ch <-chan bool) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		hidden, ok := <-ch
		if !ok {
			return nil
		}
		return indicatorMsg{hidden: hidden}
	}
}

func waitTitle(ch <-chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		title, ok := <-ch
		if !ok {
			return nil
		}
		return titleMsg{title: title}
	}
}
