package results

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/five82/ebs/internal/catalog"
	"github.com/five82/ebs/internal/stream"
)

// SearchService is the collaborator the pipeline fetches from.
// catalog.Client satisfies it.
type SearchService interface {
	FetchPreviousSearches(ctx context.Context) ([]catalog.PreviousSearch, error)
	Search(ctx context.Context, query string, kind catalog.SearchKind) ([]catalog.Beer, error)
}

// Search is a submitted query.
type Search struct {
	Query string
	Kind  catalog.SearchKind
}

// Inputs are the user-triggered event streams. A nil channel never fires; a
// closed channel ends that input.
type Inputs struct {
	ViewAppeared    <-chan struct{}
	SearchAppeared  <-chan struct{}
	FilterText      <-chan string
	SearchSubmitted <-chan Search
	SearchCanceled  <-chan struct{}
}

// Option configures a ViewModel.
type Option func(*ViewModel)

// WithLogger sets the logger used for fetch failures.
func WithLogger(logger *slog.Logger) Option {
	return func(vm *ViewModel) {
		if logger != nil {
			vm.logger = logger
		}
	}
}

// WithMessages replaces the message and title text.
func WithMessages(msgs Messages) Option {
	return func(vm *ViewModel) {
		vm.msgs = msgs
	}
}

// ViewModel turns input events into list snapshots, the loading indicator
// state and the header title.
type ViewModel struct {
	svc    SearchService
	logger *slog.Logger
	msgs   Messages

	snapshots *stream.Broadcast[Snapshot]
	hidden    *stream.Broadcast[bool]
	titles    *stream.Broadcast[string]

	completions chan completion
	done        chan struct{}
}

// completion carries exactly one fetch result back to the pipeline goroutine.
type completion struct {
	previous *Result[[]catalog.PreviousSearch]
	search   *Result[[]catalog.Beer]
}

// New starts the pipeline. It runs until ctx is cancelled or every input has
// closed and all in-flight fetches have completed; the output streams close
// when it stops.
func New(ctx context.Context, in Inputs, svc SearchService, opts ...Option) *ViewModel {
	vm := &ViewModel{
		svc:         svc,
		logger:      slog.Default(),
		msgs:        DefaultMessages(),
		snapshots:   stream.New[Snapshot](),
		hidden:      stream.New[bool](),
		completions: make(chan completion),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(vm)
	}
	vm.titles = stream.NewWithInitial(vm.msgs.Loading)

	go vm.run(ctx, in)
	return vm
}

// Snapshots returns the merged snapshot stream. The latest snapshot, if any,
// is delivered first.
func (vm *ViewModel) Snapshots(ctx context.Context) <-chan Snapshot {
	return vm.snapshots.Subscribe(ctx)
}

// IndicatorHidden returns the loading-indicator stream: false while a search
// is in flight, true once a fetch completes.
func (vm *ViewModel) IndicatorHidden(ctx context.Context) <-chan bool {
	return vm.hidden.Subscribe(ctx)
}

// Titles returns the header title stream, starting with the loading title.
func (vm *ViewModel) Titles(ctx context.Context) <-chan string {
	return vm.titles.Subscribe(ctx)
}

// Done is closed once the pipeline has stopped.
func (vm *ViewModel) Done() <-chan struct{} {
	return vm.done
}

// state is owned by the run goroutine.
type state struct {
	appeared     bool
	lastGood     []catalog.PreviousSearch
	haveGood     bool
	lastPrevious Snapshot
	havePrevious bool
	inFlight     int
}

func (vm *ViewModel) run(ctx context.Context, in Inputs) {
	defer close(vm.done)
	defer vm.closeOutputs()

	var st state
	viewAppeared := in.ViewAppeared
	searchAppeared := in.SearchAppeared
	filterText := in.FilterText
	submitted := in.SearchSubmitted
	canceled := in.SearchCanceled

	for {
		if viewAppeared == nil && searchAppeared == nil && filterText == nil &&
			submitted == nil && canceled == nil && st.inFlight == 0 {
			return
		}

		select {
		case <-ctx.Done():
			return

		case _, ok := <-viewAppeared:
			if !ok {
				viewAppeared = nil
				continue
			}
			// Only the first appearance triggers a fetch.
			if st.appeared {
				continue
			}
			st.appeared = true
			vm.startPreviousFetch(ctx, &st)

		case _, ok := <-searchAppeared:
			if !ok {
				searchAppeared = nil
				continue
			}
			vm.reset(&st)

		case text, ok := <-filterText:
			if !ok {
				filterText = nil
				continue
			}
			if st.haveGood {
				vm.snapshots.Publish(FilteredSnapshot(text, st.lastGood, vm.msgs))
			}

		case s, ok := <-submitted:
			if !ok {
				submitted = nil
				continue
			}
			vm.snapshots.Publish(Snapshot{})
			vm.hidden.Publish(false)
			vm.titles.Publish(vm.msgs.Searching)
			vm.startSearch(ctx, &st, Search{Query: strings.TrimSpace(s.Query), Kind: s.Kind})

		case _, ok := <-canceled:
			if !ok {
				canceled = nil
				continue
			}
			vm.reset(&st)
			vm.startPreviousFetch(ctx, &st)

		case c := <-vm.completions:
			st.inFlight--
			vm.complete(&st, c)
		}
	}
}

func (vm *ViewModel) reset(st *state) {
	if !st.havePrevious {
		return
	}
	vm.snapshots.Publish(st.lastPrevious)
	vm.titles.Publish(vm.msgs.RecentSearches)
}

func (vm *ViewModel) complete(st *state, c completion) {
	switch {
	case c.previous != nil:
		res := *c.previous
		if res.OK() {
			st.lastGood = res.Value
			st.haveGood = true
		}
		snap := PreviousSearchesSnapshot(res, vm.msgs)
		st.lastPrevious = snap
		st.havePrevious = true
		vm.snapshots.Publish(snap)
		vm.hidden.Publish(true)
		vm.titles.Publish(vm.msgs.RecentSearches)

	case c.search != nil:
		vm.snapshots.Publish(SearchResultsSnapshot(*c.search, vm.msgs))
		vm.hidden.Publish(true)
		vm.titles.Publish(vm.msgs.SearchResults)
	}
}

func (vm *ViewModel) startPreviousFetch(ctx context.Context, st *state) {
	st.inFlight++
	go func() {
		res := vm.fetchPrevious(ctx)
		vm.deliver(ctx, completion{previous: &res})
	}()
}

func (vm *ViewModel) startSearch(ctx context.Context, st *state, s Search) {
	st.inFlight++
	go func() {
		res := vm.search(ctx, s)
		vm.deliver(ctx, completion{search: &res})
	}()
}

func (vm *ViewModel) deliver(ctx context.Context, c completion) {
	select {
	case vm.completions <- c:
	case <-ctx.Done():
	}
}

func (vm *ViewModel) fetchPrevious(ctx context.Context) (res Result[[]catalog.PreviousSearch]) {
	defer vm.recoverFetch("previous searches", &res.Err)

	searches, err := vm.svc.FetchPreviousSearches(ctx)
	if err != nil {
		vm.logger.Warn("previous searches fetch failed", "error", err)
		return Failure[[]catalog.PreviousSearch]()
	}
	return Success(searches)
}

func (vm *ViewModel) search(ctx context.Context, s Search) (res Result[[]catalog.Beer]) {
	defer vm.recoverFetch("search", &res.Err)

	beers, err := vm.svc.Search(ctx, s.Query, s.Kind)
	if err != nil {
		vm.logger.Warn("search failed", "query", s.Query, "kind", s.Kind.String(), "error", err)
		return Failure[[]catalog.Beer]()
	}
	return Success(beers)
}

// recoverFetch turns a panicking service call into ErrUnknown.
func (vm *ViewModel) recoverFetch(op string, errp *error) {
	if r := recover(); r != nil {
		vm.logger.Error("search service panicked", "op", op, "panic", fmt.Sprint(r))
		*errp = ErrUnknown
	}
}

func (vm *ViewModel) closeOutputs() {
	vm.snapshots.Close()
	vm.hidden.Close()
	vm.titles.Close()
}
