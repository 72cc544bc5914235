// Package results implements the search screen's view-state pipeline.
//
// A ViewModel consumes five input channels (view appeared, search appeared,
// filter text, search submitted, search canceled) and produces three replaying
// output streams: list snapshots, the loading-indicator-hidden flag and the
// header title.
//
// All pipeline state lives in one goroutine. Service calls run in their own
// goroutines and hand their Result back to it, so completions are applied in
// the order they arrive. Only the first view-appeared event fetches; later
// ones are ignored. Every other trigger (a submitted search, a cancel) causes
// exactly one call. Failures
// of any kind collapse to ErrUnknown and render as a message row; they never
// stop the pipeline.
//
//	vm := results.New(ctx, results.Inputs{
//		ViewAppeared:    appeared,
//		SearchAppeared:  opened,
//		FilterText:      filter,
//		SearchSubmitted: submitted,
//		SearchCanceled:  canceled,
//	}, client)
//
//	for snap := range vm.Snapshots(ctx) {
//		render(snap)
//	}
package results
