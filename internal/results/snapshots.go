package results

import (
	"errors"
	"strings"

	"github.com/five82/ebs/internal/catalog"
)

// ErrUnknown is the only failure the pipeline distinguishes. Transport,
// status and decoding errors from the search service all collapse to it.
var ErrUnknown = errors.New("unknown service error")

// Result carries either a value or ErrUnknown.
type Result[T any] struct {
	Value T
	Err   error
}

// Success wraps v.
func Success[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Failure returns the collapsed failure result.
func Failure[T any]() Result[T] {
	return Result[T]{Err: ErrUnknown}
}

// OK reports whether r holds a value.
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// Messages holds every user-visible string the pipeline emits.
type Messages struct {
	ServiceFailure string
	NoMatches      string
	Loading        string
	RecentSearches string
	Searching      string
	SearchResults  string
}

// DefaultMessages returns the English strings.
func DefaultMessages() Messages {
	return Messages{
		ServiceFailure: "Something went wrong, I blame Dave.",
		NoMatches:      "Keep searching, I have faith in you.",
		Loading:        "Loading...",
		RecentSearches: "Recent Searches",
		Searching:      "Searching...",
		SearchResults:  "Search Results",
	}
}

func (m Messages) failureEntry() MessageEntry {
	return MessageEntry{Text: m.ServiceFailure, Icon: IconError}
}

// PreviousSearchesSnapshot renders a previous-searches fetch.
func PreviousSearchesSnapshot(res Result[[]catalog.PreviousSearch], msgs Messages) Snapshot {
	if !res.OK() {
		return Snapshot{msgs.failureEntry()}
	}
	return previousSearchEntries(res.Value)
}

// FilteredSnapshot renders the previous searches that match filter. An empty
// filter keeps every search; no matches yields the "keep searching" row.
func FilteredSnapshot(filter string, searches []catalog.PreviousSearch, msgs Messages) Snapshot {
	if filter == "" {
		return previousSearchEntries(searches)
	}
	matches := MatchPreviousSearches(filter, searches)
	if len(matches) == 0 {
		return Snapshot{MessageEntry{Text: msgs.NoMatches, Icon: IconEmptySearch}}
	}
	return previousSearchEntries(matches)
}

// MatchPreviousSearches keeps the searches whose query contains filter,
// ignoring case, in their original order.
func MatchPreviousSearches(filter string, searches []catalog.PreviousSearch) []catalog.PreviousSearch {
	if filter == "" {
		return searches
	}
	needle := strings.ToLower(filter)
	var matches []catalog.PreviousSearch
	for _, s := range searches {
		if strings.Contains(strings.ToLower(s.Query), needle) {
			matches = append(matches, s)
		}
	}
	return matches
}

// SearchResultsSnapshot renders a search fetch.
func SearchResultsSnapshot(res Result[[]catalog.Beer], msgs Messages) Snapshot {
	if !res.OK() {
		return Snapshot{msgs.failureEntry()}
	}
	snap := make(Snapshot, 0, len(res.Value))
	for _, beer := range res.Value {
		snap = append(snap, BeerEntry{Beer: beer})
	}
	return snap
}

func previousSearchEntries(searches []catalog.PreviousSearch) Snapshot {
	snap := make(Snapshot, 0, len(searches))
	for _, s := range searches {
		snap = append(snap, PreviousSearchEntry{Query: s.Query, Kind: s.Kind})
	}
	return snap
}
