package history

import (
	"context"
	"log/slog"

	"github.com/five82/ebs/internal/catalog"
)

// Recorder wraps a catalog service and records every successful search.
// Recording failures are logged and never fail the search.
type Recorder struct {
	next   catalog.Service
	store  *Store
	logger *slog.Logger
}

// NewRecorder returns a Recorder in front of next.
func NewRecorder(next catalog.Service, store *Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{next: next, store: store, logger: logger}
}

func (r *Recorder) FetchPreviousSearches(ctx context.Context) ([]catalog.PreviousSearch, error) {
	return r.next.FetchPreviousSearches(ctx)
}

func (r *Recorder) Search(ctx context.Context, query string, kind catalog.SearchKind) ([]catalog.Beer, error) {
	beers, err := r.next.Search(ctx, query, kind)
	if err != nil {
		return nil, err
	}
	if _, recErr := r.store.Record(ctx, query, kind, len(beers)); recErr != nil {
		r.logger.Warn("record search failed", "query", query, "error", recErr)
	}
	return beers, nil
}

// Source serves previous searches from the local store and forwards
// searches to next.
type Source struct {
	next  catalog.Service
	store *Store
	limit int
}

// NewSource returns a Source listing at most limit searches.
func NewSource(next catalog.Service, store *Store, limit int) *Source {
	return &Source{next: next, store: store, limit: limit}
}

func (s *Source) FetchPreviousSearches(ctx context.Context) ([]catalog.PreviousSearch, error) {
	entries, err := s.store.Recent(ctx, s.limit)
	if err != nil {
		return nil, err
	}
	searches := make([]catalog.PreviousSearch, 0, len(entries))
	for _, e := range entries {
		searches = append(searches, e.PreviousSearch())
	}
	return searches, nil
}

func (s *Source) Search(ctx context.Context, query string, kind catalog.SearchKind) ([]catalog.Beer, error) {
	return s.next.Search(ctx, query, kind)
}
