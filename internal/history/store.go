// Package history keeps a local SQLite record of completed searches.
//
// The store is written by Recorder, which wraps the catalog service, and read
// by Source, which can stand in for the remote previous-searches endpoint.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/five82/ebs/internal/catalog"
)

// Entry is one recorded search.
type Entry struct {
	ID         string
	Query      string
	Kind       catalog.SearchKind
	Total      int
	SearchedAt time.Time
}

// PreviousSearch converts e to the catalog shape.
func (e Entry) PreviousSearch() catalog.PreviousSearch {
	return catalog.PreviousSearch{Query: e.Query, TotalResults: e.Total, Kind: e.Kind}
}

// Store is a SQLite-backed search history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS searches (
	seq         INTEGER PRIMARY KEY AUTOINCREMENT,
	id          TEXT    NOT NULL UNIQUE,
	query       TEXT    NOT NULL,
	kind        TEXT    NOT NULL,
	total       INTEGER NOT NULL,
	searched_at TEXT    NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS searches_query_kind ON searches (lower(query), kind)`,
}

// Open opens (creating if needed) the database file at path.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	// ncruces/go-sqlite3 registers the "sqlite3" driver name.
	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Migrate creates the schema.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate history: %w", err)
		}
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Record appends a search.
func (s *Store) Record(ctx context.Context, query string, kind catalog.SearchKind, total int) (Entry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Entry{}, errors.New("record search: query is empty")
	}
	e := Entry{
		ID:         uuid.NewString(),
		Query:      query,
		Kind:       kind,
		Total:      total,
		SearchedAt: s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (id, query, kind, total, searched_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Query, e.Kind.String(), e.Total, e.SearchedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("record search: %w", err)
	}
	return e, nil
}

// Recent returns up to limit searches, newest first. Repeats of the same
// query (ignoring case) and kind collapse to their latest occurrence.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, query, kind, total, searched_at
FROM searches AS s
WHERE seq = (
	SELECT MAX(seq) FROM searches
	WHERE lower(query) = lower(s.query) AND kind = s.kind
)
ORDER BY seq DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			kind, when string
		)
		if err := rows.Scan(&e.ID, &e.Query, &kind, &e.Total, &when); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if e.Kind, err = catalog.ParseSearchKind(kind); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if e.SearchedAt, err = time.Parse(time.RFC3339Nano, when); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return entries, nil
}
