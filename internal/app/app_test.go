package app

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/ebs/internal/catalog"
	"github.com/five82/ebs/internal/fixture"
	"github.com/five82/ebs/internal/history"
	"github.com/five82/ebs/internal/logging"
)

// writeConfig points a config file at a fixture server and keeps every path
// inside the test's temp dir.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)

	srv := httptest.NewServer(fixture.NewServer(fixture.Default(), logging.Discard()))
	t.Cleanup(srv.Close)

	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`api_url = %q
log_dir = %q
history_path = %q
%s
`, srv.URL, filepath.Join(dir, "logs"), filepath.Join(dir, "history.db"), extra)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func setup(t *testing.T, opts Options) *Runtime {
	t.Helper()
	rt, err := Setup(context.Background(), opts)
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	t.Cleanup(func() { _ = rt.Close(context.Background()) })
	return rt
}

func TestSetup_RecordsSearchesByDefault(t *testing.T) {
	ctx := context.Background()
	rt := setup(t, Options{ConfigPath: writeConfig(t, ""), LogWriter: io.Discard})

	if _, ok := rt.Service.(*history.Recorder); !ok {
		t.Fatalf("Service = %T, want *history.Recorder", rt.Service)
	}
	if rt.History == nil {
		t.Fatal("history store should be open")
	}

	beers, err := rt.Service.Search(ctx, "beer", catalog.KindBeer)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(beers) != 1 {
		t.Fatalf("beers = %+v, want one", beers)
	}

	recent, err := rt.History.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 || recent[0].Query != "beer" || recent[0].Total != 1 {
		t.Fatalf("recent = %+v", recent)
	}
}

func TestSetup_WithoutHistory(t *testing.T) {
	rt := setup(t, Options{
		ConfigPath: writeConfig(t, "record_history = false"),
		LogWriter:  io.Discard,
	})
	if _, ok := rt.Service.(*catalog.Client); !ok {
		t.Fatalf("Service = %T, want *catalog.Client", rt.Service)
	}
	if rt.History != nil {
		t.Fatal("history store should stay closed")
	}

	searches, err := rt.Service.FetchPreviousSearches(context.Background())
	if err != nil {
		t.Fatalf("FetchPreviousSearches: %v", err)
	}
	if len(searches) != 2 || searches[0].Query != "Mock" {
		t.Fatalf("searches = %+v", searches)
	}
}

func TestSetup_LocalPreviousSearches(t *testing.T) {
	ctx := context.Background()
	rt := setup(t, Options{
		ConfigPath: writeConfig(t, `previous_searches = "local"`),
		LogWriter:  io.Discard,
	})
	if _, ok := rt.Service.(*history.Source); !ok {
		t.Fatalf("Service = %T, want *history.Source", rt.Service)
	}

	searches, err := rt.Service.FetchPreviousSearches(ctx)
	if err != nil {
		t.Fatalf("FetchPreviousSearches: %v", err)
	}
	if len(searches) != 0 {
		t.Fatalf("fresh history = %+v, want empty", searches)
	}

	if _, err := rt.Service.Search(ctx, "Mock", catalog.KindBrewery); err != nil {
		t.Fatalf("Search: %v", err)
	}
	searches, err = rt.Service.FetchPreviousSearches(ctx)
	if err != nil {
		t.Fatalf("FetchPreviousSearches: %v", err)
	}
	if len(searches) != 1 || searches[0].Query != "Mock" || searches[0].Kind != catalog.KindBrewery {
		t.Fatalf("searches = %+v", searches)
	}
}

func TestSetup_LogsToFileWithoutWriter(t *testing.T) {
	cfgPath := writeConfig(t, "")
	rt := setup(t, Options{ConfigPath: cfgPath, Verbose: true})

	rt.Logger.Debug("hello from test")
	data, err := os.ReadFile(rt.Config.LogPath())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "hello from test") {
		t.Fatalf("log file = %q, want debug line", data)
	}
}

func TestSetup_TracingWritesSpans(t *testing.T) {
	ctx := context.Background()
	rt, err := Setup(ctx, Options{
		ConfigPath: writeConfig(t, "tracing = true"),
		LogWriter:  io.Discard,
		Version:    "1.2.3",
	})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if _, err := rt.Client.FetchPreviousSearches(ctx); err != nil {
		t.Fatalf("FetchPreviousSearches: %v", err)
	}
	if err := rt.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(rt.Config.TracePath())
	if err != nil {
		t.Fatalf("read traces: %v", err)
	}
	if !strings.Contains(string(data), "1.2.3") {
		t.Fatalf("trace output missing service version: %q", data)
	}
}

func TestSetup_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "previous_search_limit = -1\nrequest_timeout = \"soon\"")
	if _, err := Setup(context.Background(), Options{ConfigPath: path, LogWriter: io.Discard}); err == nil {
		t.Fatal("expected error for invalid request_timeout")
	}
}

func TestRuntimeClose_Nil(t *testing.T) {
	var rt *Runtime
	if err := rt.Close(context.Background()); err != nil {
		t.Fatalf("Close on nil runtime = %v", err)
	}
}
