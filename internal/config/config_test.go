package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PreviousSearchLimit != 30 {
		t.Fatalf("PreviousSearchLimit = %d, want 30", cfg.PreviousSearchLimit)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if !cfg.RecordHistory || cfg.Tracing {
		t.Fatalf("RecordHistory = %v, Tracing = %v, want true/false", cfg.RecordHistory, cfg.Tracing)
	}
	if cfg.PreviousSearches != SourceRemote {
		t.Fatalf("PreviousSearches = %q, want remote", cfg.PreviousSearches)
	}

	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.LogPath() != filepath.Join(wantLogDir, "ebs.log") {
		t.Fatalf("LogPath = %q", cfg.LogPath())
	}
	if !strings.HasPrefix(cfg.HistoryPath, home) {
		t.Fatalf("HistoryPath = %q, want it under HOME %q", cfg.HistoryPath, home)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_url = "  http://127.0.0.1:9999  "
previous_search_limit = 12
request_timeout = "2500ms"
log_dir = "  ~/.ebs/logs  "
log_level = "debug"
log_format = "json"
tracing = true
history_path = "~/.ebs/history.db"
record_history = false
previous_searches = " Local "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://127.0.0.1:9999" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.PreviousSearchLimit != 12 {
		t.Fatalf("PreviousSearchLimit = %d, want 12", cfg.PreviousSearchLimit)
	}
	if cfg.RequestTimeout != 2500*time.Millisecond {
		t.Fatalf("RequestTimeout = %v, want 2.5s", cfg.RequestTimeout)
	}
	if cfg.LogDir != filepath.Join(home, ".ebs/logs") {
		t.Fatalf("LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	}
	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Fatalf("LogLevel/LogFormat = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if !cfg.Tracing {
		t.Fatal("Tracing = false, want true")
	}
	if cfg.RecordHistory {
		t.Fatal("RecordHistory = true, want false")
	}
	if cfg.HistoryPath != filepath.Join(home, ".ebs/history.db") {
		t.Fatalf("HistoryPath = %q", cfg.HistoryPath)
	}
	if cfg.PreviousSearches != SourceLocal {
		t.Fatalf("PreviousSearches = %q, want local", cfg.PreviousSearches)
	}
	if cfg.TracePath() != filepath.Join(cfg.LogDir, "traces.jsonl") {
		t.Fatalf("TracePath = %q", cfg.TracePath())
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
api_url = "   "
log_dir = ""
previous_search_limit = 0
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PreviousSearchLimit != defaultPreviousSearchLimit {
		t.Fatalf("PreviousSearchLimit = %d", cfg.PreviousSearchLimit)
	}
	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("EBS_API_URL", "http://env.example:1234")
	t.Setenv("EBS_LOG_LEVEL", "warn")
	t.Setenv("EBS_LOG_FORMAT", "json")
	t.Setenv("EBS_TRACING", "true")
	t.Setenv("EBS_HISTORY_PATH", "~/env.db")

	path := writeConfig(t, `
api_url = "http://file.example"
log_level = "debug"
tracing = false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://env.example:1234" {
		t.Fatalf("APIURL = %q, want env value", cfg.APIURL)
	}
	if cfg.LogLevel != "warn" || cfg.LogFormat != "json" {
		t.Fatalf("LogLevel/LogFormat = %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if !cfg.Tracing {
		t.Fatal("Tracing = false, want env override true")
	}
	if cfg.HistoryPath != filepath.Join(home, "env.db") {
		t.Fatalf("HistoryPath = %q", cfg.HistoryPath)
	}
}

func TestLoad_InvalidEnvFails(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("EBS_TRACING", "sometimes")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "EBS_TRACING") {
		t.Fatalf("Load error = %v, want EBS_TRACING error", err)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := writeConfig(t, `api_url = [`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad timeout", `request_timeout = "soon"`, "request_timeout"},
		{"negative timeout", `request_timeout = "-1s"`, "request_timeout"},
		{"unknown source", `previous_searches = "cloud"`, "previous_searches"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want it to mention %s", err, tt.want)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("EBS_LOG_LEVEL=debug\nEBS_API_URL=http://dotenv\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("EBS_LOG_LEVEL", "")
	os.Unsetenv("EBS_LOG_LEVEL")
	t.Setenv("EBS_API_URL", "http://already-set")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("EBS_LOG_LEVEL"); got != "debug" {
		t.Fatalf("EBS_LOG_LEVEL = %q, want debug", got)
	}
	if got := os.Getenv("EBS_API_URL"); got != "http://already-set" {
		t.Fatalf("EBS_API_URL = %q, want existing value kept", got)
	}
}

func TestLoadEnvFile_MissingIsIgnored(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("LoadEnvFile returned error for missing file: %v", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/ebs.log")) {
		t.Fatalf("LogPath = %q, want it to end with /ebs.log", got)
	}
}
