package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the ebs settings after defaults and environment overrides.
type Config struct {
	APIURL              string
	PreviousSearchLimit int
	RequestTimeout      time.Duration
	LogDir              string
	LogLevel            string
	LogFormat           string
	Tracing             bool
	HistoryPath         string
	RecordHistory       bool
	PreviousSearches    string
}

// Previous-searches sources.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

const (
	defaultConfigPath          = "~/.config/ebs/config.toml"
	defaultAPIURL              = "http://adamsweb.asuscomm.com:8080"
	defaultPreviousSearchLimit = 30
	defaultRequestTimeout      = 10 * time.Second
	defaultLogDir              = "~/.local/share/ebs/logs"
	defaultLogLevel            = "info"
	defaultLogFormat           = "text"
	defaultHistoryPath         = "~/.local/share/ebs/history.db"
)

type fileConfig struct {
	APIURL              string `toml:"api_url"`
	PreviousSearchLimit int    `toml:"previous_search_limit"`
	RequestTimeout      string `toml:"request_timeout"`
	LogDir              string `toml:"log_dir"`
	LogLevel            string `toml:"log_level"`
	LogFormat           string `toml:"log_format"`
	Tracing             *bool  `toml:"tracing"`
	HistoryPath         string `toml:"history_path"`
	RecordHistory       *bool  `toml:"record_history"`
	PreviousSearches    string `toml:"previous_searches"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:              defaultAPIURL,
		PreviousSearchLimit: defaultPreviousSearchLimit,
		RequestTimeout:      defaultRequestTimeout,
		LogDir:              mustExpand(defaultLogDir),
		LogLevel:            defaultLogLevel,
		LogFormat:           defaultLogFormat,
		HistoryPath:         mustExpand(defaultHistoryPath),
		RecordHistory:       true,
		PreviousSearches:    SourceRemote,
	}
}

// Load reads the config file at path (or the default location), falling back
// to defaults when it is missing, then applies EBS_* environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		var raw fileConfig
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
		if err := cfg.merge(raw); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func (c *Config) merge(raw fileConfig) error {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	if raw.PreviousSearchLimit > 0 {
		c.PreviousSearchLimit = raw.PreviousSearchLimit
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse config: request_timeout: %w", err)
		}
		c.RequestTimeout = d
	}
	if v := strings.TrimSpace(raw.LogDir); v != "" {
		c.LogDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(raw.LogFormat); v != "" {
		c.LogFormat = v
	}
	if raw.Tracing != nil {
		c.Tracing = *raw.Tracing
	}
	if v := strings.TrimSpace(raw.HistoryPath); v != "" {
		c.HistoryPath = mustExpand(v)
	}
	if raw.RecordHistory != nil {
		c.RecordHistory = *raw.RecordHistory
	}
	if v := strings.TrimSpace(raw.PreviousSearches); v != "" {
		c.PreviousSearches = strings.ToLower(v)
	}
	return nil
}

func (c *Config) applyEnv() error {
	envMappings := map[string]func(string) error{
		"EBS_API_URL":      func(v string) error { c.APIURL = v; return nil },
		"EBS_LOG_LEVEL":    func(v string) error { c.LogLevel = v; return nil },
		"EBS_LOG_FORMAT":   func(v string) error { c.LogFormat = v; return nil },
		"EBS_HISTORY_PATH": func(v string) error { c.HistoryPath = mustExpand(v); return nil },
		"EBS_TRACING": func(v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			c.Tracing = b
			return nil
		},
	}

	for envVar, setter := range envMappings {
		if value := strings.TrimSpace(os.Getenv(envVar)); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}
	return nil
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if c.PreviousSearchLimit <= 0 {
		return fmt.Errorf("previous_search_limit must be positive")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	switch c.PreviousSearches {
	case SourceRemote, SourceLocal:
	default:
		return fmt.Errorf("previous_searches must be %q or %q, got %q", SourceRemote, SourceLocal, c.PreviousSearches)
	}
	return nil
}

// LogPath returns the TUI log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/ebs.log")
	}
	return filepath.Join(c.LogDir, "ebs.log")
}

// TracePath returns the file spans are exported to when tracing is on.
func (c Config) TracePath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/traces.jsonl")
	}
	return filepath.Join(c.LogDir, "traces.jsonl")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
