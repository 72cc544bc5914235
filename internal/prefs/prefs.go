// Package prefs persists the choices a user makes inside the TUI.
// Preferences are stored in ~/.config/ebs/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/ebs/internal/catalog"
)

// Prefs holds the remembered theme and search scope.
type Prefs struct {
	Theme      string `toml:"theme"`
	SearchKind string `toml:"search_kind"`
}

const (
	defaultPrefsPath  = "~/.config/ebs/prefs.toml"
	defaultTheme      = "Dracula"
	defaultSearchKind = "beer"
)

// Default returns the preferences used before anything is saved.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, SearchKind: defaultSearchKind}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Kind returns the remembered search scope, falling back to beer.
func (p Prefs) Kind() catalog.SearchKind {
	kind, err := catalog.ParseSearchKind(p.SearchKind)
	if err != nil {
		return catalog.KindBeer
	}
	return kind
}

// WithKind returns a copy of p with the search scope set to kind.
func (p Prefs) WithKind(kind catalog.SearchKind) Prefs {
	p.SearchKind = kind.String()
	return p
}

// Load reads preferences from path. It never fails: unreadable or invalid
// files yield defaults.
func Load(path string) (Prefs, error) {
	prefs := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs, nil
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return prefs, nil // Graceful degradation
		}
		return prefs, nil
	}

	var stored Prefs
	if err := toml.Unmarshal(data, &stored); err != nil {
		return prefs, nil // Graceful degradation
	}

	if theme := strings.TrimSpace(stored.Theme); theme != "" {
		prefs.Theme = theme
	}
	if kind, err := catalog.ParseSearchKind(stored.SearchKind); err == nil {
		prefs.SearchKind = kind.String()
	}
	return prefs, nil
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
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
