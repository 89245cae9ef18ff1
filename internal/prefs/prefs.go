// Package prefs handles Protokoll user preferences persistence.
// Preferences are stored in ~/.config/protokoll/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user preferences for Protokoll.
type Prefs struct {
	Theme     string `toml:"theme"`
	LineWrap  bool   `toml:"line_wrap"`
	TailLines int    `toml:"tail_lines"`
	// CustomLogRoots are extra directories the log-directory finder searches
	// in addition to the OS-conventional application data roots.
	CustomLogRoots []string `toml:"custom_log_roots,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/protokoll/prefs.toml"
	defaultTheme     = "Dracula"
	defaultTailLines = 2000
)

// Default returns the preferences used when nothing is persisted.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, LineWrap: true, TailLines: defaultTailLines}
}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if
// missing or unreadable.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	p := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return p, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return p, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &p); err != nil {
		return Default(), nil // Graceful degradation
	}

	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	if p.TailLines <= 0 {
		p.TailLines = defaultTailLines
	}
	return p, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// AddCustomLogRoot records an extra finder root. Adding a root twice is a
// no-op. The updated preferences are persisted before returning.
func AddCustomLogRoot(path string, p *Prefs, root string) error {
	root = strings.TrimSpace(root)
	if root == "" {
		return fmt.Errorf("root is empty")
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}
	if slices.Contains(p.CustomLogRoots, root) {
		return nil
	}
	p.CustomLogRoots = append(p.CustomLogRoots, root)
	return Save(path, *p)
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
