// Package settings persists tracker definitions and session state.
// Settings are stored in ~/.config/protokoll/settings.toml.
package settings

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// TrackerRecord is the persisted form of a tracker. Cached file lists are not
// persisted here; they are rebuilt by a rescan at startup.
type TrackerRecord struct {
	Name        string    `toml:"name"`
	Description string    `toml:"description,omitempty"`
	Directories []string  `toml:"directories"`
	LastScan    time.Time `toml:"last_scan,omitempty"`
}

// Session records the last-viewed tracker and file so the next launch can
// restore the selection. References are validated by the registry on load.
type Session struct {
	LastTracker string `toml:"last_tracker,omitempty"`
	LastFile    string `toml:"last_file,omitempty"`
}

// Settings is the full persisted record.
type Settings struct {
	Trackers []TrackerRecord `toml:"trackers,omitempty"`
	Session  Session         `toml:"session,omitempty"`
}

const defaultSettingsPath = "~/.config/protokoll/settings.toml"

// DefaultPath returns the default settings file path.
func DefaultPath() string {
	return defaultSettingsPath
}

// Load reads settings from the given path. A missing or corrupt file yields
// empty settings and no error; startup must never fail on bad persisted
// state.
func Load(path string) (Settings, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Settings{}, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Settings{}, nil // Graceful degradation
	}

	var s Settings
	if err := toml.Unmarshal(bytes, &s); err != nil {
		return Settings{}, nil // Graceful degradation
	}
	return s, nil
}

// Save writes settings to the given path, creating directories as needed.
// The write goes to a temp file in the target directory followed by a rename,
// so a crash mid-write cannot corrupt the previous record.
func Save(path string, s Settings) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	bytes, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.toml")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp settings: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod settings: %w", err)
	}
	if err := os.Rename(tmpName, resolved); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSettingsPath)
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
