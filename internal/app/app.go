package app

import (
	"context"
	"fmt"
	"log"

	"github.com/protokoll-app/protokoll/internal/index"
	"github.com/protokoll-app/protokoll/internal/prefs"
	"github.com/protokoll-app/protokoll/internal/state"
	"github.com/protokoll-app/protokoll/internal/tracker"
	"github.com/protokoll-app/protokoll/internal/ui"
)

// Options configure the Protokoll application.
type Options struct {
	SettingsPath string // empty uses ~/.config/protokoll/settings.toml
	PrefsPath    string // empty uses ~/.config/protokoll/prefs.toml
	IndexPath    string // empty uses ~/.local/share/protokoll/index.db
	NoIndex      bool   // skip the scan history index entirely
}

// Components holds the wired application pieces for callers that drive the
// registry directly instead of starting the TUI.
type Components struct {
	Registry *tracker.Registry
	Index    *index.DB // nil when the index is disabled or unavailable
	Prefs    prefs.Prefs
}

// Open wires settings, preferences, the scan index and the tracker registry.
// The index is advisory: if it cannot be opened the app continues without it.
func Open(opts Options) (*Components, error) {
	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}

	var db *index.DB
	if !opts.NoIndex {
		db, err = index.Open(opts.IndexPath)
		if err != nil {
			// Graceful degradation: scanning works without history.
			log.Printf("scan index unavailable: %v", err)
			db = nil
		}
	}

	regOpts := tracker.Options{SettingsPath: opts.SettingsPath}
	if db != nil {
		regOpts.Recorder = db
	}
	registry, err := tracker.NewRegistry(regOpts)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("load trackers: %w", err)
	}

	return &Components{Registry: registry, Index: db, Prefs: userPrefs}, nil
}

// Close releases resources held by the components.
func (c *Components) Close() error {
	if c.Index != nil {
		return c.Index.Close()
	}
	return nil
}

// Run boots the Protokoll TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	components, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = components.Close()
	}()

	store := &state.Store{}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	uiOpts := ui.Options{
		Context:   ctx,
		Registry:  components.Registry,
		Store:     store,
		Prefs:     components.Prefs,
		PrefsPath: prefsPath,
	}
	return ui.Run(uiOpts)
}
