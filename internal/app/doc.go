// Package app provides the orchestration layer for the Protokoll
// application.
//
// # Overview
//
// This package is the composition root: it wires preferences, the tracker
// registry, the scan history index and the UI together. Business logic
// lives in the domain packages (tracker, discovery, logfile, finder); app
// only connects them with sensible defaults.
//
// # Initialization
//
//  1. Load user preferences from ~/.config/protokoll/prefs.toml
//  2. Open the scan history index (advisory; failures are logged and the
//     app continues without history)
//  3. Load tracker settings and build the registry, with the index wired
//     in as the scan recorder
//  4. Start the TUI and block until the user exits or the context cancels
//
// # Error Handling
//
// Fatal errors (returned from Run):
//   - Settings file present but unreadable at the filesystem level
//   - Preferences path unresolvable
//
// Recoverable conditions (logged, startup continues):
//   - Scan index cannot be opened
//   - Corrupt settings or preferences files (defaults are used)
//
// CLI subcommands that do not need the TUI call Open directly and drive
// the registry themselves.
package app
