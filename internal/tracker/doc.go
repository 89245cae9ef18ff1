// Package tracker maintains the registry of trackers and the session state.
//
// # Overview
//
// A tracker is a named project grouping one or more log directories. The
// registry owns all trackers plus the session record (last-viewed tracker
// and file), keeps them in sync with the discovery engine, and persists
// every mutation synchronously through the settings store before returning.
// A crash immediately after a user action therefore never silently loses
// state beyond the last completed operation.
//
// # Invariants
//
//   - Tracker names are unique and compared case-sensitively.
//   - A directory appears at most once per tracker; AddDirectory is
//     idempotent and RemoveDirectory of an untracked path is a no-op.
//   - The cached file list always reflects the most recent completed scan;
//     rescans replace it wholesale, never merge.
//   - Session references are validated on load; stale ones are dropped, not
//     treated as fatal.
//
// # Scanning
//
// Rescan runs the discovery engine outside the registry lock so long walks
// never block other operations, then commits the result atomically.
// RescanAsync wraps it for background use with a cancel function; a
// cancelled scan discards its partial result and leaves the cache untouched.
//
// Per-directory discovery warnings are returned to the caller for display
// and never fail the scan. Index recording failures are logged and ignored;
// the SQLite index is an accelerator, not a source of truth.
package tracker
