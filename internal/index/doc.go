// Package index archives scan results in a local SQLite database.
//
// The index is strictly advisory: the registry's TOML settings file
// remains the source of truth for trackers and their cached file lists.
// The database only exists to answer historical questions (per-tracker
// totals, recently modified files) cheaply, and every caller tolerates
// its absence.
package index
