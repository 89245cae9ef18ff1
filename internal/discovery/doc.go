// Package discovery enumerates log files under tracked directories.
//
// A scan is a pure read of filesystem metadata: it never mutates anything and
// always produces a deterministic, lexicographically sorted result, so two
// scans over an unchanged tree are identical. Per-directory failures are
// surfaced as Warnings rather than errors; only context cancellation aborts a
// scan, and callers must then discard the partial result.
//
// The walk is recursive with a configurable depth bound. Symlinked
// directories are followed, with a visited set of resolved paths guarding
// against cycles. Hidden directories and common build/VCS trees are skipped.
package discovery
