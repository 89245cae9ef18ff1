// Package state provides a thread-safe snapshot store shared between
// background rescans and the UI refresh loop.
//
// The Store follows a producer-consumer pattern: rescan completions call
// Update with a full replacement of the registry view, and the UI reads
// Snapshot on its own schedule. Both sides get defensive copies, so neither
// can mutate the other's data. On error the previous good data is kept and
// the error recorded alongside it for display.
package state
