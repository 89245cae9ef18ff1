// Package cli defines the protokoll command-line interface.
//
// Running protokoll without a subcommand opens the TUI. Subcommands cover
// the same operations non-interactively: managing trackers, rescanning,
// searching file contents, locating an application's log directories and
// inspecting the scan history index.
package cli
