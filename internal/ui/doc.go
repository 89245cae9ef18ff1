// Package ui implements the terminal interface with Bubble Tea.
//
// The screen is split into a tracker pane on the left and either the file
// list or the log viewer on the right. All registry mutations flow through
// tracker.Registry so they persist immediately; the model only holds
// snapshots read back through state.Store.
//
// Rescans run as background commands so the UI stays responsive while
// large directory trees are walked. A scan in flight can be cancelled by
// starting another or quitting.
package ui
