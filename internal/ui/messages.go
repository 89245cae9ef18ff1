package ui

import (
	"time"

	"github.com/protokoll-app/protokoll/internal/tracker"
)

// initScanMsg triggers the startup rescan of the restored tracker. Routing
// it through Update keeps the scanning indicator and cancel handle on the
// model, which Init cannot mutate.
type initScanMsg struct {
	tracker string
}

// scanDoneMsg is delivered when a background rescan finishes.
type scanDoneMsg struct {
	result tracker.RescanResult
}

// fileLoadedMsg is delivered when a log file's content is ready for the
// viewer.
type fileLoadedMsg struct {
	path    string
	lines   []string
	tailing bool
	reload  bool // refresh of the open file, keep viewer state
	err     error
}

// toastExpiredMsg clears a toast after its display interval.
type toastExpiredMsg struct {
	id int
}

// tickMsg drives the periodic refresh of the status bar clock and toast
// expiry checks.
type tickMsg time.Time
