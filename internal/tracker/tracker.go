package tracker

import (
	"errors"
	"time"

	"github.com/protokoll-app/protokoll/internal/discovery"
)

// ErrDuplicateName is returned when creating or renaming a tracker to a name
// that already exists. Names are compared case-sensitively.
var ErrDuplicateName = errors.New("tracker name already exists")

// ErrNotFound is returned when an operation references an unknown tracker.
var ErrNotFound = errors.New("tracker not found")

// Tracker is a named project grouping one or more tracked log directories
// and the file list from its most recent scan.
type Tracker struct {
	Name        string
	Description string
	// Directories is ordered and free of duplicates.
	Directories []string
	// Files is the cached result of the last completed scan. It is replaced
	// wholesale by a rescan, never merged, so entries for deleted or renamed
	// files cannot linger.
	Files    []discovery.FileEntry
	LastScan time.Time
}

func (t *Tracker) clone() Tracker {
	dup := *t
	dup.Directories = append([]string(nil), t.Directories...)
	dup.Files = append([]discovery.FileEntry(nil), t.Files...)
	return dup
}

// Session is the last-viewed tracker and file, restored at startup.
type Session struct {
	LastTracker string
	LastFile    string
}

// Notifier receives change notifications for the presentation layer. All
// methods are invoked synchronously from registry operations, after the
// change has been persisted, with the registry lock held: implementations
// must hand off quickly and must not call back into the Registry.
type Notifier interface {
	TrackerListChanged()
	FileListChanged(tracker string)
	SelectionChanged(session Session)
}

// Recorder archives scan results, e.g. into the SQLite index, and follows
// tracker renames and deletions so the archive never describes trackers that
// no longer exist. Failures are advisory; the registry logs and continues.
type Recorder interface {
	RecordScan(tracker string, files []discovery.FileEntry, scannedAt time.Time) error
	DeleteTracker(tracker string) error
	RenameTracker(oldName, newName string) error
}
