package state

import (
	"sync"
	"time"

	"github.com/protokoll-app/protokoll/internal/discovery"
	"github.com/protokoll-app/protokoll/internal/tracker"
)

// Snapshot represents the latest registry data available to the UI.
type Snapshot struct {
	Trackers    []tracker.Tracker
	Session     tracker.Session
	Scanning    string // name of the tracker being scanned, empty when idle
	Warnings    []discovery.Warning
	LastError   error
	LastUpdated time.Time
}

// Store coordinates concurrent updates to the snapshot between background
// rescans and the UI refresh loop.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored trackers and session. When err is non-nil the
// previous data is kept but the error is recorded for visibility.
func (s *Store) Update(trackers []tracker.Tracker, session tracker.Session, warnings []discovery.Warning, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		return
	}
	s.snapshot.Trackers = cloneTrackers(trackers)
	s.snapshot.Session = session
	s.snapshot.Warnings = append([]discovery.Warning(nil), warnings...)
	s.snapshot.LastError = nil
}

// SetScanning records which tracker has a scan in flight, or clears it.
func (s *Store) SetScanning(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot.Scanning = name
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Trackers = cloneTrackers(s.snapshot.Trackers)
	snap.Warnings = append([]discovery.Warning(nil), s.snapshot.Warnings...)
	return snap
}

func cloneTrackers(items []tracker.Tracker) []tracker.Tracker {
	if len(items) == 0 {
		return nil
	}
	dup := make([]tracker.Tracker, len(items))
	for i, t := range items {
		dup[i] = t
		dup[i].Directories = append([]string(nil), t.Directories...)
		dup[i].Files = append([]discovery.FileEntry(nil), t.Files...)
	}
	return dup
}
