package state

import (
	"errors"
	"testing"
	"time"

	"github.com/protokoll-app/protokoll/internal/discovery"
	"github.com/protokoll-app/protokoll/internal/tracker"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	trackers := []tracker.Tracker{{
		Name:        "Backend",
		Directories: []string{"/var/log/app"},
		Files:       []discovery.FileEntry{{Path: "/var/log/app/app.log"}},
	}}
	session := tracker.Session{LastTracker: "Backend"}

	before := time.Now()
	s.Update(trackers, session, nil, nil)

	snap := s.Snapshot()
	if len(snap.Trackers) != 1 || snap.Trackers[0].Name != "Backend" {
		t.Fatalf("snapshot trackers = %+v", snap.Trackers)
	}
	if snap.Session != session {
		t.Fatalf("snapshot session = %+v, want %+v", snap.Session, session)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Trackers[0].Files[0].Path = "/mutated"
	snap2 := s.Snapshot()
	if snap2.Trackers[0].Files[0].Path != "/var/log/app/app.log" {
		t.Fatalf("Snapshot should clone files; got %q", snap2.Trackers[0].Files[0].Path)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]tracker.Tracker{{Name: "Backend"}}, tracker.Session{LastTracker: "Backend"}, nil, nil)
	s.Update(nil, tracker.Session{}, nil, errors.New("boom"))

	snap := s.Snapshot()
	if len(snap.Trackers) != 1 || snap.Trackers[0].Name != "Backend" {
		t.Fatalf("trackers changed on error: %+v", snap.Trackers)
	}
	if snap.Session.LastTracker != "Backend" {
		t.Fatalf("session changed on error: %+v", snap.Session)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
}

func TestStore_SetScanning(t *testing.T) {
	var s Store

	s.SetScanning("Backend")
	if got := s.Snapshot().Scanning; got != "Backend" {
		t.Fatalf("Scanning = %q, want Backend", got)
	}
	s.SetScanning("")
	if got := s.Snapshot().Scanning; got != "" {
		t.Fatalf("Scanning = %q, want cleared", got)
	}
}
