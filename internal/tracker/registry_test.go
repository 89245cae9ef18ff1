package tracker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/protokoll-app/protokoll/internal/discovery"
	"github.com/protokoll-app/protokoll/internal/index"
	"github.com/protokoll-app/protokoll/internal/settings"
)

func newTestRegistry(t *testing.T) (*Registry, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.toml")
	r, err := NewRegistry(Options{SettingsPath: path})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return r, path
}

func writeLog(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte("entry\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestCreate_DuplicateName(t *testing.T) {
	r, _ := newTestRegistry(t)

	if err := r.Create("Backend", ""); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	err := r.Create("Backend", "again")
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("second Create error = %v, want ErrDuplicateName", err)
	}
	// Case-sensitive: a different case is a different tracker.
	if err := r.Create("backend", ""); err != nil {
		t.Fatalf("Create with different case returned error: %v", err)
	}
}

func TestCreate_EmptyNameRejected(t *testing.T) {
	r, _ := newTestRegistry(t)
	if err := r.Create("   ", ""); err == nil {
		t.Fatal("Create accepted a blank name")
	}
}

func TestAddDirectory_Idempotent(t *testing.T) {
	r, _ := newTestRegistry(t)
	if err := r.Create("Backend", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dir := t.TempDir()
	if err := r.AddDirectory("Backend", dir); err != nil {
		t.Fatalf("AddDirectory: %v", err)
	}
	if err := r.AddDirectory("Backend", dir); err != nil {
		t.Fatalf("second AddDirectory: %v", err)
	}

	got, _ := r.Get("Backend")
	if !reflect.DeepEqual(got.Directories, []string{dir}) {
		t.Fatalf("Directories = %v, want [%s]", got.Directories, dir)
	}
}

func TestRemoveDirectory_UntrackedIsNoop(t *testing.T) {
	r, _ := newTestRegistry(t)
	if err := r.Create("Backend", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.RemoveDirectory("Backend", "/never/tracked"); err != nil {
		t.Fatalf("RemoveDirectory of untracked path returned error: %v", err)
	}
}

func TestRemoveDirectory_DropsCachedFiles(t *testing.T) {
	r, _ := newTestRegistry(t)
	if err := r.Create("Backend", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	keep := t.TempDir()
	drop := t.TempDir()
	writeLog(t, filepath.Join(keep, "keep.log"))
	writeLog(t, filepath.Join(drop, "drop.log"))
	for _, d := range []string{keep, drop} {
		if err := r.AddDirectory("Backend", d); err != nil {
			t.Fatalf("AddDirectory: %v", err)
		}
	}
	if _, _, err := r.Rescan(context.Background(), "Backend"); err != nil {
		t.Fatalf("Rescan: %v", err)
	}

	if err := r.RemoveDirectory("Backend", drop); err != nil {
		t.Fatalf("RemoveDirectory: %v", err)
	}
	got, _ := r.Get("Backend")
	if len(got.Files) != 1 || got.Files[0].Name != "keep.log" {
		t.Fatalf("Files after RemoveDirectory = %+v, want only keep.log", got.Files)
	}
}

func TestRescan_ReplacesFileListAndPersists(t *testing.T) {
	r, path := newTestRegistry(t)
	if err := r.Create("Backend", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "app.log"))
	writeLog(t, filepath.Join(dir, "app.log.1"))
	if err := r.AddDirectory("Backend", dir); err != nil {
		t.Fatalf("AddDirectory: %v", err)
	}

	files, warnings, err := r.Rescan(context.Background(), "Backend")
	if err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	if len(files) != 2 || files[0].Name != "app.log" || files[1].Name != "app.log.1" {
		t.Fatalf("files = %+v, want app.log and app.log.1", files)
	}

	// A file removed from disk disappears from the next scan wholesale.
	if err := os.Remove(filepath.Join(dir, "app.log")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	files, _, err = r.Rescan(context.Background(), "Backend")
	if err != nil {
		t.Fatalf("second Rescan: %v", err)
	}
	if len(files) != 1 || files[0].Name != "app.log.1" {
		t.Fatalf("files after delete = %+v, want only app.log.1", files)
	}

	saved, err := settings.Load(path)
	if err != nil {
		t.Fatalf("settings.Load: %v", err)
	}
	if len(saved.Trackers) != 1 || saved.Trackers[0].Name != "Backend" {
		t.Fatalf("persisted trackers = %+v", saved.Trackers)
	}
	if !reflect.DeepEqual(saved.Trackers[0].Directories, []string{dir}) {
		t.Fatalf("persisted directories = %v, want [%s]", saved.Trackers[0].Directories, dir)
	}
	if saved.Trackers[0].LastScan.IsZero() {
		t.Fatal("persisted LastScan is zero after rescan")
	}
}

func TestRescanAsync_CancelLeavesCacheUntouched(t *testing.T) {
	r, _ := newTestRegistry(t)
	if err := r.Create("Backend", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "app.log"))
	if err := r.AddDirectory("Backend", dir); err != nil {
		t.Fatalf("AddDirectory: %v", err)
	}
	if _, _, err := r.Rescan(context.Background(), "Backend"); err != nil {
		t.Fatalf("Rescan: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancelled before the scan starts

	results := make(chan RescanResult, 1)
	r.RescanAsync(ctx, "Backend", func(res RescanResult) { results <- res })

	select {
	case res := <-results:
		if res.Err == nil {
			t.Fatal("cancelled rescan reported nil error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("RescanAsync callback never fired")
	}

	got, _ := r.Get("Backend")
	if len(got.Files) != 1 {
		t.Fatalf("cached files = %+v, want previous scan preserved", got.Files)
	}
}

func TestRescanAsync_Completes(t *testing.T) {
	r, _ := newTestRegistry(t)
	if err := r.Create("Backend", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "app.log"))
	if err := r.AddDirectory("Backend", dir); err != nil {
		t.Fatalf("AddDirectory: %v", err)
	}

	results := make(chan RescanResult, 1)
	r.RescanAsync(context.Background(), "Backend", func(res RescanResult) { results <- res })

	select {
	case res := <-results:
		if res.Err != nil {
			t.Fatalf("RescanAsync error: %v", res.Err)
		}
		if len(res.Files) != 1 {
			t.Fatalf("RescanAsync files = %+v, want one", res.Files)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("RescanAsync callback never fired")
	}
}

func TestDelete_ClearsSessionSelection(t *testing.T) {
	r, path := newTestRegistry(t)
	if err := r.Create("Backend", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.Select("Backend"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := r.Delete("Backend"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if s := r.Session(); s.LastTracker != "" {
		t.Fatalf("Session.LastTracker = %q, want cleared", s.LastTracker)
	}
	saved, err := settings.Load(path)
	if err != nil {
		t.Fatalf("settings.Load: %v", err)
	}
	if saved.Session.LastTracker != "" {
		t.Fatalf("persisted LastTracker = %q, want cleared", saved.Session.LastTracker)
	}
}

func TestDelete_UnknownTracker(t *testing.T) {
	r, _ := newTestRegistry(t)
	if err := r.Delete("ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete error = %v, want ErrNotFound", err)
	}
}

func TestRename_MovesSessionReference(t *testing.T) {
	r, _ := newTestRegistry(t)
	if err := r.Create("Old", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.Select("Old"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if err := r.Rename("Old", "New"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if _, ok := r.Get("Old"); ok {
		t.Fatal("old name still resolves after rename")
	}
	if _, ok := r.Get("New"); !ok {
		t.Fatal("new name does not resolve after rename")
	}
	if s := r.Session(); s.LastTracker != "New" {
		t.Fatalf("Session.LastTracker = %q, want %q", s.LastTracker, "New")
	}
}

func TestLoad_StaleSessionDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	err := settings.Save(path, settings.Settings{
		Trackers: []settings.TrackerRecord{{Name: "Backend", Directories: []string{"/var/log/app"}}},
		Session:  settings.Session{LastTracker: "Deleted", LastFile: "/var/log/app/app.log"},
	})
	if err != nil {
		t.Fatalf("settings.Save: %v", err)
	}

	r, err := NewRegistry(Options{SettingsPath: path})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if s := r.Session(); s != (Session{}) {
		t.Fatalf("Session = %+v, want zero for stale reference", s)
	}
	if _, ok := r.Get("Backend"); !ok {
		t.Fatal("tracker lost while dropping stale session")
	}
}

func TestLoad_StaleSessionFileDropped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	err := settings.Save(path, settings.Settings{
		Trackers: []settings.TrackerRecord{{Name: "Backend", Directories: []string{"/var/log/app"}}},
		Session:  settings.Session{LastTracker: "Backend", LastFile: "/elsewhere/app.log"},
	})
	if err != nil {
		t.Fatalf("settings.Save: %v", err)
	}

	r, err := NewRegistry(Options{SettingsPath: path})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	s := r.Session()
	if s.LastTracker != "Backend" {
		t.Fatalf("LastTracker = %q, want kept", s.LastTracker)
	}
	if s.LastFile != "" {
		t.Fatalf("LastFile = %q, want dropped (outside tracked dirs)", s.LastFile)
	}
}

func TestRoundTrip_SaveLoadEquivalent(t *testing.T) {
	r, path := newTestRegistry(t)
	if err := r.Create("Backend", "api"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dir := t.TempDir()
	if err := r.AddDirectory("Backend", dir); err != nil {
		t.Fatalf("AddDirectory: %v", err)
	}
	if err := r.Select("Backend"); err != nil {
		t.Fatalf("Select: %v", err)
	}

	reloaded, err := NewRegistry(Options{SettingsPath: path})
	if err != nil {
		t.Fatalf("NewRegistry reload: %v", err)
	}
	got, ok := reloaded.Get("Backend")
	if !ok {
		t.Fatal("tracker missing after reload")
	}
	if got.Description != "api" || !reflect.DeepEqual(got.Directories, []string{dir}) {
		t.Fatalf("reloaded tracker = %+v", got)
	}
	if s := reloaded.Session(); s.LastTracker != "Backend" {
		t.Fatalf("reloaded session = %+v", s)
	}
}

type recordingNotifier struct {
	trackerEvents int
	fileEvents    []string
	selections    []Session
}

func (n *recordingNotifier) TrackerListChanged()            { n.trackerEvents++ }
func (n *recordingNotifier) FileListChanged(tracker string) { n.fileEvents = append(n.fileEvents, tracker) }
func (n *recordingNotifier) SelectionChanged(s Session)     { n.selections = append(n.selections, s) }

func TestNotifier_ReceivesEvents(t *testing.T) {
	n := &recordingNotifier{}
	path := filepath.Join(t.TempDir(), "settings.toml")
	r, err := NewRegistry(Options{SettingsPath: path, Notifier: n})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if err := r.Create("Backend", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "app.log"))
	if err := r.AddDirectory("Backend", dir); err != nil {
		t.Fatalf("AddDirectory: %v", err)
	}
	if err := r.Select("Backend"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if _, _, err := r.Rescan(context.Background(), "Backend"); err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if err := r.SetDescription("Backend", "api services"); err != nil {
		t.Fatalf("SetDescription: %v", err)
	}

	// Create, AddDirectory and SetDescription each change the tracker list.
	if n.trackerEvents != 3 {
		t.Fatalf("trackerEvents = %d, want 3", n.trackerEvents)
	}
	if !reflect.DeepEqual(n.fileEvents, []string{"Backend"}) {
		t.Fatalf("fileEvents = %v, want [Backend]", n.fileEvents)
	}
	if len(n.selections) != 1 || n.selections[0].LastTracker != "Backend" {
		t.Fatalf("selections = %+v", n.selections)
	}
}

type recordingRecorder struct {
	scans   []string
	deletes []string
	renames [][2]string
}

func (r *recordingRecorder) RecordScan(tracker string, files []discovery.FileEntry, scannedAt time.Time) error {
	r.scans = append(r.scans, tracker)
	return nil
}

func (r *recordingRecorder) DeleteTracker(tracker string) error {
	r.deletes = append(r.deletes, tracker)
	return nil
}

func (r *recordingRecorder) RenameTracker(oldName, newName string) error {
	r.renames = append(r.renames, [2]string{oldName, newName})
	return nil
}

func TestRecorder_FollowsRenameAndDelete(t *testing.T) {
	rec := &recordingRecorder{}
	path := filepath.Join(t.TempDir(), "settings.toml")
	r, err := NewRegistry(Options{SettingsPath: path, Recorder: rec})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if err := r.Create("Backend", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "app.log"))
	if err := r.AddDirectory("Backend", dir); err != nil {
		t.Fatalf("AddDirectory: %v", err)
	}
	if _, _, err := r.Rescan(context.Background(), "Backend"); err != nil {
		t.Fatalf("Rescan: %v", err)
	}
	if err := r.Rename("Backend", "API"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if err := r.Delete("API"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if !reflect.DeepEqual(rec.scans, []string{"Backend"}) {
		t.Fatalf("scans = %v, want [Backend]", rec.scans)
	}
	if !reflect.DeepEqual(rec.renames, [][2]string{{"Backend", "API"}}) {
		t.Fatalf("renames = %v, want [[Backend API]]", rec.renames)
	}
	if !reflect.DeepEqual(rec.deletes, []string{"API"}) {
		t.Fatalf("deletes = %v, want [API]", rec.deletes)
	}
}

func TestDelete_PrunesScanIndex(t *testing.T) {
	dir := t.TempDir()
	db, err := index.Open(filepath.Join(dir, "index.db"))
	if err != nil {
		t.Fatalf("index.Open: %v", err)
	}
	defer func() { _ = db.Close() }()

	r, err := NewRegistry(Options{
		SettingsPath: filepath.Join(dir, "settings.toml"),
		Recorder:     db,
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	logs := t.TempDir()
	writeLog(t, filepath.Join(logs, "app.log"))
	if err := r.Create("Backend", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := r.AddDirectory("Backend", logs); err != nil {
		t.Fatalf("AddDirectory: %v", err)
	}
	if _, _, err := r.Rescan(context.Background(), "Backend"); err != nil {
		t.Fatalf("Rescan: %v", err)
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 1 || stats[0].Tracker != "Backend" {
		t.Fatalf("stats before delete = %+v, want one Backend entry", stats)
	}

	if err := r.Delete("Backend"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	stats, err = db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("stats after delete = %+v, want empty", stats)
	}
}
