package index

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/protokoll-app/protokoll/internal/discovery"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func entry(path string, size int64, mod time.Time) discovery.FileEntry {
	return discovery.FileEntry{
		Path:    path,
		Name:    filepath.Base(path),
		Dir:     filepath.Dir(path),
		Size:    size,
		ModTime: mod,
	}
}

func TestRecordScan_ReplacesPreviousRows(t *testing.T) {
	db := openTest(t)
	now := time.Now().Truncate(time.Second)

	first := []discovery.FileEntry{
		entry("/var/log/app/app.log", 100, now),
		entry("/var/log/app/app.log.1", 200, now.Add(-time.Hour)),
	}
	if err := db.RecordScan("Backend", first, now); err != nil {
		t.Fatalf("RecordScan: %v", err)
	}

	// Second scan: one file gone, the other grew.
	second := []discovery.FileEntry{entry("/var/log/app/app.log", 300, now)}
	if err := db.RecordScan("Backend", second, now.Add(time.Minute)); err != nil {
		t.Fatalf("second RecordScan: %v", err)
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("Stats = %+v, want one tracker", stats)
	}
	if stats[0].FileCount != 1 || stats[0].TotalSize != 300 {
		t.Fatalf("stats = %+v, want count 1 size 300", stats[0])
	}
}

func TestStats_MultipleTrackersSorted(t *testing.T) {
	db := openTest(t)
	now := time.Now()

	if err := db.RecordScan("Zeta", []discovery.FileEntry{entry("/z/a.log", 10, now)}, now); err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if err := db.RecordScan("Alpha", nil, now); err != nil {
		t.Fatalf("RecordScan: %v", err)
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 2 || stats[0].Tracker != "Alpha" || stats[1].Tracker != "Zeta" {
		t.Fatalf("Stats order = %+v, want Alpha then Zeta", stats)
	}
	if stats[0].FileCount != 0 {
		t.Fatalf("empty scan FileCount = %d, want 0", stats[0].FileCount)
	}
}

func TestRecent_OrderedByModTime(t *testing.T) {
	db := openTest(t)
	now := time.Now().Truncate(time.Second)

	files := []discovery.FileEntry{
		entry("/a/old.log", 1, now.Add(-2*time.Hour)),
		entry("/a/new.log", 2, now),
		entry("/a/mid.log", 3, now.Add(-time.Hour)),
	}
	if err := db.RecordScan("Backend", files, now); err != nil {
		t.Fatalf("RecordScan: %v", err)
	}

	recent, err := db.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent len = %d, want 2", len(recent))
	}
	if recent[0].Path != "/a/new.log" || recent[1].Path != "/a/mid.log" {
		t.Fatalf("Recent = %+v, want new.log then mid.log", recent)
	}
}

func TestDeleteTracker(t *testing.T) {
	db := openTest(t)
	now := time.Now()

	if err := db.RecordScan("Backend", []discovery.FileEntry{entry("/a/x.log", 1, now)}, now); err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if err := db.DeleteTracker("Backend"); err != nil {
		t.Fatalf("DeleteTracker: %v", err)
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 0 {
		t.Fatalf("Stats after delete = %+v, want empty", stats)
	}
	recent, err := db.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 0 {
		t.Fatalf("Recent after delete = %+v, want empty", recent)
	}
}

func TestRenameTracker_MovesRows(t *testing.T) {
	db := openTest(t)
	now := time.Now()

	files := []discovery.FileEntry{entry("/var/log/app.log", 10, now)}
	if err := db.RecordScan("Backend", files, now); err != nil {
		t.Fatalf("RecordScan: %v", err)
	}

	if err := db.RenameTracker("Backend", "API"); err != nil {
		t.Fatalf("RenameTracker: %v", err)
	}

	stats, err := db.Stats()
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 1 || stats[0].Tracker != "API" {
		t.Fatalf("stats = %+v, want one API entry", stats)
	}
	if stats[0].FileCount != 1 {
		t.Fatalf("FileCount = %d, want 1", stats[0].FileCount)
	}

	recent, err := db.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 || recent[0].Tracker != "API" {
		t.Fatalf("recent = %+v, want one API row", recent)
	}
}
