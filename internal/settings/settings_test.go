package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoad_MissingFileReturnsEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(s.Trackers) != 0 {
		t.Fatalf("Trackers = %v, want empty", s.Trackers)
	}
	if s.Session != (Session{}) {
		t.Fatalf("Session = %+v, want zero", s.Session)
	}
}

func TestLoad_CorruptFileReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.toml")
	if err := os.WriteFile(path, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(s.Trackers) != 0 || s.Session != (Session{}) {
		t.Fatalf("Load of corrupt file = %+v, want empty settings", s)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.toml")

	want := Settings{
		Trackers: []TrackerRecord{
			{
				Name:        "Backend",
				Description: "api servers",
				Directories: []string{"/var/log/app", "/var/log/other"},
				LastScan:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			},
			{Name: "Frontend", Directories: []string{"/tmp/fe"}},
		},
		Session: Session{LastTracker: "Backend", LastFile: "/var/log/app/app.log"},
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip = %+v, want %+v", got, want)
	}
}

func TestSave_ReplacesExistingAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.toml")

	if err := Save(path, Settings{Session: Session{LastTracker: "one"}}); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := Save(path, Settings{Session: Session{LastTracker: "two"}}); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.Session.LastTracker != "two" {
		t.Fatalf("LastTracker = %q, want %q", s.Session.LastTracker, "two")
	}

	// No temp debris should remain next to the settings file.
	items, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(items) != 1 {
		names := make([]string, len(items))
		for i, it := range items {
			names[i] = it.Name()
		}
		t.Fatalf("settings dir contains %v, want only settings.toml", names)
	}
}

func TestDefaultPath_UnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	resolved, err := resolvePath("")
	if err != nil {
		t.Fatalf("resolvePath returned error: %v", err)
	}
	want := filepath.Join(home, ".config", "protokoll", "settings.toml")
	if resolved != want {
		t.Fatalf("resolvePath = %q, want %q", resolved, want)
	}
}
