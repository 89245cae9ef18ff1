// Package index maintains a SQLite archive of scan results.
//
// The index is an accelerator for stats and recent-file queries, never a
// source of truth: the registry's cached lists and the settings file remain
// authoritative, and callers treat index failures as logged warnings.
package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/protokoll-app/protokoll/internal/discovery"
)

const schema = `
CREATE TABLE IF NOT EXISTS files (
	tracker    TEXT NOT NULL,
	path       TEXT NOT NULL,
	name       TEXT NOT NULL,
	dir        TEXT NOT NULL,
	size       INTEGER NOT NULL,
	mod_time   INTEGER NOT NULL,
	scanned_at INTEGER NOT NULL,
	PRIMARY KEY (tracker, path)
);
CREATE INDEX IF NOT EXISTS idx_files_mod_time ON files(mod_time DESC);

CREATE TABLE IF NOT EXISTS scans (
	tracker    TEXT PRIMARY KEY,
	scanned_at INTEGER NOT NULL,
	file_count INTEGER NOT NULL
);
`

// DB wraps the index database.
type DB struct {
	db *sql.DB
}

const defaultIndexPath = "~/.local/share/protokoll/index.db"

// DefaultPath returns the default index location.
func DefaultPath() string {
	return defaultIndexPath
}

// Open opens (creating if necessary) the index at path. Empty path uses the
// default under ~/.local/share/protokoll.
func Open(path string) (*DB, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve index path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	// The index has a single writer (the registry) and occasional readers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init index schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// RecordScan replaces the archived file set for a tracker with the outcome
// of a completed scan. Implements tracker.Recorder.
func (d *DB) RecordScan(tracker string, files []discovery.FileEntry, scannedAt time.Time) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin index tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM files WHERE tracker = ?`, tracker); err != nil {
		return fmt.Errorf("prune index: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO files (tracker, path, name, dir, size, mod_time, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare index insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, f := range files {
		if _, err := stmt.Exec(tracker, f.Path, f.Name, f.Dir, f.Size, f.ModTime.Unix(), scannedAt.Unix()); err != nil {
			return fmt.Errorf("insert index row: %w", err)
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO scans (tracker, scanned_at, file_count) VALUES (?, ?, ?)
		ON CONFLICT(tracker) DO UPDATE SET scanned_at = excluded.scanned_at, file_count = excluded.file_count`,
		tracker, scannedAt.Unix(), len(files)); err != nil {
		return fmt.Errorf("record scan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index tx: %w", err)
	}
	return nil
}

// DeleteTracker drops all archived rows for a tracker.
func (d *DB) DeleteTracker(tracker string) error {
	if _, err := d.db.Exec(`DELETE FROM files WHERE tracker = ?`, tracker); err != nil {
		return fmt.Errorf("prune index: %w", err)
	}
	if _, err := d.db.Exec(`DELETE FROM scans WHERE tracker = ?`, tracker); err != nil {
		return fmt.Errorf("prune scans: %w", err)
	}
	return nil
}

// RenameTracker moves a tracker's archived rows to its new name.
func (d *DB) RenameTracker(oldName, newName string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin index tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE files SET tracker = ? WHERE tracker = ?`, newName, oldName); err != nil {
		return fmt.Errorf("rename index files: %w", err)
	}
	if _, err := tx.Exec(`UPDATE scans SET tracker = ? WHERE tracker = ?`, newName, oldName); err != nil {
		return fmt.Errorf("rename index scans: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index tx: %w", err)
	}
	return nil
}

// TrackerStats summarizes one tracker's archived scan.
type TrackerStats struct {
	Tracker   string
	FileCount int
	TotalSize int64
	LastScan  time.Time
}

// Stats returns per-tracker summaries, sorted by tracker name.
func (d *DB) Stats() ([]TrackerStats, error) {
	rows, err := d.db.Query(`
		SELECT s.tracker, s.scanned_at, s.file_count, COALESCE(SUM(f.size), 0)
		FROM scans s LEFT JOIN files f ON f.tracker = s.tracker
		GROUP BY s.tracker
		ORDER BY s.tracker`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []TrackerStats
	for rows.Next() {
		var st TrackerStats
		var scannedAt int64
		if err := rows.Scan(&st.Tracker, &scannedAt, &st.FileCount, &st.TotalSize); err != nil {
			return nil, fmt.Errorf("scan stats row: %w", err)
		}
		st.LastScan = time.Unix(scannedAt, 0)
		out = append(out, st)
	}
	return out, rows.Err()
}

// RecentFile is one row from Recent.
type RecentFile struct {
	Tracker string
	Path    string
	Size    int64
	ModTime time.Time
}

// Recent returns the most recently modified archived files across all
// trackers.
func (d *DB) Recent(limit int) ([]RecentFile, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.db.Query(`
		SELECT tracker, path, size, mod_time
		FROM files ORDER BY mod_time DESC, path LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []RecentFile
	for rows.Next() {
		var rf RecentFile
		var mod int64
		if err := rows.Scan(&rf.Tracker, &rf.Path, &rf.Size, &mod); err != nil {
			return nil, fmt.Errorf("scan recent row: %w", err)
		}
		rf.ModTime = time.Unix(mod, 0)
		out = append(out, rf)
	}
	return out, rows.Err()
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultIndexPath
	}
	trimmed := strings.TrimSpace(path)
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
