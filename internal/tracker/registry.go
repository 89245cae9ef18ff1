package tracker

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/protokoll-app/protokoll/internal/discovery"
	"github.com/protokoll-app/protokoll/internal/settings"
)

// Options configure a Registry.
type Options struct {
	// SettingsPath overrides the persisted settings location. Empty uses the
	// default under ~/.config/protokoll.
	SettingsPath string
	// Scan configures the discovery engine for all trackers.
	Scan discovery.Options
	// Notifier receives change events; nil disables notifications.
	Notifier Notifier
	// Recorder archives scan results; nil disables the index.
	Recorder Recorder
}

// Registry is the in-memory collection of trackers, kept in sync with the
// settings store and the discovery engine. All methods are safe for
// concurrent use; every mutating operation persists synchronously before
// returning so a crash never silently loses a completed user action.
type Registry struct {
	mu       sync.Mutex
	trackers map[string]*Tracker
	session  Session
	opts     Options
}

// NewRegistry loads persisted settings and builds the registry. Stale
// session references (a tracker or file that no longer exists) are dropped,
// never fatal.
func NewRegistry(opts Options) (*Registry, error) {
	saved, err := settings.Load(opts.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	r := &Registry{trackers: make(map[string]*Tracker), opts: opts}
	for _, rec := range saved.Trackers {
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			continue
		}
		if _, dup := r.trackers[name]; dup {
			log.Printf("registry: dropping duplicate persisted tracker %q", name)
			continue
		}
		r.trackers[name] = &Tracker{
			Name:        name,
			Description: rec.Description,
			Directories: dedupe(rec.Directories),
			LastScan:    rec.LastScan,
		}
	}

	r.session = Session{LastTracker: saved.Session.LastTracker, LastFile: saved.Session.LastFile}
	r.validateSessionLocked()
	return r, nil
}

// List returns all trackers sorted by name. The returned values are copies.
func (r *Registry) List() []Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Tracker, 0, len(r.trackers))
	for _, t := range r.trackers {
		out = append(out, t.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns a copy of the named tracker.
func (r *Registry) Get(name string) (Tracker, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[name]
	if !ok {
		return Tracker{}, false
	}
	return t.clone(), true
}

// Session returns the current session state.
func (r *Registry) Session() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Create adds a new tracker. The name must be non-empty and unique
// (case-sensitive); a clash returns ErrDuplicateName.
func (r *Registry) Create(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("tracker name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.trackers[name]; exists {
		return fmt.Errorf("%q: %w", name, ErrDuplicateName)
	}
	r.trackers[name] = &Tracker{Name: name, Description: description}
	if err := r.persistLocked(); err != nil {
		delete(r.trackers, name)
		return err
	}
	r.notifyTrackersLocked()
	return nil
}

// Rename changes a tracker's name, carrying its directories and cached files
// over. Renaming to an existing name returns ErrDuplicateName. The session
// reference follows the rename.
func (r *Registry) Rename(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return fmt.Errorf("tracker name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[oldName]
	if !ok {
		return fmt.Errorf("%q: %w", oldName, ErrNotFound)
	}
	if oldName == newName {
		return nil
	}
	if _, exists := r.trackers[newName]; exists {
		return fmt.Errorf("%q: %w", newName, ErrDuplicateName)
	}

	t.Name = newName
	r.trackers[newName] = t
	delete(r.trackers, oldName)
	if r.session.LastTracker == oldName {
		r.session.LastTracker = newName
	}
	if err := r.persistLocked(); err != nil {
		t.Name = oldName
		r.trackers[oldName] = t
		delete(r.trackers, newName)
		if r.session.LastTracker == newName {
			r.session.LastTracker = oldName
		}
		return err
	}
	if r.opts.Recorder != nil {
		if err := r.opts.Recorder.RenameTracker(oldName, newName); err != nil {
			log.Printf("registry: index rename %q -> %q failed: %v", oldName, newName, err)
		}
	}
	r.notifyTrackersLocked()
	return nil
}

// SetDescription updates a tracker's description.
func (r *Registry) SetDescription(name, description string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	prev := t.Description
	t.Description = description
	if err := r.persistLocked(); err != nil {
		t.Description = prev
		return err
	}
	r.notifyTrackersLocked()
	return nil
}

// Delete removes a tracker. Deleting the session's last-selected tracker
// clears that reference. Deleting an unknown tracker returns ErrNotFound.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	delete(r.trackers, name)
	prevSession := r.session
	if r.session.LastTracker == name {
		r.session = Session{}
	}
	if err := r.persistLocked(); err != nil {
		r.trackers[name] = t
		r.session = prevSession
		return err
	}
	if r.opts.Recorder != nil {
		if err := r.opts.Recorder.DeleteTracker(name); err != nil {
			log.Printf("registry: index cleanup for %q failed: %v", name, err)
		}
	}
	r.notifyTrackersLocked()
	if prevSession != r.session {
		r.notifySelectionLocked()
	}
	return nil
}

// AddDirectory attaches a directory to a tracker. Adding an already-tracked
// path is a no-op, not an error.
func (r *Registry) AddDirectory(name, dir string) error {
	dir = normalizeDir(dir)
	if dir == "" {
		return fmt.Errorf("directory path is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	for _, existing := range t.Directories {
		if existing == dir {
			return nil
		}
	}
	t.Directories = append(t.Directories, dir)
	if err := r.persistLocked(); err != nil {
		t.Directories = t.Directories[:len(t.Directories)-1]
		return err
	}
	r.notifyTrackersLocked()
	return nil
}

// RemoveDirectory detaches a directory from a tracker. Removing an untracked
// path is a no-op. Cached file entries under the removed directory are
// dropped immediately so the view never shows files from a directory that is
// no longer tracked.
func (r *Registry) RemoveDirectory(name, dir string) error {
	dir = normalizeDir(dir)

	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[name]
	if !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}

	idx := -1
	for i, existing := range t.Directories {
		if existing == dir {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}

	prevDirs := append([]string(nil), t.Directories...)
	prevFiles := t.Files
	t.Directories = append(t.Directories[:idx], t.Directories[idx+1:]...)

	kept := t.Files[:0:0]
	for _, f := range t.Files {
		if !underDir(f.Path, dir) {
			kept = append(kept, f)
		}
	}
	t.Files = kept

	if r.session.LastTracker == name && r.session.LastFile != "" && underDir(r.session.LastFile, dir) {
		r.session.LastFile = ""
	}

	if err := r.persistLocked(); err != nil {
		t.Directories = prevDirs
		t.Files = prevFiles
		return err
	}
	r.notifyFilesLocked(name)
	return nil
}

// Rescan runs the discovery engine over the tracker's directories and
// replaces its cached file list. Warnings are returned for the caller to
// surface; they never fail the scan.
func (r *Registry) Rescan(ctx context.Context, name string) ([]discovery.FileEntry, []discovery.Warning, error) {
	r.mu.Lock()
	t, ok := r.trackers[name]
	if !ok {
		r.mu.Unlock()
		return nil, nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	dirs := append([]string(nil), t.Directories...)
	scanOpts := r.opts.Scan
	r.mu.Unlock()

	// The filesystem walk runs outside the lock; other registry operations
	// stay responsive during long scans.
	entries, warnings, err := discovery.Scan(ctx, dirs, scanOpts)
	if err != nil {
		return nil, nil, err
	}

	if err := r.commitScan(name, entries); err != nil {
		return nil, nil, err
	}
	return entries, warnings, nil
}

// RescanResult is delivered to RescanAsync callbacks.
type RescanResult struct {
	Tracker  string
	Files    []discovery.FileEntry
	Warnings []discovery.Warning
	Err      error
}

// RescanAsync runs Rescan in the background and delivers the outcome to done.
// The returned cancel function aborts the scan; a cancelled scan discards its
// partial results and leaves the cached file list untouched. done is called
// exactly once, from the scanning goroutine.
func (r *Registry) RescanAsync(ctx context.Context, name string, done func(RescanResult)) (cancel func()) {
	scanCtx, cancel := context.WithCancel(ctx)
	go func() {
		defer cancel()
		files, warnings, err := r.Rescan(scanCtx, name)
		if done != nil {
			done(RescanResult{Tracker: name, Files: files, Warnings: warnings, Err: err})
		}
	}()
	return cancel
}

// Select records the tracker the user is viewing. Selecting clears any
// last-file reference that does not belong to the new tracker.
func (r *Registry) Select(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trackers[name]; !ok {
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	if r.session.LastTracker == name {
		return nil
	}
	prev := r.session
	r.session = Session{LastTracker: name}
	if err := r.persistLocked(); err != nil {
		r.session = prev
		return err
	}
	r.notifySelectionLocked()
	return nil
}

// SetLastFile records the file the user is viewing within the currently
// selected tracker.
func (r *Registry) SetLastFile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session.LastTracker == "" {
		return fmt.Errorf("no tracker selected")
	}
	if r.session.LastFile == path {
		return nil
	}
	prev := r.session.LastFile
	r.session.LastFile = path
	if err := r.persistLocked(); err != nil {
		r.session.LastFile = prev
		return err
	}
	r.notifySelectionLocked()
	return nil
}

func (r *Registry) commitScan(name string, entries []discovery.FileEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.trackers[name]
	if !ok {
		// Deleted while the scan ran; discard the result.
		return fmt.Errorf("%q: %w", name, ErrNotFound)
	}

	prevFiles := t.Files
	prevScan := t.LastScan
	t.Files = entries
	t.LastScan = time.Now()

	if r.session.LastTracker == name && r.session.LastFile != "" && !containsPath(entries, r.session.LastFile) {
		r.session.LastFile = ""
	}

	if err := r.persistLocked(); err != nil {
		t.Files = prevFiles
		t.LastScan = prevScan
		return err
	}

	if r.opts.Recorder != nil {
		if err := r.opts.Recorder.RecordScan(name, entries, t.LastScan); err != nil {
			log.Printf("registry: index update for %q failed: %v", name, err)
		}
	}
	r.notifyFilesLocked(name)
	return nil
}

// persistLocked writes the full settings snapshot. Callers hold r.mu.
func (r *Registry) persistLocked() error {
	snap := settings.Settings{
		Session: settings.Session{LastTracker: r.session.LastTracker, LastFile: r.session.LastFile},
	}
	names := make([]string, 0, len(r.trackers))
	for name := range r.trackers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := r.trackers[name]
		snap.Trackers = append(snap.Trackers, settings.TrackerRecord{
			Name:        t.Name,
			Description: t.Description,
			Directories: append([]string(nil), t.Directories...),
			LastScan:    t.LastScan,
		})
	}
	if err := settings.Save(r.opts.SettingsPath, snap); err != nil {
		return fmt.Errorf("persist settings: %w", err)
	}
	return nil
}

func (r *Registry) validateSessionLocked() {
	if r.session.LastTracker == "" {
		r.session = Session{}
		return
	}
	t, ok := r.trackers[r.session.LastTracker]
	if !ok {
		log.Printf("registry: dropping stale session tracker %q", r.session.LastTracker)
		r.session = Session{}
		return
	}
	if r.session.LastFile == "" {
		return
	}
	// File lists are rebuilt by scans, so at load time the best check is
	// whether the file still lives under a tracked directory.
	for _, dir := range t.Directories {
		if underDir(r.session.LastFile, dir) {
			return
		}
	}
	log.Printf("registry: dropping stale session file %q", r.session.LastFile)
	r.session.LastFile = ""
}

func (r *Registry) notifyTrackersLocked() {
	if r.opts.Notifier != nil {
		r.opts.Notifier.TrackerListChanged()
	}
}

func (r *Registry) notifyFilesLocked(name string) {
	if r.opts.Notifier != nil {
		r.opts.Notifier.FileListChanged(name)
	}
}

func (r *Registry) notifySelectionLocked() {
	if r.opts.Notifier != nil {
		r.opts.Notifier.SelectionChanged(r.session)
	}
}

func normalizeDir(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return ""
	}
	return filepath.Clean(dir)
}

func underDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func containsPath(entries []discovery.FileEntry, path string) bool {
	for _, e := range entries {
		if e.Path == path {
			return true
		}
	}
	return false
}

func dedupe(dirs []string) []string {
	seen := make(map[string]struct{}, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, d := range dirs {
		d = normalizeDir(d)
		if d == "" {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}
