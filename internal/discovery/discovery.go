package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileEntry describes a single discovered log file.
type FileEntry struct {
	Path    string    `toml:"path"`
	Name    string    `toml:"name"`
	Dir     string    `toml:"dir"`
	Size    int64     `toml:"size"`
	ModTime time.Time `toml:"mod_time"`
}

// Warning records a directory that could not be fully scanned. Warnings are
// advisory; a scan with warnings is still a usable result.
type Warning struct {
	Dir string
	Err error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Dir, w.Err)
}

// DefaultExtensions is the log-file allow-list applied when Options.Extensions
// is empty. Compressed archives are included because the viewer reads them
// transparently.
var DefaultExtensions = []string{
	".log", ".txt", ".out", ".err", ".trace",
	".csv", ".json",
	".gz", ".bz2", ".zip",
}

// skipDirs are directory names never descended into. These are build outputs
// and VCS/tooling trees that are noisy and never contain application logs a
// user wants to track.
var skipDirs = map[string]struct{}{
	".git": {}, ".svn": {}, ".hg": {}, ".idea": {}, ".vs": {},
	"node_modules": {}, "__pycache__": {}, "site-packages": {},
	"dist": {}, "build": {}, "target": {}, "obj": {},
	"venv": {}, ".venv": {},
}

const defaultMaxDepth = 8

// Options configure a scan.
type Options struct {
	// Extensions is the lowercase extension allow-list. Empty means
	// DefaultExtensions.
	Extensions []string
	// MaxDepth bounds recursion below each scanned directory. Zero means the
	// default depth of 8; 1 restricts the scan to the directory itself.
	MaxDepth int
}

// Scan enumerates log files under the given directories.
//
// The walk is recursive: subdirectories are descended into up to
// Options.MaxDepth levels, symlinked directories are followed, and a visited
// set of resolved paths breaks symlink cycles. Hidden directories and
// well-known build/VCS trees are skipped.
//
// Directories that do not exist or cannot be read produce a Warning rather
// than an error, and a directory disappearing mid-scan yields a partial
// result for that directory. The only error Scan itself returns is context
// cancellation, in which case the partial entries must be discarded.
//
// Results are sorted lexicographically by path so that repeated scans over an
// unchanged filesystem are identical.
func Scan(ctx context.Context, dirs []string, opts Options) ([]FileEntry, []Warning, error) {
	exts := extensionSet(opts.Extensions)
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	var (
		entries  []FileEntry
		warnings []Warning
		visited  = map[string]struct{}{}
	)

	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		w := walker{ctx: ctx, exts: exts, maxDepth: maxDepth, visited: visited}
		if err := w.walk(dir, 1); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, nil, ctxErr
			}
			warnings = append(warnings, Warning{Dir: dir, Err: err})
		}
		entries = append(entries, w.found...)
		warnings = append(warnings, w.warnings...)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, warnings, nil
}

type walker struct {
	ctx      context.Context
	exts     map[string]struct{}
	maxDepth int
	visited  map[string]struct{}
	found    []FileEntry
	warnings []Warning
}

func (w *walker) walk(dir string, depth int) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if _, seen := w.visited[real]; seen {
		return nil
	}
	w.visited[real] = struct{}{}

	items, err := os.ReadDir(dir)
	if err != nil {
		// Top-level read failures are reported by the caller; deeper ones are
		// partial results for this directory.
		if depth == 1 {
			return err
		}
		w.warnings = append(w.warnings, Warning{Dir: dir, Err: err})
		return nil
	}

	for _, item := range items {
		if err := w.ctx.Err(); err != nil {
			return err
		}
		name := item.Name()
		full := filepath.Join(dir, name)

		if isDir(item, full) {
			if depth >= w.maxDepth {
				continue
			}
			if strings.HasPrefix(name, ".") {
				continue
			}
			if _, skip := skipDirs[name]; skip {
				continue
			}
			if err := w.walk(full, depth+1); err != nil {
				if w.ctx.Err() != nil {
					return err
				}
				w.warnings = append(w.warnings, Warning{Dir: full, Err: err})
			}
			continue
		}

		if !item.Type().IsRegular() {
			continue
		}
		if !w.matches(name) {
			continue
		}
		info, err := item.Info()
		if err != nil {
			// Deleted between ReadDir and stat; partial result, keep going.
			continue
		}
		w.found = append(w.found, FileEntry{
			Path:    full,
			Name:    name,
			Dir:     dir,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return nil
}

// matches applies the extension allow-list. Numeric rotation suffixes are
// stripped first so rotated files like app.log.1 match alongside app.log.
func (w *walker) matches(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if isRotationSuffix(ext) {
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(name, ext)))
	}
	_, ok := w.exts[ext]
	return ok
}

func isRotationSuffix(ext string) bool {
	if len(ext) < 2 || ext[0] != '.' {
		return false
	}
	for _, r := range ext[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isDir reports whether a dir entry is a directory, following symlinks.
func isDir(item os.DirEntry, full string) bool {
	if item.IsDir() {
		return true
	}
	if item.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.IsDir()
}

func extensionSet(exts []string) map[string]struct{} {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}
