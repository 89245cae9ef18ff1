// Package finder locates candidate log directories for an application name.
//
// Given a name like "myapp", it searches the OS-conventional application
// data roots (plus any user-registered custom roots) for directories that
// match the name and actually contain log files. Exact name matches win;
// only when none exist are looser "potential" matches reported, i.e.
// directories whose name looks log-related and whose path mentions the
// application.
package finder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"

	"github.com/protokoll-app/protokoll/internal/logfile"
)

const (
	defaultMaxDepth = 3
	maxAllowedDepth = 10
	probeDepth      = 2
)

// logDirPattern matches directory names that conventionally hold logs.
var logDirPattern = regexp.MustCompile(`(?i)^(logs?|logfiles?|logging|debug|trace|output|data|storage)$`)

// skipDirs are never descended into and are rejected as search queries since
// matching them would sweep up half the filesystem.
var skipDirs = map[string]struct{}{
	"node_modules": {}, "dist": {}, "build": {}, "target": {},
	"bin": {}, "obj": {}, "lib": {}, "include": {}, "share": {},
	".git": {}, ".svn": {}, ".idea": {}, ".vs": {},
	"__pycache__": {}, "venv": {}, "env": {}, "site-packages": {},
	"doc": {}, "docs": {}, "test": {}, "tests": {},
	"examples": {}, "samples": {}, "templates": {},
	"cache": {}, "temp": {}, "tmp": {},
}

// Options configure a search.
type Options struct {
	// Roots overrides the OS-conventional application data roots. Mostly for
	// tests; production callers leave it nil and supply CustomRoots instead.
	Roots []string
	// CustomRoots are searched in addition to the conventional roots.
	CustomRoots []string
	// MaxDepth bounds the descent below each root (default 3, capped at 10).
	MaxDepth int
}

// Result partitions discovered directories into exact name matches and
// looser candidates. Both lists are sorted.
type Result struct {
	Exact     []string
	Potential []string
}

// ValidateQuery rejects application names that are empty or that collide
// with well-known system directory names.
func ValidateQuery(appName string) error {
	name := strings.ToLower(strings.TrimSpace(appName))
	if name == "" {
		return fmt.Errorf("no application name provided")
	}
	if _, bad := skipDirs[name]; bad {
		return fmt.Errorf("%q matches a system directory name; add the directory manually instead", appName)
	}
	return nil
}

// Find searches for log directories belonging to appName. Unreadable roots
// and subtrees are skipped silently; the search is best-effort. Only context
// cancellation returns an error besides query validation.
func Find(ctx context.Context, appName string, opts Options) (Result, error) {
	if err := ValidateQuery(appName); err != nil {
		return Result{}, err
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	if maxDepth > maxAllowedDepth {
		maxDepth = maxAllowedDepth
	}

	roots := opts.Roots
	if roots == nil {
		roots = AppDataRoots()
	}
	roots = append(append([]string(nil), roots...), opts.CustomRoots...)

	nameLower := strings.ToLower(strings.TrimSpace(appName))

	exact := map[string]struct{}{}
	potential := map[string]struct{}{}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		collect(ctx, root, root, 0, maxDepth, nameLower, exact, potential)
	}

	res := Result{Exact: sortedKeys(exact)}
	// Potential matches are noise when an exact match exists.
	if len(res.Exact) == 0 {
		res.Potential = sortedKeys(potential)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// AppDataRoots returns the application data directories conventional for the
// current OS, filtered to those that exist.
func AppDataRoots() []string {
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			candidates = append(candidates,
				filepath.Join(home, "Library", "Logs"),
				filepath.Join(home, "Library", "Application Support"),
				filepath.Join(home, "Library", "Caches"),
			)
		}
	case "windows":
		for _, env := range []string{"LOCALAPPDATA", "APPDATA", "PROGRAMDATA"} {
			if dir := os.Getenv(env); dir != "" {
				candidates = append(candidates, dir)
			}
		}
	default:
		home, err := os.UserHomeDir()
		if err == nil {
			candidates = append(candidates,
				filepath.Join(home, ".config"),
				filepath.Join(home, ".local", "share"),
				filepath.Join(home, ".cache"),
			)
		}
		candidates = append(candidates, "/var/log")
	}

	roots := candidates[:0:0]
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			roots = append(roots, dir)
		}
	}
	return roots
}

func collect(ctx context.Context, root, dir string, depth, maxDepth int, nameLower string, exact, potential map[string]struct{}) {
	if ctx.Err() != nil || depth > maxDepth {
		return
	}

	base := strings.ToLower(filepath.Base(dir))
	if depth > 0 {
		if _, skip := skipDirs[base]; skip {
			return
		}
		if strings.HasPrefix(base, ".") && dir != root {
			return
		}
	}

	if base == nameLower {
		if hasLogFiles(dir, probeDepth) {
			exact[dir] = struct{}{}
		}
	} else if isPotentialCandidate(dir, base, nameLower) {
		if hasLogFiles(dir, probeDepth) {
			potential[dir] = struct{}{}
		}
	}

	items, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, item := range items {
		if !item.IsDir() {
			continue
		}
		collect(ctx, root, filepath.Join(dir, item.Name()), depth+1, maxDepth, nameLower, exact, potential)
	}
}

// isPotentialCandidate reports whether dir is a log-looking directory whose
// path mentions the application.
func isPotentialCandidate(dir, base, nameLower string) bool {
	if !logDirPattern.MatchString(base) {
		return false
	}
	return strings.Contains(strings.ToLower(dir), nameLower)
}

// hasLogFiles probes dir breadth-first, depth-limited, for at least one file
// with a log-like extension.
func hasLogFiles(dir string, maxDepth int) bool {
	type frame struct {
		dir   string
		depth int
	}
	queue := []frame{{dir, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		items, err := os.ReadDir(cur.dir)
		if err != nil {
			continue
		}
		for _, item := range items {
			full := filepath.Join(cur.dir, item.Name())
			if item.IsDir() {
				if cur.depth < maxDepth {
					queue = append(queue, frame{full, cur.depth + 1})
				}
				continue
			}
			if logfile.IsLogFile(item.Name()) {
				return true
			}
		}
	}
	return false
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
