package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/sahilm/fuzzy"

	"github.com/protokoll-app/protokoll/internal/discovery"
)

// visibleFiles returns the selected tracker's cached files, narrowed by the
// active fuzzy filter.
func (m *Model) visibleFiles() []discovery.FileEntry {
	t := m.selectedTracker()
	if t == nil {
		return nil
	}
	if m.filterQuery == "" {
		return t.Files
	}
	return filterFiles(t.Files, m.filterQuery)
}

// filterFiles ranks entries by fuzzy match against name, best first.
func filterFiles(entries []discovery.FileEntry, query string) []discovery.FileEntry {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	ranked := fuzzy.Find(query, names)
	out := make([]discovery.FileEntry, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, entries[r.Index])
	}
	return out
}

func (m *Model) clampFileIdx() {
	n := len(m.visibleFiles())
	if m.fileIdx >= n {
		m.fileIdx = n - 1
	}
	if m.fileIdx < 0 {
		m.fileIdx = 0
	}
}

func (m *Model) renderFilePane(width, height int, focused bool) string {
	style := m.paneStyle(focused)
	files := m.visibleFiles()

	title := "Files"
	if m.filterQuery != "" {
		title = fmt.Sprintf("Files · /%s", m.filterQuery)
	}
	lines := []string{m.styles.Title.Render(title)}

	t := m.selectedTracker()
	switch {
	case t == nil:
		lines = append(lines, m.styles.Muted.Render("select a tracker"))
	case len(t.Files) == 0:
		lines = append(lines, m.styles.Muted.Render("no log files found"), m.styles.Faint.Render("press r to rescan"))
	case len(files) == 0:
		lines = append(lines, m.styles.Muted.Render("no files match filter"))
	}

	visible := height - 3
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.fileIdx >= visible {
		start = m.fileIdx - visible + 1
	}
	end := start + visible
	if end > len(files) {
		end = len(files)
	}

	session := m.registry.Session()
	for i := start; i < end; i++ {
		f := files[i]
		name := f.Name
		if f.Path == session.LastFile {
			name = "● " + name
		} else {
			name = "  " + name
		}
		meta := m.styles.Faint.Render(fmt.Sprintf("  %s · %s",
			humanize.Bytes(uint64(f.Size)), humanize.Time(f.ModTime)))
		row := truncateLine(name, width-lipgloss.Width(meta)-4)
		if i == m.fileIdx && focused {
			row = m.styles.Selection.Render(row)
		} else {
			row = m.styles.Text.Render(row)
		}
		lines = append(lines, row+meta)
	}

	if t != nil && !t.LastScan.IsZero() {
		lines = append(lines, "", m.styles.Faint.Render("scanned "+humanize.Time(t.LastScan)))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return style.Width(width).Height(height).Render(body)
}
