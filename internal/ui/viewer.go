package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// layoutViewer sizes the viewport for the current terminal dimensions.
func (m *Model) layoutViewer() {
	w, h := m.viewerSize()
	if m.viewer.Width == 0 && m.viewer.Height == 0 {
		m.viewer = viewport.New(w, h)
	} else {
		m.viewer.Width = w
		m.viewer.Height = h
	}
	if m.viewerOpen {
		m.renderViewer()
	}
}

func (m *Model) viewerSize() (int, int) {
	w := m.width - trackerPaneWidth - 4
	if w < 20 {
		w = 20
	}
	h := m.height - 5
	if h < 3 {
		h = 3
	}
	return w, h
}

// renderViewer rebuilds the viewport content from the loaded lines,
// applying wrap, log-level coloring and search highlighting. It records
// the rendered offset of each source line so match navigation can scroll
// to the right place even when wrapping changes line counts.
func (m *Model) renderViewer() {
	width := m.viewer.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	offsets := make([]int, len(m.viewerLines))
	rendered := 0
	wrapStyle := lipgloss.NewStyle().Width(width)

	for i, line := range m.viewerLines {
		offsets[i] = rendered
		if !m.wrap {
			line = truncateLine(line, width)
		}
		out := highlightLine(line, m.searchQuery, m.styles)
		if m.wrap {
			out = wrapStyle.Render(out)
		}
		b.WriteString(out)
		b.WriteByte('\n')
		rendered += strings.Count(out, "\n") + 1
	}

	m.lineOffsets = offsets
	m.viewer.SetContent(b.String())
}

// recomputeMatches finds the source lines containing the search query.
func (m *Model) recomputeMatches() {
	m.matches = m.matches[:0]
	m.matchIdx = 0
	query := strings.ToLower(m.searchQuery)
	if query == "" {
		return
	}
	for i, line := range m.viewerLines {
		if strings.Contains(strings.ToLower(line), query) {
			m.matches = append(m.matches, i)
		}
	}
}

// gotoMatch scrolls to the current match, moving matchIdx by delta.
func (m *Model) gotoMatch(delta int) {
	if len(m.matches) == 0 {
		return
	}
	m.matchIdx = (m.matchIdx + delta + len(m.matches)) % len(m.matches)
	line := m.matches[m.matchIdx]
	if line >= len(m.lineOffsets) {
		return
	}
	offset := m.lineOffsets[line] - m.viewer.Height/2
	if offset < 0 {
		offset = 0
	}
	m.viewer.SetYOffset(offset)
}

func (m *Model) renderViewerPane(focused bool) string {
	style := m.paneStyle(focused)
	title := m.styles.Title.Render(filepath.Base(m.viewerPath))

	var note string
	switch {
	case m.following:
		note = m.styles.Success.Render(" following")
	case m.tailing:
		note = m.styles.Warning.Render(fmt.Sprintf(" (last %d lines)", len(m.viewerLines)))
	case len(m.matches) > 0:
		note = m.styles.Accent.Render(fmt.Sprintf(" %d/%d matches", m.matchIdx+1, len(m.matches)))
	case m.searchQuery != "":
		note = m.styles.Muted.Render(" no matches")
	}

	header := title + note
	return style.Width(m.viewer.Width).Render(header + "\n" + m.viewer.View())
}
