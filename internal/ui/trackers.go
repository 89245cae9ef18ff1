package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const trackerPaneWidth = 28

func (m *Model) paneStyle(focused bool) lipgloss.Style {
	if focused {
		return m.styles.PaneFocus
	}
	return m.styles.Pane
}

func (m *Model) renderTrackerPane(height int, focused bool) string {
	style := m.paneStyle(focused)
	lines := []string{m.styles.Title.Render("Trackers")}

	if len(m.trackers) == 0 {
		lines = append(lines, m.styles.Muted.Render("none yet"), m.styles.Faint.Render("press n to add"))
	}

	session := m.registry.Session()
	for i, t := range m.trackers {
		label := t.Name
		if t.Name == session.LastTracker {
			label = "● " + label
		} else {
			label = "  " + label
		}
		label = truncateLine(label, trackerPaneWidth-2)
		count := m.styles.Faint.Render(fmt.Sprintf(" %d", len(t.Files)))

		var row string
		if i == m.trackerIdx {
			row = m.styles.Selection.Render(label) + count
		} else {
			row = m.styles.Text.Render(label) + count
		}
		lines = append(lines, row)
	}

	if m.scanning != "" {
		lines = append(lines, "", m.styles.Info.Render("scanning "+m.scanning+"…"))
	}

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return style.Width(trackerPaneWidth).Height(height).Render(body)
}
