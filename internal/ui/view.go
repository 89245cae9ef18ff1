package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the full screen.
func (m Model) View() string {
	if !m.ready {
		return "loading…"
	}
	if m.showHelp {
		return m.renderHelp()
	}

	header := m.renderHeader()
	status := m.renderStatusBar()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(status)
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	left := m.renderTrackerPane(bodyHeight-2, m.focus == paneTrackers)
	rightWidth := m.width - trackerPaneWidth - 4
	if rightWidth < 20 {
		rightWidth = 20
	}

	var right string
	if m.viewerOpen && m.focus == paneViewer {
		right = m.renderViewerPane(true)
	} else if m.viewerOpen {
		right = m.renderViewerPane(false)
	} else {
		right = m.renderFilePane(rightWidth, bodyHeight-2, m.focus == paneFiles)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, status)
}

func (m Model) renderHeader() string {
	title := m.styles.Accent.Render(" protokoll ")
	theme := m.styles.Faint.Render("theme: " + m.theme.Name)
	clock := m.styles.Faint.Render(time.Now().Format("15:04:05"))

	gap := m.width - lipgloss.Width(title) - lipgloss.Width(theme) - lipgloss.Width(clock) - 3
	if gap < 1 {
		gap = 1
	}
	return title + spaces(gap) + theme + "  " + clock
}

func (m Model) renderStatusBar() string {
	var left string
	switch {
	case m.confirmDelete != "":
		left = m.styles.Danger.Render(fmt.Sprintf("delete tracker %q? (y/n)", m.confirmDelete))
	case m.inputMode != inputNone:
		left = m.styles.Accent.Render(m.inputLabel()) + " " + m.input.View()
	case m.toastText != "" && m.toastErr:
		left = m.styles.Danger.Render(m.toastText)
	case m.toastText != "":
		left = m.styles.Success.Render(m.toastText)
	default:
		left = m.styles.Muted.Render(m.hintLine())
	}
	return m.styles.StatusBar.Width(m.width).Render(left)
}

func (m Model) inputLabel() string {
	switch m.inputMode {
	case inputNewTracker:
		return "new tracker:"
	case inputAddDirectory:
		return "add directory:"
	case inputFilter:
		return "filter:"
	case inputSearch:
		return "search:"
	}
	return ""
}

func (m Model) hintLine() string {
	switch m.focus {
	case paneTrackers:
		return "enter select · n new · a add dir · d delete · r rescan · tab panes · ? help"
	case paneFiles:
		return "enter open · / filter · r rescan · y copy path · esc back · ? help"
	case paneViewer:
		return "/ search · n/N match · w wrap · F follow · y copy path · esc close · ? help"
	}
	return "? help"
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
