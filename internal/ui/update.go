package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/protokoll-app/protokoll/internal/prefs"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		if m.cancelScan != nil {
			m.cancelScan()
		}
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.confirmDelete != "" {
		return m.handleConfirmKey(msg)
	}

	if m.inputMode != inputNone {
		return m.handleInputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = nextTheme(m.theme.Name)
		m.styles = m.theme.Styles()
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.cycleFocus(1)
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.cycleFocus(-1)
		return m, nil
	}

	switch m.focus {
	case paneTrackers:
		return m.handleTrackerKey(msg)
	case paneFiles:
		return m.handleFileKey(msg)
	case paneViewer:
		return m.handleViewerKey(msg)
	}
	return m, nil
}

func (m *Model) cycleFocus(delta int) {
	panes := []pane{paneTrackers, paneFiles}
	if m.viewerOpen {
		panes = append(panes, paneViewer)
	}
	cur := 0
	for i, p := range panes {
		if p == m.focus {
			cur = i
			break
		}
	}
	m.focus = panes[(cur+delta+len(panes))%len(panes)]
}

func (m Model) handleTrackerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.trackerIdx > 0 {
			m.trackerIdx--
			m.fileIdx = 0
			m.filterQuery = ""
		}
	case key.Matches(msg, m.keys.Down):
		if m.trackerIdx < len(m.trackers)-1 {
			m.trackerIdx++
			m.fileIdx = 0
			m.filterQuery = ""
		}
	case key.Matches(msg, m.keys.Open):
		name := m.selectedTrackerName()
		if name == "" {
			return m, nil
		}
		if err := m.registry.Select(name); err != nil {
			return m, m.toast(err.Error(), true)
		}
		m.refresh()
		m.focus = paneFiles
	case key.Matches(msg, m.keys.NewTracker):
		m.openInput(inputNewTracker, "tracker name")
	case key.Matches(msg, m.keys.AddDirectory):
		if m.selectedTrackerName() == "" {
			return m, m.toast("no tracker selected", true)
		}
		m.openInput(inputAddDirectory, "directory to track")
	case key.Matches(msg, m.keys.DeleteTracker):
		if name := m.selectedTrackerName(); name != "" {
			m.confirmDelete = name
		}
	case key.Matches(msg, m.keys.Rescan):
		if name := m.selectedTrackerName(); name != "" {
			return m, m.startScan(name)
		}
	}
	return m, nil
}

func (m Model) handleFileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	files := m.visibleFiles()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.fileIdx > 0 {
			m.fileIdx--
		}
	case key.Matches(msg, m.keys.Down):
		if m.fileIdx < len(files)-1 {
			m.fileIdx++
		}
	case key.Matches(msg, m.keys.Top):
		m.fileIdx = 0
	case key.Matches(msg, m.keys.Bottom):
		if len(files) > 0 {
			m.fileIdx = len(files) - 1
		}
	case key.Matches(msg, m.keys.Open):
		if m.fileIdx >= len(files) {
			return m, nil
		}
		path := files[m.fileIdx].Path
		if name := m.selectedTrackerName(); name != "" {
			if err := m.registry.Select(name); err != nil {
				return m, m.toast(err.Error(), true)
			}
		}
		if err := m.registry.SetLastFile(path); err != nil {
			return m, m.toast(err.Error(), true)
		}
		m.refresh()
		return m, m.loadFile(path)
	case key.Matches(msg, m.keys.Filter):
		m.openInput(inputFilter, "filter files")
	case key.Matches(msg, m.keys.Rescan):
		if name := m.selectedTrackerName(); name != "" {
			return m, m.startScan(name)
		}
	case key.Matches(msg, m.keys.CopyPath):
		if m.fileIdx < len(files) {
			return m, m.copyToClipboard(files[m.fileIdx].Path)
		}
	case key.Matches(msg, m.keys.Escape):
		if m.filterQuery != "" {
			m.filterQuery = ""
			m.fileIdx = 0
		} else {
			m.focus = paneTrackers
		}
	}
	return m, nil
}

func (m Model) handleViewerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Search):
		m.openInput(inputSearch, "search in file")
		return m, nil
	case key.Matches(msg, m.keys.NextMatch):
		m.gotoMatch(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevMatch):
		m.gotoMatch(-1)
		return m, nil
	case key.Matches(msg, m.keys.Follow):
		m.following = !m.following
		if m.following {
			return m, m.reloadTail(m.viewerPath)
		}
		return m, nil
	case key.Matches(msg, m.keys.ToggleWrap):
		m.wrap = !m.wrap
		m.prefs.LineWrap = m.wrap
		m.savePrefs()
		m.renderViewer()
		return m, nil
	case key.Matches(msg, m.keys.CopyPath):
		return m, m.copyToClipboard(m.viewerPath)
	case key.Matches(msg, m.keys.Top):
		m.viewer.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewer.GotoBottom()
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		if m.searchQuery != "" {
			m.searchQuery = ""
			m.matches = nil
			m.renderViewer()
		} else {
			m.viewerOpen = false
			m.focus = paneFiles
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewer, cmd = m.viewer.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	name := m.confirmDelete
	m.confirmDelete = ""
	if strings.ToLower(msg.String()) != "y" {
		return m, nil
	}
	if err := m.registry.Delete(name); err != nil {
		return m, m.toast(err.Error(), true)
	}
	m.refresh()
	return m, m.toast(fmt.Sprintf("deleted %s", name), false)
}

func (m *Model) openInput(mode inputMode, placeholder string) {
	m.inputMode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
}

func (m *Model) closeInput() {
	m.inputMode = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		if m.inputMode == inputFilter {
			m.filterQuery = ""
			m.fileIdx = 0
		}
		m.closeInput()
		return m, nil
	case tea.KeyEnter:
		return m.submitInput()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Filter and search apply live as the user types.
	switch m.inputMode {
	case inputFilter:
		m.filterQuery = m.input.Value()
		m.fileIdx = 0
	case inputSearch:
		m.searchQuery = m.input.Value()
		m.recomputeMatches()
		m.renderViewer()
		m.gotoMatch(0)
	}
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	mode := m.inputMode
	m.closeInput()

	switch mode {
	case inputNewTracker:
		if value == "" {
			return m, nil
		}
		if err := m.registry.Create(value, ""); err != nil {
			return m, m.toast(err.Error(), true)
		}
		m.refresh()
		for i, t := range m.trackers {
			if t.Name == value {
				m.trackerIdx = i
				break
			}
		}
		m.openInput(inputAddDirectory, "directory to track")
		return m, m.toast(fmt.Sprintf("created %s", value), false)

	case inputAddDirectory:
		if value == "" {
			return m, nil
		}
		name := m.selectedTrackerName()
		if name == "" {
			return m, nil
		}
		if err := m.registry.AddDirectory(name, value); err != nil {
			return m, m.toast(err.Error(), true)
		}
		m.refresh()
		return m, m.startScan(name)

	case inputFilter:
		m.filterQuery = value
		m.fileIdx = 0

	case inputSearch:
		m.searchQuery = value
		m.recomputeMatches()
		m.renderViewer()
		m.gotoMatch(0)
	}
	return m, nil
}

func (m *Model) copyToClipboard(text string) tea.Cmd {
	if text == "" {
		return nil
	}
	if err := clipboard.WriteAll(text); err != nil {
		return m.toast(fmt.Sprintf("clipboard: %v", err), true)
	}
	return m.toast("path copied", false)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	// Preference writes are advisory; the session continues either way.
	_ = prefs.Save(m.prefsPath, m.prefs)
}
