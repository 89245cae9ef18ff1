package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpEntry struct {
	keys string
	desc string
}

var helpSections = []struct {
	title   string
	entries []helpEntry
}{
	{"Trackers", []helpEntry{
		{"enter", "select tracker"},
		{"n", "new tracker"},
		{"a", "add directory"},
		{"d", "delete tracker"},
		{"r", "rescan"},
	}},
	{"Files", []helpEntry{
		{"enter", "open file"},
		{"/", "filter file list"},
		{"y", "copy path"},
		{"g / G", "first / last"},
	}},
	{"Viewer", []helpEntry{
		{"/", "search in file"},
		{"n / N", "next / previous match"},
		{"w", "toggle line wrap"},
		{"F", "follow tail"},
		{"y", "copy path"},
		{"esc", "clear search / close"},
	}},
	{"Global", []helpEntry{
		{"tab / shift+tab", "cycle panes"},
		{"T", "cycle theme"},
		{"?", "help"},
		{"q / ctrl+c", "quit"},
	}},
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("protokoll keybindings"))
	b.WriteString("\n\n")
	for _, section := range helpSections {
		b.WriteString(m.styles.Accent.Render(section.title))
		b.WriteByte('\n')
		for _, e := range section.entries {
			b.WriteString("  ")
			b.WriteString(m.styles.HelpKey.Render(padRight(e.keys, 16)))
			b.WriteString(m.styles.HelpDesc.Render(e.desc))
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	b.WriteString(m.styles.Faint.Render("press any key to close"))

	box := m.styles.PaneFocus.Padding(1, 2).Render(b.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
