package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the UI.
type Theme struct {
	Name string

	Background string
	Surface    string

	Border      string
	BorderFocus string

	Text   string
	Muted  string
	Faint  string
	Accent string

	Success string
	Warning string
	Danger  string
	Info    string

	SelectionBg   string
	SelectionText string
}

// Styles holds resolved lipgloss styles for a theme.
type Styles struct {
	Pane       lipgloss.Style
	PaneFocus  lipgloss.Style
	Title      lipgloss.Style
	Text       lipgloss.Style
	Muted      lipgloss.Style
	Faint      lipgloss.Style
	Accent     lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Danger     lipgloss.Style
	Info       lipgloss.Style
	Selection  lipgloss.Style
	StatusBar  lipgloss.Style
	SearchHit  lipgloss.Style
	HelpKey    lipgloss.Style
	HelpDesc   lipgloss.Style
}

// Styles resolves the theme into lipgloss styles.
func (t Theme) Styles() Styles {
	return Styles{
		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Border)),
		PaneFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.BorderFocus)),
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),
		Text:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Text)),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		Faint:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Faint)),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Success)).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Warning)),
		Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Danger)).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Info)),
		Selection: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),
		StatusBar: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)),
		SearchHit: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Warning)).
			Foreground(lipgloss.Color(t.Background)),
		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color(t.Accent)).Bold(true),
		HelpDesc: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
	}
}

var themes = []Theme{
	{
		Name:       "Dracula",
		Background: "#282a36",
		Surface:    "#343746",

		Border:      "#44475a",
		BorderFocus: "#bd93f9",

		Text:   "#f8f8f2",
		Muted:  "#9ea8c7",
		Faint:  "#6272a4",
		Accent: "#bd93f9",

		Success: "#50fa7b",
		Warning: "#f1fa8c",
		Danger:  "#ff5555",
		Info:    "#8be9fd",

		SelectionBg:   "#44475a",
		SelectionText: "#f8f8f2",
	},
	{
		Name:       "Slate",
		Background: "#1e2430",
		Surface:    "#2a3342",

		Border:      "#3b4758",
		BorderFocus: "#7aa2f7",

		Text:   "#c0caf5",
		Muted:  "#8a94b2",
		Faint:  "#565f89",
		Accent: "#7aa2f7",

		Success: "#9ece6a",
		Warning: "#e0af68",
		Danger:  "#f7768e",
		Info:    "#7dcfff",

		SelectionBg:   "#364a82",
		SelectionText: "#c0caf5",
	},
	{
		Name:       "Paper",
		Background: "#fafafa",
		Surface:    "#eeeeee",

		Border:      "#cccccc",
		BorderFocus: "#6200ee",

		Text:   "#212121",
		Muted:  "#616161",
		Faint:  "#9e9e9e",
		Accent: "#6200ee",

		Success: "#1b5e20",
		Warning: "#e65100",
		Danger:  "#b71c1c",
		Info:    "#01579b",

		SelectionBg:   "#d1c4e9",
		SelectionText: "#212121",
	},
}

// themeByName returns the named theme, falling back to the first theme.
func themeByName(name string) Theme {
	for _, t := range themes {
		if t.Name == name {
			return t
		}
	}
	return themes[0]
}

// nextTheme returns the theme after the named one, wrapping around.
func nextTheme(name string) Theme {
	for i, t := range themes {
		if t.Name == name {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}
