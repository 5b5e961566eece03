package tui

import (
	"github.com/charmbracelet/lipgloss"

	"solrview/models"
)

// palette is the terminal rendition of one theme's colors
type palette struct {
	text    lipgloss.Color
	muted   lipgloss.Color
	accent  lipgloss.Color
	title   lipgloss.Color
	surface lipgloss.Color
	border  lipgloss.Color
}

var (
	lightPalette = palette{
		text:    lipgloss.Color("#333333"),
		muted:   lipgloss.Color("#888888"),
		accent:  lipgloss.Color("#007bff"),
		title:   lipgloss.Color("#0056b3"),
		surface: lipgloss.Color("#ffffff"),
		border:  lipgloss.Color("#dddddd"),
	}
	darkPalette = palette{
		text:    lipgloss.Color("#eaeaea"),
		muted:   lipgloss.Color("#aaaaaa"),
		accent:  lipgloss.Color("#6200ea"),
		title:   lipgloss.Color("#bb86fc"),
		surface: lipgloss.Color("#1e1e1e"),
		border:  lipgloss.Color("#444444"),
	}
)

// Styles are the lipgloss styles for one theme
type Styles struct {
	Header       lipgloss.Style
	Label        lipgloss.Style
	Input        lipgloss.Style
	FocusedInput lipgloss.Style
	Card         lipgloss.Style
	CardTitle    lipgloss.Style
	CardLabel    lipgloss.Style
	NoResults    lipgloss.Style
	Suggestion   lipgloss.Style
	Selected     lipgloss.Style
	Status       lipgloss.Style
	Help         lipgloss.Style
}

// StylesFor builds the style set of a theme
func StylesFor(t models.Theme) Styles {
	p := lightPalette
	if t == models.ThemeDark {
		p = darkPalette
	}

	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.border).
		Foreground(p.text).
		Padding(0, 1)

	return Styles{
		Header:       lipgloss.NewStyle().Foreground(p.title).Bold(true).MarginBottom(1),
		Label:        lipgloss.NewStyle().Foreground(p.muted),
		Input:        input,
		FocusedInput: input.BorderForeground(p.accent),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Background(p.surface).
			Foreground(p.text).
			Padding(0, 1),
		CardTitle:  lipgloss.NewStyle().Foreground(p.title).Background(p.surface).Bold(true),
		CardLabel:  lipgloss.NewStyle().Foreground(p.text).Background(p.surface).Bold(true),
		NoResults:  lipgloss.NewStyle().Foreground(p.muted).Align(lipgloss.Center),
		Suggestion: lipgloss.NewStyle().Foreground(p.text).PaddingLeft(2),
		Selected:   lipgloss.NewStyle().Foreground(p.accent).Bold(true).PaddingLeft(1),
		Status:     lipgloss.NewStyle().Foreground(lipgloss.Color("#e55353")),
		Help:       lipgloss.NewStyle().Foreground(p.muted),
	}
}
