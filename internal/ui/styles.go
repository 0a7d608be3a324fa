package ui

import (
	"gridify/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colours for one theme.
type Palette struct {
	Base    lipgloss.Color
	Surface lipgloss.Color
	Muted   lipgloss.Color
	Text    lipgloss.Color
	Accent  lipgloss.Color
	Green   lipgloss.Color
	Red     lipgloss.Color
	Yellow  lipgloss.Color
}

var (
	lightPalette = Palette{
		Base:    lipgloss.Color("#FAFAF7"),
		Surface: lipgloss.Color("#E7ECE4"),
		Muted:   lipgloss.Color("#6B7A6E"),
		Text:    lipgloss.Color("#1D221E"),
		Accent:  lipgloss.Color("#4E6B45"),
		Green:   lipgloss.Color("#2F7D32"),
		Red:     lipgloss.Color("#B3261E"),
		Yellow:  lipgloss.Color("#8A6D00"),
	}

	darkPalette = Palette{
		Base:    lipgloss.Color("#1D221E"),
		Surface: lipgloss.Color("#2A332C"),
		Muted:   lipgloss.Color("#7E8C80"),
		Text:    lipgloss.Color("#D6E0D3"),
		Accent:  lipgloss.Color("#8FA082"),
		Green:   lipgloss.Color("#a6e3a1"),
		Red:     lipgloss.Color("#f38ba8"),
		Yellow:  lipgloss.Color("#f9e2af"),
	}
)

// PaletteFor returns the palette of theme.
func PaletteFor(theme model.Theme) Palette {
	if theme == model.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// Styles are the rendered styles derived from a palette.
type Styles struct {
	Palette Palette

	Base         lipgloss.Style
	Header       lipgloss.Style
	Title        lipgloss.Style
	TableHeader  lipgloss.Style
	ActiveHeader lipgloss.Style
	PinnedHeader lipgloss.Style
	SelectedRow  lipgloss.Style
	NormalRow    lipgloss.Style
	Cell         lipgloss.Style
	Footer       lipgloss.Style
	HelpKey      lipgloss.Style
	HelpDesc     lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	Label        lipgloss.Style
	Input        lipgloss.Style
	FocusedInput lipgloss.Style
	EmptyState   lipgloss.Style
	StatusBar    lipgloss.Style
	Panel        lipgloss.Style
	ToggleOn     lipgloss.Style
	ToggleOff    lipgloss.Style
}

// NewStyles builds the styles for theme.
func NewStyles(theme model.Theme) Styles {
	p := PaletteFor(theme)
	return Styles{
		Palette: p,

		Base: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Base),

		Header: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(p.Muted),

		TableHeader: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true).
			Background(p.Surface),

		ActiveHeader: lipgloss.NewStyle().
			Foreground(p.Base).
			Bold(true).
			Background(p.Accent),

		PinnedHeader: lipgloss.NewStyle().
			Foreground(p.Yellow).
			Bold(true).
			Background(p.Surface),

		SelectedRow: lipgloss.NewStyle().
			Foreground(p.Base).
			Background(p.Accent),

		NormalRow: lipgloss.NewStyle().
			Foreground(p.Text),

		Cell: lipgloss.NewStyle().
			Foreground(p.Text),

		Footer: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(p.Muted),

		HelpKey: lipgloss.NewStyle().
			Foreground(p.Accent),

		HelpDesc: lipgloss.NewStyle().
			Foreground(p.Muted),

		Error: lipgloss.NewStyle().
			Foreground(p.Red).
			Padding(0, 1),

		Success: lipgloss.NewStyle().
			Foreground(p.Green).
			Padding(0, 1),

		Label: lipgloss.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(p.Muted),

		FocusedInput: lipgloss.NewStyle().
			Foreground(p.Text).
			Background(p.Surface),

		EmptyState: lipgloss.NewStyle().
			Foreground(p.Muted).
			Italic(true).
			Padding(1, 4),

		StatusBar: lipgloss.NewStyle().
			Foreground(p.Muted).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.Red).
			Padding(1, 2),

		ToggleOn: lipgloss.NewStyle().
			Foreground(p.Base).
			Background(p.Accent).
			Bold(true),

		ToggleOff: lipgloss.NewStyle().
			Foreground(p.Muted).
			Background(p.Surface),
	}
}
