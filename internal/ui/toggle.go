package ui

import (
	"gridify/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// renderThemeToggle draws the light/dark switch with the current theme
// highlighted.
func renderThemeToggle(theme model.Theme, s Styles) string {
	light, dark := s.ToggleOff, s.ToggleOff
	if theme == model.ThemeDark {
		dark = s.ToggleOn
	} else {
		light = s.ToggleOn
	}
	return lipgloss.JoinHorizontal(lipgloss.Center,
		light.Render(" ☀ light "),
		dark.Render(" ☾ dark "),
	)
}
