package ui

import (
	"strings"

	"gridify/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// RenderHelp renders the context-sensitive help footer.
func RenderHelp(mode model.Mode, width int, s Styles) string {
	if mode == model.ModeSearch {
		return renderSearchHelp(width, s)
	}
	keys := []string{
		helpKey(s, "j/k", "navigate"),
		helpKey(s, "tab", "next col"),
		helpKey(s, "p", "pin"),
		helpKey(s, "s", "sort"),
		helpKey(s, "/", "search"),
		helpKey(s, "t", "theme"),
		helpKey(s, "?", "help"),
		helpKey(s, "q", "quit"),
	}
	return renderHelpLine(keys, width, s)
}

func renderSearchHelp(width int, s Styles) string {
	keys := []string{
		helpKey(s, "type", "filter by prefix"),
		helpKey(s, "tab", "next col"),
		helpKey(s, "ctrl+x", "clear"),
		helpKey(s, "esc/enter", "done"),
	}
	return renderHelpLine(keys, width, s)
}

func helpKey(s Styles, key, desc string) string {
	return s.HelpKey.Render(key) + " " + s.HelpDesc.Render(desc)
}

func renderHelpLine(keys []string, width int, s Styles) string {
	line := strings.Join(keys, "  ")
	return s.Footer.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int, s Styles) string {
	content := lipgloss.NewStyle().
		Width(max(0, width-4)).
		Height(max(0, height-6)).
		Padding(1, 2)

	sections := []string{
		titleSection(s, "Navigation"),
		helpSection(s, []helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"gg / home", "Jump to top"},
			{"G / end", "Jump to bottom (loads the next page)"},
			{"ctrl+d", "Half page down"},
			{"ctrl+u", "Half page up"},
			{"tab / l / →", "Next column"},
			{"shift+tab / h / ←", "Previous column"},
			{"mouse wheel", "Scroll"},
		}),
		titleSection(s, "Columns"),
		helpSection(s, []helpItem{
			{"p", "Pin / unpin active column"},
			{"s", "Sort by active column (toggles direction)"},
			{"/", "Search active column"},
		}),
		titleSection(s, "Search"),
		helpSection(s, []helpItem{
			{"type", "Filter rows whose value starts with the text"},
			{"tab / shift+tab", "Search next / previous column"},
			{"ctrl+x", "Clear this column's search"},
			{"esc / enter", "Back to navigation"},
		}),
		titleSection(s, "General"),
		helpSection(s, []helpItem{
			{"t", "Toggle light / dark theme"},
			{"?", "Toggle help"},
			{"q / ctrl+c", "Quit"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		s.Title.Width(width).Render("Help"),
		helpText,
		s.Footer.Width(width).Render(s.HelpKey.Render("esc")+" "+s.HelpDesc.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(s Styles, title string) string {
	return s.Label.Render(title)
}

func helpSection(s Styles, items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+s.HelpKey.Render(item.key)+" - "+s.HelpDesc.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
