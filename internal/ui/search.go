package ui

import (
	"strings"

	"gridify/internal/util"

	"github.com/charmbracelet/bubbles/textinput"
)

const clearMarker = "✕"

func newSearchInput(column string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "search " + strings.ToLower(column)
	ti.Prompt = ""
	ti.CharLimit = 64
	return ti
}

// renderSearchBox draws one column's search input. A non-empty value shows
// the clear marker (ctrl+x while focused).
func renderSearchBox(in textinput.Model, width int, focused bool, s Styles) string {
	inner := width
	value := in.Value()
	if value != "" {
		inner -= 2
	}
	in.Width = max(1, inner-1)

	var text string
	if focused {
		text = in.View()
	} else if value == "" {
		text = in.Placeholder
	} else {
		text = value
	}
	text = util.TruncateString(text, max(1, inner))
	if value != "" {
		text = util.FitWidth(text, inner) + " " + clearMarker
	}
	text = util.FitWidth(text, width)

	if focused {
		return s.FocusedInput.Render(text)
	}
	return s.Input.Render(text)
}
