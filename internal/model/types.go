package model

// Theme is the colour scheme of the grid.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme maps a config value onto a theme, defaulting to light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// SortDirection is the label attached to the sorted column.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAsc
	SortDesc
)

func (d SortDirection) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	default:
		return ""
	}
}

// SortState is the single active sort. Direction names the next toggle
// target: a fresh ascending sort is labelled SortDesc.
type SortState struct {
	Column    string
	Direction SortDirection
}

// Active reports whether a sort label is set.
func (s SortState) Active() bool {
	return s.Column != "" && s.Direction != SortNone
}

// Is reports whether the state is (column, dir).
func (s SortState) Is(column string, dir SortDirection) bool {
	return s.Column == column && s.Direction == dir
}
