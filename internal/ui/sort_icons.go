package ui

import "gridify/internal/model"

const (
	iconSortUp   = "▲"
	iconSortDown = "▼"
	iconUnsorted = "↕"

	iconPinned   = "◆"
	iconUnpinned = "◇"
)

// sortIndicator shows the direction of column's last sort. The sort label
// names the next toggle target, so (col, desc) means the view is ascending.
func sortIndicator(state model.SortState, column string) string {
	switch {
	case state.Is(column, model.SortDesc):
		return iconSortUp
	case state.Is(column, model.SortAsc):
		return iconSortDown
	default:
		return iconUnsorted
	}
}

func pinMarker(pinned bool) string {
	if pinned {
		return iconPinned + " "
	}
	return iconUnpinned + " "
}
