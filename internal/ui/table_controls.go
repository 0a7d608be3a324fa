package ui

import (
	"fmt"
	"strings"

	"gridify/internal/util"
)

type tableController interface {
	NextColumn()
	PrevColumn()
	TogglePin(column string)
	ToggleSort(column string)
	Searching() bool
	TableMeta() string
}

var _ tableController = (*GridModel)(nil)

// TableMeta summarises the active column, sort, pins and search for the
// status bar.
func (m *GridModel) TableMeta() string {
	col := strings.ToUpper(m.activeHeader())
	if col == "" {
		return ""
	}
	parts := []string{fmt.Sprintf("col %s", col)}
	if m.sort.Active() {
		parts = append(parts, fmt.Sprintf("sort %s %s", strings.ToUpper(m.sort.Column), m.sort.Direction))
	}
	if len(m.pinned) > 0 {
		parts = append(parts, fmt.Sprintf("pinned %d", len(m.pinned)))
	}
	if util.HasActiveCriteria(m.criteria) {
		var filters []string
		for _, h := range m.baseHeaders {
			if v := m.criteria[h]; v != "" {
				filters = append(filters, fmt.Sprintf("%s=%q", strings.ToUpper(h), v))
			}
		}
		parts = append(parts, "search "+strings.Join(filters, " "))
	}
	return strings.Join(parts, "  ·  ")
}
