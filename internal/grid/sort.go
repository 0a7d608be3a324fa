package grid

import (
	"encoding/json"
	"slices"
	"strings"

	"gridify/internal/model"
	"gridify/internal/util"
)

// SortAscending returns a stably sorted copy of records ordered by column.
// Numbers compare numerically, other values by their display form, and
// missing or null values sort last.
func SortAscending(records []model.Record, column string) []model.Record {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b model.Record) int {
		av, aok := a.Get(column)
		bv, bok := b.Get(column)
		return compareValues(av, aok && av != nil, bv, bok && bv != nil)
	})
	return sorted
}

// ToggleSort applies one sort click on column to view.
//
// When the state is (column, desc) the result is the reverse of a fresh
// ascending sort and the state becomes (column, asc). Otherwise the result
// is a fresh ascending sort labelled (column, desc).
func ToggleSort(view []model.Record, state model.SortState, column string) ([]model.Record, model.SortState) {
	sorted := SortAscending(view, column)
	if state.Is(column, model.SortDesc) {
		slices.Reverse(sorted)
		return sorted, model.SortState{Column: column, Direction: model.SortAsc}
	}
	return sorted, model.SortState{Column: column, Direction: model.SortDesc}
}

func compareValues(a any, aok bool, b any, bok bool) int {
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}

	an, aNum := numeric(a)
	bn, bNum := numeric(b)
	if aNum && bNum {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		default:
			return 0
		}
	}
	// Numeric-looking strings keep string order.
	return strings.Compare(util.FormatValue(a), util.FormatValue(b))
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
