package grid

import (
	"strings"

	"gridify/internal/model"
	"gridify/internal/util"
)

// Filter keeps the records whose value in every column with a non-empty
// criterion starts with that criterion, compared case-insensitively. A
// record missing a filtered column never matches. The result is never nil.
func Filter(records []model.Record, criteria map[string]string) []model.Record {
	active := make(map[string]string, len(criteria))
	for column, value := range criteria {
		if value != "" {
			active[column] = strings.ToLower(value)
		}
	}

	filtered := make([]model.Record, 0, len(records))
	for _, r := range records {
		if matches(r, active) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func matches(r model.Record, criteria map[string]string) bool {
	for column, prefix := range criteria {
		v, ok := r.Get(column)
		if !ok || v == nil {
			return false
		}
		if !strings.HasPrefix(strings.ToLower(util.FormatValue(v)), prefix) {
			return false
		}
	}
	return true
}
