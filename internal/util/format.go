package util

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-runewidth"
)

// NewKey returns a random key for list rows and request tagging.
func NewKey() string {
	return uuid.NewString()
}

// AreAllValuesEmpty reports whether values has at least one entry and every
// entry is the empty string. An empty map returns false.
func AreAllValuesEmpty(values map[string]string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if v != "" {
			return false
		}
	}
	return true
}

// HasActiveCriteria reports whether any value is non-empty.
func HasActiveCriteria(values map[string]string) bool {
	return len(values) > 0 && !AreAllValuesEmpty(values)
}

// FormatValue renders a decoded JSON scalar for display. nil renders empty.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case map[string]any, []any:
		out, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(out)
	default:
		return fmt.Sprint(val)
	}
}

// TruncateString truncates a string to maxLen display cells and adds "..." if needed.
func TruncateString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxLen {
		return s
	}
	if maxLen < 3 {
		return runewidth.Truncate(s, maxLen, "")
	}
	return runewidth.Truncate(s, maxLen, "...")
}

// FitWidth truncates or right-pads s to exactly width display cells.
func FitWidth(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return runewidth.FillRight(TruncateString(s, width), width)
}

// DisplayWidth returns the number of terminal cells s occupies.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}
