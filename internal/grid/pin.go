package grid

import "slices"

// TogglePin pins column when it is not pinned and unpins it otherwise.
// The returned header order is the pinned columns in pin order followed by
// every other column of base in base order. Columns absent from base are
// ignored.
func TogglePin(base, pinned []string, column string) (headers, nextPinned []string) {
	if !slices.Contains(base, column) {
		return Arrange(base, pinned), slices.Clone(pinned)
	}

	if slices.Contains(pinned, column) {
		nextPinned = make([]string, 0, len(pinned))
		for _, p := range pinned {
			if p != column {
				nextPinned = append(nextPinned, p)
			}
		}
	} else {
		nextPinned = append(slices.Clone(pinned), column)
	}
	return Arrange(base, nextPinned), nextPinned
}

// Arrange places pinned columns first, then the rest of base in order.
func Arrange(base, pinned []string) []string {
	headers := make([]string, 0, len(base))
	for _, p := range pinned {
		if slices.Contains(base, p) {
			headers = append(headers, p)
		}
	}
	for _, h := range base {
		if !slices.Contains(pinned, h) {
			headers = append(headers, h)
		}
	}
	return headers
}
