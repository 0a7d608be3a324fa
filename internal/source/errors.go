package source

import (
	"errors"
	"fmt"
)

// ErrFallback is recorded whenever a page cannot be used: the body is not a
// JSON array, or the request failed without a server error payload.
var ErrFallback = errors.New("unable to load data, please try again later")

// APIError carries the error payload a server returned with a non-2xx status.
type APIError struct {
	StatusCode int
	Payload    string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("API error: status %d: %s", e.StatusCode, e.Payload)
}
