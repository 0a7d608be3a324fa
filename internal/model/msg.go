package model

// Bubble Tea message types

// PageLoadedMsg is sent when a page request completes. Seq identifies the
// request that produced it.
type PageLoadedMsg struct {
	Seq       int
	Page      int
	RequestID string
	Records   []Record
}

// PageFailedMsg is sent when a page request fails.
type PageFailedMsg struct {
	Seq       int
	Page      int
	RequestID string
	Err       error
}

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeSearch
)
