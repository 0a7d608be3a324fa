package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Debounce delays for the three independent actions.
const (
	fetchDelay  = 100 * time.Millisecond
	searchDelay = time.Second
	scrollDelay = 300 * time.Millisecond
)

type debounceKind int

const (
	debounceFetch debounceKind = iota
	debounceSearch
	debounceScroll
)

type debounceTick struct {
	kind debounceKind
	seq  int
}

// debouncer collapses bursts of one action into a single delayed tick.
// Scheduling bumps seq, so a tick carrying an older seq is stale.
type debouncer struct {
	kind  debounceKind
	delay time.Duration
	seq   int
}

func newDebouncer(kind debounceKind, delay time.Duration) debouncer {
	return debouncer{kind: kind, delay: delay}
}

// Schedule cancels any pending tick and starts a new delay.
func (d *debouncer) Schedule() tea.Cmd {
	d.seq++
	kind, seq := d.kind, d.seq
	return tea.Tick(d.delay, func(time.Time) tea.Msg {
		return debounceTick{kind: kind, seq: seq}
	})
}

// Cancel invalidates the pending tick, if any.
func (d *debouncer) Cancel() {
	d.seq++
}

// Fires reports whether msg is the latest tick scheduled by d.
func (d *debouncer) Fires(msg debounceTick) bool {
	return msg.kind == d.kind && msg.seq == d.seq
}

// pending returns the tick d is currently waiting for. Tests use it to
// deliver the tick without waiting on the timer.
func (d *debouncer) pending() debounceTick {
	return debounceTick{kind: d.kind, seq: d.seq}
}
