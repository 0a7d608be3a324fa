package ui

import (
	"fmt"
	"runtime/debug"
	"strings"

	"gridify/internal/logger"
	"gridify/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Boundary supervises a child model. A panic in the child's Update or View
// is recovered and the boundary switches to a static fallback until Reset.
type Boundary struct {
	factory func() tea.Model
	child   tea.Model
	log     *logger.Logger
	theme   model.Theme

	failed bool
	err    error
	stack  string

	width  int
	height int
}

// NewBoundary creates a boundary around the model built by factory.
func NewBoundary(factory func() tea.Model, theme model.Theme, log *logger.Logger) *Boundary {
	if log == nil {
		log = logger.Discard()
	}
	return &Boundary{
		factory: factory,
		child:   factory(),
		log:     log,
		theme:   theme,
	}
}

// Init initializes the child.
func (b *Boundary) Init() tea.Cmd {
	return b.safeInit()
}

// Reset remounts a fresh child built by factory and leaves the fallback. A
// nil factory reuses the one given at construction.
func (b *Boundary) Reset(factory func() tea.Model) tea.Cmd {
	if factory != nil {
		b.factory = factory
	}
	b.child = b.factory()
	b.failed = false
	b.err = nil
	b.stack = ""

	cmd := b.safeInit()
	if b.failed || b.width == 0 {
		return cmd
	}
	size := tea.WindowSizeMsg{Width: b.width, Height: b.height}
	return tea.Batch(cmd, func() tea.Msg { return size })
}

// Failed reports whether the boundary is showing the fallback.
func (b *Boundary) Failed() bool {
	return b.failed
}

// Err returns the recovered error.
func (b *Boundary) Err() error {
	return b.err
}

// Update forwards msg to the child unless the boundary has failed.
func (b *Boundary) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		b.width = size.Width
		b.height = size.Height
	}

	if b.failed {
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "R":
				return b, b.Reset(nil)
			case "q", "ctrl+c", "esc":
				return b, tea.Quit
			}
		}
		return b, nil
	}

	return b, b.safeUpdate(msg)
}

// View renders the child, or the fallback once a panic was recovered.
func (b *Boundary) View() string {
	if !b.failed {
		if view, ok := b.safeView(); ok {
			return view
		}
	}
	return b.renderFallback()
}

func (b *Boundary) safeInit() (cmd tea.Cmd) {
	defer b.recoverPanic("init")
	return b.child.Init()
}

// themed is implemented by children that own a theme; the fallback follows it.
type themed interface {
	Theme() model.Theme
}

func (b *Boundary) safeUpdate(msg tea.Msg) (cmd tea.Cmd) {
	defer b.recoverPanic("update")
	b.child, cmd = b.child.Update(msg)
	if t, ok := b.child.(themed); ok {
		b.theme = t.Theme()
	}
	return cmd
}

func (b *Boundary) safeView() (view string, ok bool) {
	defer b.recoverPanic("view")
	return b.child.View(), true
}

func (b *Boundary) recoverPanic(phase string) {
	r := recover()
	if r == nil {
		return
	}
	err, isErr := r.(error)
	if !isErr {
		err = fmt.Errorf("%v", r)
	}
	b.failed = true
	b.err = fmt.Errorf("panic during %s: %w", phase, err)
	b.stack = string(debug.Stack())
	b.log.WithFields(map[string]any{"phase": phase, "stack": b.stack}).Error(err, "recovered panic")
}

func (b *Boundary) renderFallback() string {
	s := NewStyles(b.theme)

	stack := b.stack
	if b.height > 0 {
		lines := strings.Split(stack, "\n")
		if limit := b.height - 8; limit > 0 && len(lines) > limit {
			lines = lines[:limit]
		}
		stack = strings.Join(lines, "\n")
	}

	msg := ""
	if b.err != nil {
		msg = b.err.Error()
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		s.Error.Bold(true).Render("Something went wrong!"),
		s.Error.Render(msg),
		"",
		s.HelpDesc.Render(stack),
		"",
		s.HelpKey.Render("R")+" "+s.HelpDesc.Render("reload")+"  "+
			s.HelpKey.Render("q")+" "+s.HelpDesc.Render("quit"),
	)
	return s.Panel.Render(body)
}
