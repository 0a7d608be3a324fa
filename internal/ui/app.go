package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gridify/internal/logger"
	"gridify/internal/model"
	"gridify/internal/source"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// setPageMsg asks the pager to move its page cursor.
type setPageMsg struct {
	update func(page int) int
}

// Options configures the root model.
type Options struct {
	Title      string
	Theme      model.Theme
	Pinnable   bool
	Searchable bool
	Sortable   bool
	Timeout    time.Duration
	Logger     *logger.Logger
}

// Model is the root Bubble Tea model: it composes the pager, the theme and
// the grid.
type Model struct {
	title  string
	theme  model.Theme
	styles Styles
	log    *logger.Logger

	pager *Pager
	grid  *GridModel

	width  int
	height int

	error       string
	showingHelp bool
	keys        KeyMap
}

// New creates a new root model reading pages from fetcher.
func New(fetcher Fetcher, opts Options) *Model {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	theme := model.ParseTheme(string(opts.Theme))

	m := &Model{
		title:  opts.Title,
		theme:  theme,
		styles: NewStyles(theme),
		log:    log,
		pager:  NewPager(fetcher, opts.Timeout, log),
		keys:   DefaultKeyMap(),
	}
	m.grid = NewGridModel(nil, GridConfig{
		Theme:      theme,
		SetPage:    requestPage,
		IsLoading:  true,
		Pinnable:   opts.Pinnable,
		Searchable: opts.Searchable,
		Sortable:   opts.Sortable,
	})
	return m
}

func requestPage(update func(page int) int) tea.Cmd {
	return func() tea.Msg {
		return setPageMsg{update: update}
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.grid.Init()
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.grid.SetSize(msg.Width, m.contentHeight())
		return m, nil

	case tea.KeyMsg:
		// Handle ctrl+c globally
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.grid.Searching() {
			return m, m.grid.Update(msg)
		}

		if m.showingHelp {
			if msg.String() == "esc" || key.Matches(msg, m.keys.Help) {
				m.showingHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showingHelp = true
			return m, nil
		case key.Matches(msg, m.keys.Theme):
			m.ToggleTheme()
			return m, nil
		}
		return m, m.grid.Update(msg)

	case setPageMsg:
		return m, m.pager.SetPage(msg.update(m.pager.Page()))

	case debounceTick:
		if msg.kind == debounceFetch {
			cmd := m.pager.HandleTick(msg)
			return m, tea.Batch(cmd, m.grid.SetLoading(m.pager.Loading()))
		}
		return m, m.grid.Update(msg)

	case model.PageLoadedMsg:
		if !m.pager.HandleLoaded(msg) {
			return m, nil
		}
		m.setError("")
		m.grid.SetHeaders(m.pager.Headers())
		return m, tea.Batch(
			m.grid.SetLoading(false),
			m.grid.SetRecords(m.pager.Records()),
		)

	case model.PageFailedMsg:
		if !m.pager.HandleFailed(msg) {
			return m, nil
		}
		m.setError(describeError(msg.Err))
		return m, m.grid.SetLoading(false)
	}

	return m, m.grid.Update(msg)
}

// ToggleTheme flips between light and dark.
func (m *Model) ToggleTheme() {
	m.theme = m.theme.Toggle()
	m.styles = NewStyles(m.theme)
	m.grid.SetTheme(m.theme)
	m.log.WithFields(map[string]any{"theme": string(m.theme)}).Debug("theme toggled")
}

// Theme returns the current theme.
func (m *Model) Theme() model.Theme {
	return m.theme
}

func (m *Model) table() tableController {
	return m.grid
}

// setError shows or clears the error banner. The banner takes a line from
// the grid, so the grid is resized whenever it appears or disappears.
func (m *Model) setError(text string) {
	if text == m.error {
		return
	}
	m.error = text
	m.grid.SetSize(m.width, m.contentHeight())
}

// contentHeight is the height left for the grid: header and footer take two
// lines each with their borders, the status line one more, and the error
// banner one when shown.
func (m *Model) contentHeight() int {
	h := m.height - 5
	if m.error != "" {
		h--
	}
	return max(1, h)
}

// View renders the UI.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height, m.styles)
	}

	header := m.renderHeader()

	mode := model.ModeNav
	if m.table().Searching() {
		mode = model.ModeSearch
	}
	footer := RenderHelp(mode, m.width, m.styles)

	contentHeight := m.contentHeight()
	var errorBanner string
	if m.error != "" {
		errorBanner = m.styles.Error.Width(m.width).Render("Error: " + m.error)
	}

	content := lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(m.grid.View())

	status := m.renderStatus()

	parts := []string{header}
	if errorBanner != "" {
		parts = append(parts, errorBanner)
	}
	parts = append(parts, content, status, footer)
	return m.styles.Base.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m *Model) renderHeader() string {
	title := m.styles.Header.Render("gridify")
	if m.title != "" {
		title += m.styles.HelpDesc.Render(" › " + m.title)
	}
	left := "  " + title
	right := renderThemeToggle(m.theme, m.styles) + "  "

	padding := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return m.styles.Title.Width(m.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m *Model) renderStatus() string {
	total := len(m.pager.Records())
	shown := m.grid.ViewLen()
	line := fmt.Sprintf("Page %d  ·  rows %d/%d", m.pager.Page(), shown, total)
	if meta := m.table().TableMeta(); meta != "" {
		line += "  ·  " + meta
	}
	return m.styles.StatusBar.Render(line)
}

// describeError prefers the server payload of an API error.
func describeError(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *source.APIError
	if errors.As(err, &apiErr) && apiErr.Payload != "" {
		return apiErr.Payload
	}
	return err.Error()
}
