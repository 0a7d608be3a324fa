package ui

import (
	"testing"
	"time"

	"gridify/internal/model"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type explodingModel struct {
	updatePanics bool
	viewPanics   bool
	updates      int
}

func (m *explodingModel) Init() tea.Cmd { return nil }

func (m *explodingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.updates++
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "x" {
		if m.updatePanics {
			panic("boom")
		}
		m.viewPanics = true
	}
	return m, nil
}

func (m *explodingModel) View() string {
	if m.viewPanics {
		panic(errBoomView)
	}
	return "child view"
}

var errBoomView = &viewError{}

type viewError struct{}

func (*viewError) Error() string { return "view exploded" }

func TestBoundaryRendersChild(t *testing.T) {
	b := NewBoundary(func() tea.Model { return &explodingModel{} }, model.ThemeLight, nil)
	require.Nil(t, b.Init())
	require.Equal(t, "child view", b.View())
	require.False(t, b.Failed())
}

func TestBoundaryRecoversUpdatePanic(t *testing.T) {
	b := NewBoundary(func() tea.Model { return &explodingModel{updatePanics: true} }, model.ThemeLight, nil)

	_, cmd := b.Update(runeKey("x"))
	require.Nil(t, cmd)
	require.True(t, b.Failed())
	require.ErrorContains(t, b.Err(), "boom")

	view := b.View()
	require.Contains(t, view, "Something went wrong!")
	require.Contains(t, view, "boom")
}

func TestBoundaryRecoversViewPanic(t *testing.T) {
	b := NewBoundary(func() tea.Model { return &explodingModel{} }, model.ThemeDark, nil)

	b.Update(runeKey("x"))
	require.False(t, b.Failed())

	view := b.View()
	require.True(t, b.Failed())
	require.ErrorIs(t, b.Err(), errBoomView)
	require.Contains(t, view, "Something went wrong!")
}

func TestBoundaryStopsForwardingAfterFailure(t *testing.T) {
	child := &explodingModel{updatePanics: true}
	b := NewBoundary(func() tea.Model { return child }, model.ThemeLight, nil)

	b.Update(runeKey("x"))
	require.True(t, b.Failed())
	before := child.updates

	b.Update(runeKey("j"))
	require.Equal(t, before, child.updates)
}

func TestBoundaryResetRemounts(t *testing.T) {
	mounts := 0
	b := NewBoundary(func() tea.Model {
		mounts++
		return &explodingModel{updatePanics: true}
	}, model.ThemeLight, nil)

	b.Update(runeKey("x"))
	require.True(t, b.Failed())

	b.Update(runeKey("R"))
	require.False(t, b.Failed())
	require.NoError(t, b.Err())
	require.Equal(t, 2, mounts)
	require.Equal(t, "child view", b.View())
}

func TestBoundaryResetWithNewFactory(t *testing.T) {
	b := NewBoundary(func() tea.Model { return &explodingModel{updatePanics: true} }, model.ThemeLight, nil)
	b.Update(runeKey("x"))

	b.Reset(func() tea.Model { return &explodingModel{} })
	b.Update(runeKey("x"))
	require.False(t, b.Failed())
}

func TestBoundaryResetDropsResponsesFromOldChild(t *testing.T) {
	f := newFakeFetcher()
	f.pages[1] = []model.Record{rec([]string{"id", "title"}, 1, "first")}
	f.pages[5] = []model.Record{rec([]string{"id", "title"}, 50, "from old mount")}

	b := NewBoundary(func() tea.Model {
		return New(f, Options{Theme: model.ThemeLight, Timeout: time.Second})
	}, model.ThemeLight, nil)
	b.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	issue := func(page int) model.PageLoadedMsg {
		t.Helper()
		child := b.child.(*Model)
		b.Update(setPageMsg{update: func(int) int { return page }})
		_, cmd := b.Update(child.pager.fetch.pending())
		for _, msg := range collect(cmd) {
			if loaded, ok := msg.(model.PageLoadedMsg); ok {
				return loaded
			}
		}
		t.Fatalf("no response for page %d", page)
		return model.PageLoadedMsg{}
	}

	oldMsg := issue(5)
	b.Reset(nil)
	freshMsg := issue(1)
	require.Equal(t, oldMsg.Seq, freshMsg.Seq)

	b.Update(oldMsg)
	fresh := b.child.(*Model)
	require.Empty(t, fresh.pager.Records())

	b.Update(freshMsg)
	require.Len(t, fresh.pager.Records(), 1)
	require.Equal(t, []string{"id", "title"}, fresh.grid.Headers())
}

type themedChild struct {
	explodingModel
	theme model.Theme
}

func (m *themedChild) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "t" {
		m.theme = m.theme.Toggle()
	}
	m.explodingModel.Update(msg)
	return m, nil
}

func (m *themedChild) Theme() model.Theme { return m.theme }

func TestBoundaryFallbackFollowsChildTheme(t *testing.T) {
	b := NewBoundary(func() tea.Model {
		return &themedChild{explodingModel: explodingModel{updatePanics: true}, theme: model.ThemeLight}
	}, model.ThemeLight, nil)

	b.Update(runeKey("t"))
	require.Equal(t, model.ThemeDark, b.theme)

	b.Update(runeKey("x"))
	require.True(t, b.Failed())
	require.Equal(t, model.ThemeDark, b.theme)
	require.Contains(t, b.View(), "Something went wrong!")
}
