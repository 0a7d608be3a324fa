package ui

import (
	"slices"
	"strings"

	"gridify/internal/grid"
	"gridify/internal/model"
	"gridify/internal/util"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	minColumnWidth = 6
	maxColumnWidth = 28
	widthSampleRow = 500
)

// GridConfig is the option bag of the table.
type GridConfig struct {
	// HeaderData is the initial column list.
	HeaderData []string
	Theme      model.Theme
	// SetPage asks the owner to move the page cursor. update receives the
	// current page and returns the requested one.
	SetPage    func(update func(page int) int) tea.Cmd
	IsLoading  bool
	Pinnable   bool
	Searchable bool
	Sortable   bool
}

// GridModel is the table: it holds the filtered and sorted view, the pin
// order, the search criteria and drives scroll pagination.
type GridModel struct {
	cfg        GridConfig
	styles     Styles
	keys       KeyMap
	searchKeys SearchKeyMap

	records     []model.Record
	view        []model.Record
	baseHeaders []string
	headers     []string
	pinned      []string
	criteria    map[string]string
	inputs      map[string]textinput.Model
	sort        model.SortState
	waiting     bool
	loading     bool

	mode         model.Mode
	gState       GState
	cursor       int
	offset       int
	activeColumn int
	colOffset    int
	width        int
	height       int

	spinner  spinner.Model
	spinning bool
	search   debouncer
	scroll   debouncer
}

// NewGridModel creates a table over records.
func NewGridModel(records []model.Record, cfg GridConfig) *GridModel {
	if cfg.SetPage == nil {
		cfg.SetPage = func(func(int) int) tea.Cmd { return nil }
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &GridModel{
		cfg:        cfg,
		styles:     NewStyles(cfg.Theme),
		keys:       DefaultKeyMap(),
		searchKeys: DefaultSearchKeyMap(),
		records:    records,
		view:       slices.Clone(records),
		criteria:   make(map[string]string),
		loading:    cfg.IsLoading,
		spinner:    sp,
		search:     newDebouncer(debounceSearch, searchDelay),
		scroll:     newDebouncer(debounceScroll, scrollDelay),
	}
	m.resetHeaders(cfg.HeaderData)
	return m
}

// Init requests the first page.
func (m *GridModel) Init() tea.Cmd {
	return tea.Batch(
		m.cfg.SetPage(func(int) int { return 1 }),
		m.startSpinner(),
	)
}

// SetSize sets the area available to the table.
func (m *GridModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clampCursor()
	m.ensureColumnVisible()
}

// SetTheme switches the palette.
func (m *GridModel) SetTheme(theme model.Theme) {
	m.cfg.Theme = theme
	m.styles = NewStyles(theme)
}

// SetLoading mirrors the fetch state.
func (m *GridModel) SetLoading(loading bool) tea.Cmd {
	m.loading = loading
	if loading {
		return m.startSpinner()
	}
	return nil
}

// SetHeaders replaces the column list when its length differs from the
// current one. Pins, criteria and sort are reset with it.
func (m *GridModel) SetHeaders(headers []string) {
	if len(headers) == len(m.baseHeaders) {
		return
	}
	m.resetHeaders(headers)
}

func (m *GridModel) resetHeaders(headers []string) {
	m.baseHeaders = slices.Clone(headers)
	m.headers = slices.Clone(headers)
	m.pinned = nil
	m.criteria = make(map[string]string)
	m.sort = model.SortState{}
	m.search.Cancel()
	m.waiting = false
	m.activeColumn = 0
	m.colOffset = 0
	m.mode = model.ModeNav
	m.inputs = make(map[string]textinput.Model, len(headers))
	for _, h := range headers {
		m.inputs[h] = newSearchInput(h)
	}
}

// SetRecords replaces the source list. The view resets to the full list;
// active criteria are re-applied after the search delay.
func (m *GridModel) SetRecords(records []model.Record) tea.Cmd {
	m.records = records
	m.view = slices.Clone(records)
	m.clampCursor()
	if !util.HasActiveCriteria(m.criteria) {
		return nil
	}
	m.waiting = true
	return tea.Batch(m.search.Schedule(), m.startSpinner())
}

// SetCriterion updates the search value of column and schedules filtering.
func (m *GridModel) SetCriterion(column, value string) tea.Cmd {
	m.criteria[column] = value
	if in, ok := m.inputs[column]; ok && in.Value() != value {
		in.SetValue(value)
		m.inputs[column] = in
	}
	if len(m.records) == 0 {
		return nil
	}
	m.waiting = true
	return tea.Batch(m.search.Schedule(), m.startSpinner())
}

func (m *GridModel) applySearch() {
	m.view = grid.Filter(m.records, m.criteria)
	if util.HasActiveCriteria(m.criteria) {
		m.cursor = 0
		m.offset = 0
	}
	m.clampCursor()
	m.waiting = false
}

// ToggleSort sorts the current view by column, alternating direction.
func (m *GridModel) ToggleSort(column string) {
	if !m.cfg.Sortable || len(m.view) == 0 {
		return
	}
	m.view, m.sort = grid.ToggleSort(m.view, m.sort, column)
}

// TogglePin pins or unpins column.
func (m *GridModel) TogglePin(column string) {
	if !m.cfg.Pinnable {
		return
	}
	active := m.activeHeader()
	m.headers, m.pinned = grid.TogglePin(m.baseHeaders, m.pinned, column)
	if i := slices.Index(m.headers, active); i >= 0 {
		m.activeColumn = i
	}
	m.ensureColumnVisible()
}

// Scroll moves the cursor by delta rows and restarts the scroll delay.
func (m *GridModel) Scroll(delta int) tea.Cmd {
	m.cursor += delta
	m.clampCursor()
	return m.scroll.Schedule()
}

// onScrollSettled requests the next page when the last row is visible and
// no search is active. The sort label is cleared since appended rows
// arrive unsorted.
func (m *GridModel) onScrollSettled() tea.Cmd {
	if util.HasActiveCriteria(m.criteria) || m.loading {
		return nil
	}
	if !m.atBottom() {
		return nil
	}
	m.sort = model.SortState{}
	return m.cfg.SetPage(func(page int) int { return page + 1 })
}

func (m *GridModel) atBottom() bool {
	return m.offset+m.bodyHeight() >= len(m.view)
}

// Update handles messages routed to the table.
func (m *GridModel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounceTick:
		switch {
		case m.search.Fires(msg):
			m.applySearch()
		case m.scroll.Fires(msg):
			return m.onScrollSettled()
		}
		return nil

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			return m.Scroll(3)
		case tea.MouseButtonWheelUp:
			return m.Scroll(-3)
		}
		return nil

	case tea.KeyMsg:
		if m.mode == model.ModeSearch {
			return m.handleSearchKey(msg)
		}
		return m.handleNavKey(msg)

	default:
		if m.mode == model.ModeSearch {
			return m.updateFocusedInput(msg)
		}
	}
	return nil
}

func (m *GridModel) handleNavKey(msg tea.KeyMsg) tea.Cmd {
	// Handle "gg" state machine
	if msg.String() == "g" {
		if m.gState == GStateFirstG {
			m.gState = GStateIdle
			return m.Scroll(-len(m.view))
		}
		m.gState = GStateFirstG
		return nil
	}
	m.gState = GStateIdle

	switch {
	case key.Matches(msg, m.keys.Down):
		return m.Scroll(1)
	case key.Matches(msg, m.keys.Up):
		return m.Scroll(-1)
	case key.Matches(msg, m.keys.HalfPageDown):
		return m.Scroll(max(1, m.bodyHeight()/2))
	case key.Matches(msg, m.keys.HalfPageUp):
		return m.Scroll(-max(1, m.bodyHeight()/2))
	case key.Matches(msg, m.keys.Bottom):
		return m.Scroll(len(m.view))
	case key.Matches(msg, m.keys.Top):
		return m.Scroll(-len(m.view))
	case key.Matches(msg, m.keys.NextColumn):
		m.NextColumn()
	case key.Matches(msg, m.keys.PrevColumn):
		m.PrevColumn()
	case key.Matches(msg, m.keys.Pin):
		if h := m.activeHeader(); h != "" {
			m.TogglePin(h)
		}
	case key.Matches(msg, m.keys.Sort):
		if h := m.activeHeader(); h != "" {
			m.ToggleSort(h)
		}
	case key.Matches(msg, m.keys.Search):
		return m.focusSearch()
	}
	return nil
}

func (m *GridModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.searchKeys.Done):
		m.blurSearch()
		return nil
	case key.Matches(msg, m.searchKeys.Clear):
		return m.SetCriterion(m.activeHeader(), "")
	case key.Matches(msg, m.searchKeys.NextColumn):
		m.blurSearch()
		m.NextColumn()
		return m.focusSearch()
	case key.Matches(msg, m.searchKeys.PrevColumn):
		m.blurSearch()
		m.PrevColumn()
		return m.focusSearch()
	}
	return m.updateFocusedInput(msg)
}

func (m *GridModel) updateFocusedInput(msg tea.Msg) tea.Cmd {
	column := m.activeHeader()
	in, ok := m.inputs[column]
	if !ok {
		return nil
	}
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.inputs[column] = in
	if in.Value() != m.criteria[column] {
		return tea.Batch(cmd, m.SetCriterion(column, in.Value()))
	}
	return cmd
}

func (m *GridModel) focusSearch() tea.Cmd {
	if !m.cfg.Searchable {
		return nil
	}
	column := m.activeHeader()
	in, ok := m.inputs[column]
	if !ok {
		return nil
	}
	m.mode = model.ModeSearch
	cmd := in.Focus()
	m.inputs[column] = in
	return cmd
}

func (m *GridModel) blurSearch() {
	column := m.activeHeader()
	if in, ok := m.inputs[column]; ok {
		in.Blur()
		m.inputs[column] = in
	}
	m.mode = model.ModeNav
}

// NextColumn moves the active column right, wrapping around.
func (m *GridModel) NextColumn() {
	if len(m.headers) == 0 {
		return
	}
	m.activeColumn = (m.activeColumn + 1) % len(m.headers)
	m.ensureColumnVisible()
}

// PrevColumn moves the active column left, wrapping around.
func (m *GridModel) PrevColumn() {
	if len(m.headers) == 0 {
		return
	}
	m.activeColumn--
	if m.activeColumn < 0 {
		m.activeColumn = len(m.headers) - 1
	}
	m.ensureColumnVisible()
}

func (m *GridModel) activeHeader() string {
	if m.activeColumn < 0 || m.activeColumn >= len(m.headers) {
		return ""
	}
	return m.headers[m.activeColumn]
}

func (m *GridModel) busy() bool {
	return m.loading || m.waiting
}

func (m *GridModel) startSpinner() tea.Cmd {
	if m.spinning {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// bodyHeight is the number of record rows that fit under the header.
func (m *GridModel) bodyHeight() int {
	if m.height <= 0 {
		return len(m.view)
	}
	h := m.height - 2 // header row + status row
	if m.cfg.Searchable {
		h--
	}
	return max(1, h)
}

func (m *GridModel) clampCursor() {
	if len(m.view) == 0 {
		m.cursor = 0
		m.offset = 0
		return
	}
	if m.cursor >= len(m.view) {
		m.cursor = len(m.view) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
	if h := m.bodyHeight(); m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
}

func (m *GridModel) columnWidths() map[string]int {
	widths := make(map[string]int, len(m.headers))
	for _, h := range m.headers {
		w := util.DisplayWidth(h) + 2 // sort indicator
		if m.cfg.Pinnable {
			w += 2
		}
		widths[h] = w
	}
	rows := m.view
	if len(rows) > widthSampleRow {
		rows = rows[:widthSampleRow]
	}
	for _, r := range rows {
		for _, h := range m.headers {
			v, _ := r.Get(h)
			if w := util.DisplayWidth(util.FormatValue(v)); w > widths[h] {
				widths[h] = w
			}
		}
	}
	for h, w := range widths {
		widths[h] = min(max(w, minColumnWidth), maxColumnWidth)
	}
	return widths
}

// visibleColumns returns pinned columns followed by as many unpinned
// columns from start as fit the width.
func (m *GridModel) visibleColumns(widths map[string]int, start int) []string {
	pinnedCount := len(m.pinned)
	cols := slices.Clone(m.headers[:pinnedCount])
	used := 0
	for _, c := range cols {
		used += widths[c] + 1
	}
	for i := pinnedCount + start; i < len(m.headers); i++ {
		w := widths[m.headers[i]] + 1
		if m.width > 0 && used+w > m.width && len(cols) > pinnedCount {
			break
		}
		cols = append(cols, m.headers[i])
		used += w
	}
	return cols
}

func (m *GridModel) ensureColumnVisible() {
	pinnedCount := len(m.pinned)
	if m.activeColumn < pinnedCount {
		return
	}
	idx := m.activeColumn - pinnedCount
	if idx < m.colOffset {
		m.colOffset = idx
		return
	}
	widths := m.columnWidths()
	for m.colOffset < idx && !slices.Contains(m.visibleColumns(widths, m.colOffset), m.activeHeader()) {
		m.colOffset++
	}
}

// View renders the table.
func (m *GridModel) View() string {
	s := m.styles
	if len(m.headers) == 0 {
		if m.busy() {
			return s.StatusBar.Render(m.spinner.View() + " Loading...")
		}
		return s.EmptyState.Render("No Data Found")
	}

	widths := m.columnWidths()
	columns := m.visibleColumns(widths, m.colOffset)

	var lines []string
	lines = append(lines, m.renderHeaderRow(columns, widths))
	if m.cfg.Searchable {
		lines = append(lines, m.renderSearchRow(columns, widths))
	}

	end := min(len(m.view), m.offset+m.bodyHeight())
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.view[i], columns, widths, i == m.cursor))
	}

	switch {
	case m.busy():
		lines = append(lines, s.StatusBar.Render(m.spinner.View()+" Loading..."))
	case len(m.view) == 0:
		lines = append(lines, s.EmptyState.Render("No Data Found"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *GridModel) renderHeaderRow(columns []string, widths map[string]int) string {
	s := m.styles
	active := m.activeHeader()
	cells := make([]string, 0, len(columns))
	for _, h := range columns {
		var label strings.Builder
		if m.cfg.Pinnable {
			label.WriteString(pinMarker(slices.Contains(m.pinned, h)))
		}
		label.WriteString(strings.ToUpper(h))
		if m.cfg.Sortable && len(m.view) > 0 {
			label.WriteString(" " + sortIndicator(m.sort, h))
		}

		style := s.TableHeader
		switch {
		case h == active:
			style = s.ActiveHeader
		case slices.Contains(m.pinned, h):
			style = s.PinnedHeader
		}
		cells = append(cells, style.Render(util.FitWidth(label.String(), widths[h])))
	}
	return strings.Join(cells, " ")
}

func (m *GridModel) renderSearchRow(columns []string, widths map[string]int) string {
	cells := make([]string, 0, len(columns))
	active := m.activeHeader()
	for _, h := range columns {
		focused := m.mode == model.ModeSearch && h == active
		cells = append(cells, renderSearchBox(m.inputs[h], widths[h], focused, m.styles))
	}
	return strings.Join(cells, " ")
}

func (m *GridModel) renderRow(r model.Record, columns []string, widths map[string]int, selected bool) string {
	cells := make([]string, 0, len(columns))
	for _, h := range columns {
		v, _ := r.Get(h)
		cells = append(cells, util.FitWidth(util.FormatValue(v), widths[h]))
	}
	line := strings.Join(cells, " ")
	if selected {
		return m.styles.SelectedRow.Render(line)
	}
	return m.styles.NormalRow.Render(line)
}

// Searching reports whether a search box has keyboard focus.
func (m *GridModel) Searching() bool {
	return m.mode == model.ModeSearch
}

// ViewLen returns the number of rows currently displayed.
func (m *GridModel) ViewLen() int {
	return len(m.view)
}

// Headers returns the current column order.
func (m *GridModel) Headers() []string {
	return slices.Clone(m.headers)
}

// SortState returns the active sort label.
func (m *GridModel) SortState() model.SortState {
	return m.sort
}
