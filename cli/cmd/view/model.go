// Package view is the interactive outline browser.
//
// A [Model] is a Bubble Tea model over an [outline.Outline]. Only the rows
// the user has expanded are ever created, so large or deeply shared
// documents open immediately.
package view

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/sxview/log"
	"github.com/ardnew/sxview/outline"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	searchPrompt  = "/"
)

// Model is the Bubble Tea model for the viewer.
type Model struct {
	ctx     context.Context
	logger  log.Logger
	outline *outline.Outline
	history *History
	program []tea.ProgramOption

	rows   []*outline.Row // visible rows, in display order
	cursor int
	offset int // index of the first row on screen
	width  int
	height int

	keys       keyMap
	searchKeys searchKeyMap
	help       help.Model
	input      textinput.Model

	searching  bool
	query      string
	saved      string // query in effect before searching began
	matches    []int  // indexes into rows, ascending
	matched    map[*outline.Row][]int
	historyIdx int

	status   string
	quitting bool
}

// Option configures a [Model].
type Option func(*Model)

// WithContext sets the context passed to log records.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		m.ctx = ctx
	}
}

// WithLogger sets the structured logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(m *Model) {
		m.logger = logger
	}
}

// WithHistory sets the search history.
func WithHistory(h *History) Option {
	return func(m *Model) {
		if h != nil {
			m.history = h
		}
	}
}

// WithProgramOptions adds options used by [Run] to create the program.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(m *Model) {
		m.program = append(m.program, opts...)
	}
}

// New returns a model showing o with the cursor on the first row.
func New(o *outline.Outline, opts ...Option) Model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(searchPrompt)
	ti.CharLimit = 256

	m := Model{
		ctx:        context.Background(),
		outline:    o,
		history:    NewHistory(""),
		width:      defaultWidth,
		height:     defaultHeight,
		keys:       defaultKeyMap(),
		searchKeys: defaultSearchKeyMap(),
		help:       help.New(),
		input:      ti,
		matched:    make(map[*outline.Row][]int),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}

	m.refresh(nil)

	return m
}

// Run shows o in a full-screen program until the user quits or ctx is
// done.
func Run(ctx context.Context, o *outline.Outline, opts ...Option) error {
	m := New(o, append(opts, WithContext(ctx))...)

	m.logger.TraceContext(ctx, "view start",
		slog.Int("root_count", len(o.Roots())),
		slog.Int("history_count", m.history.Len()))

	popts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
	}, m.program...)

	if _, err := tea.NewProgram(m, popts...).Run(); err != nil {
		return ErrRun.Wrap(err)
	}

	m.logger.TraceContext(ctx, "view stop",
		slog.Int("materializations", o.Materializations()))

	return nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-lipgloss.Width(searchPrompt)-1, 1)
		m.scroll()

		return m, nil

	case tea.KeyMsg:
		m.logger.TraceContext(m.ctx, "view keypress",
			slog.String("key", msg.String()),
			slog.Bool("searching", m.searching))

		if m.searching {
			return m.handleSearchKey(msg)
		}

		return m.handleKey(msg)
	}

	if m.searching {
		var cmd tea.Cmd

		m.input, cmd = m.input.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true

		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.move(-1)

	case key.Matches(msg, m.keys.Down):
		m.move(1)

	case key.Matches(msg, m.keys.PageUp):
		m.move(-m.bodyHeight())

	case key.Matches(msg, m.keys.PageDown):
		m.move(m.bodyHeight())

	case key.Matches(msg, m.keys.Home):
		m.move(-len(m.rows))

	case key.Matches(msg, m.keys.End):
		m.move(len(m.rows))

	case key.Matches(msg, m.keys.Toggle):
		if r := m.current(); r != nil {
			r.Toggle()
			m.refresh(r)
		}

	case key.Matches(msg, m.keys.Expand):
		m.expand()

	case key.Matches(msg, m.keys.Collapse):
		m.collapse()

	case key.Matches(msg, m.keys.ExpandLevel):
		for _, r := range slices.Collect(m.outline.Visible()) {
			if r.Expandable() && !r.Expanded() {
				r.Expand()
			}
		}

		m.refresh(m.current())

	case key.Matches(msg, m.keys.CollapseAll):
		m.outline.CollapseAll()
		m.refresh(m.current())

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.saved = m.query
		m.historyIdx = m.history.Len()
		m.input.SetValue("")

		return m, m.input.Focus()

	case key.Matches(msg, m.keys.NextMatch):
		m.jump(1)

	case key.Matches(msg, m.keys.PrevMatch):
		m.jump(-1)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.scroll()
	}

	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.searchKeys.Accept):
		m.searching = false
		m.input.Blur()
		m.setQuery(m.input.Value())

		if err := m.history.Add(m.query); err != nil {
			m.status = ErrHistory.Wrap(err).Error()
			m.logger.WarnContext(m.ctx, "search history not saved",
				slog.Any("error", err))
		}

		if len(m.matches) > 0 && !slices.Contains(m.matches, m.cursor) {
			m.jump(1)
		}

		return m, nil

	case key.Matches(msg, m.searchKeys.Cancel):
		m.searching = false
		m.input.Blur()
		m.setQuery(m.saved)

		return m, nil

	case key.Matches(msg, m.searchKeys.Older):
		if m.historyIdx > 0 {
			m.historyIdx--
			m.recall()
		}

		return m, nil

	case key.Matches(msg, m.searchKeys.Newer):
		if m.historyIdx < m.history.Len() {
			m.historyIdx++
			m.recall()
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	m.setQuery(m.input.Value())

	return m, cmd
}

// recall loads the history entry at historyIdx into the search field, or
// clears it past the newest entry.
func (m *Model) recall() {
	entry, _ := m.history.At(m.historyIdx)

	m.input.SetValue(entry)
	m.input.CursorEnd()
	m.setQuery(entry)
}

func (m Model) current() *outline.Row {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}

	return m.rows[m.cursor]
}

func (m *Model) move(delta int) {
	m.cursor = max(min(m.cursor+delta, len(m.rows)-1), 0)
	m.scroll()
}

// expand opens the current row, or steps onto its first child if it is
// already open.
func (m *Model) expand() {
	r := m.current()

	switch {
	case r == nil || !r.Expandable():
	case !r.Expanded():
		r.Expand()
		m.refresh(r)
	default:
		m.move(1)
	}
}

// collapse closes the current row, or steps onto its parent if it is
// already closed.
func (m *Model) collapse() {
	r := m.current()

	switch {
	case r == nil:
	case r.Expanded():
		r.Collapse()
		m.refresh(r)
	case r.Parent() != nil:
		m.refresh(r.Parent())
	}
}

// refresh recomputes the visible rows and places the cursor on target, or
// on its nearest visible ancestor once target is hidden. Without a target
// the cursor index is kept.
func (m *Model) refresh(target *outline.Row) {
	m.rows = slices.Collect(m.outline.Visible())

	if target != nil {
		// Ancestors precede their descendants, so the last is the nearest.
		for i, r := range m.rows {
			if target.Ancestor(r) {
				m.cursor = i
			}
		}
	}

	m.cursor = max(min(m.cursor, len(m.rows)-1), 0)
	m.match()
	m.scroll()
}

func (m *Model) setQuery(query string) {
	m.query = query
	m.match()
}

// match finds the visible rows whose labels fuzzily match the query.
func (m *Model) match() {
	m.matches = m.matches[:0]
	clear(m.matched)

	if m.query == "" {
		return
	}

	labels := make([]string, len(m.rows))
	for i, r := range m.rows {
		labels[i] = r.Label()
	}

	for _, found := range fuzzy.Find(m.query, labels) {
		m.matches = append(m.matches, found.Index)
		m.matched[m.rows[found.Index]] = found.MatchedIndexes
	}

	slices.Sort(m.matches)
}

// jump moves the cursor to the next (dir > 0) or previous match, wrapping
// around the ends.
func (m *Model) jump(dir int) {
	if len(m.matches) == 0 {
		if m.query != "" {
			m.status = fmt.Sprintf("no matches for %q", m.query)
		}

		return
	}

	var next int

	if dir > 0 {
		i, _ := slices.BinarySearch(m.matches, m.cursor+1)
		next = m.matches[i%len(m.matches)]
	} else {
		i, _ := slices.BinarySearch(m.matches, m.cursor)
		next = m.matches[(i-1+len(m.matches))%len(m.matches)]
	}

	m.cursor = next
	m.scroll()
}

// bodyHeight returns the number of rows shown above the footer.
func (m Model) bodyHeight() int {
	footer := 1 + lipgloss.Height(m.help.View(m.keys))

	return max(m.height-footer, 1)
}

// scroll adjusts the offset so the cursor is on screen.
func (m *Model) scroll() {
	body := m.bodyHeight()

	if m.cursor < m.offset {
		m.offset = m.cursor
	}

	if m.cursor >= m.offset+body {
		m.offset = m.cursor - body + 1
	}

	m.offset = max(min(m.offset, len(m.rows)-body), 0)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	body := m.bodyHeight()
	end := min(len(m.rows), m.offset+body)

	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(i))
		b.WriteByte('\n')
	}

	for range body - (end - m.offset) {
		b.WriteByte('\n')
	}

	if m.searching {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(m.statusLine())
	}

	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))

	return b.String()
}

func (m Model) statusLine() string {
	if len(m.rows) == 0 {
		return statusStyle.Render("(empty)")
	}

	part := []string{fmt.Sprintf("%d/%d", m.cursor+1, len(m.rows))}

	if m.query != "" {
		part = append(part, fmt.Sprintf("%s%s: %d matches",
			searchPrompt, m.query, len(m.matches)))
	}

	line := statusStyle.Render(strings.Join(part, "  "))

	if m.status != "" {
		line += "  " + errorStyle.Render(m.status)
	}

	return line
}

func (m Model) renderRow(i int) string {
	r := m.rows[i]

	marker := markerLeaf

	switch {
	case r.Expanded():
		marker = markerExpanded
	case r.Expandable():
		marker = markerCollapsed
	}

	indent := strings.Repeat(indentUnit, r.Depth())
	width := lipgloss.NewStyle().MaxWidth(m.width)

	if i == m.cursor {
		line := indent + marker + " " + r.Label()
		if r.Node().Shared {
			line += " " + markerShared
		}

		return width.Render(cursorStyle.Render(line))
	}

	line := indent + markerStyle.Render(marker) + " " + m.renderLabel(r)
	if r.Node().Shared {
		line += " " + sharedStyle.Render(markerShared)
	}

	return width.Render(line)
}

// renderLabel styles the label of r by kind, highlighting the characters
// matched by the current query.
func (m Model) renderLabel(r *outline.Row) string {
	style := labelStyle

	switch n := r.Node(); {
	case !n.Named:
		style = unnamedStyle
	case n.IsKeyword():
		style = keywordStyle
	case n.Shared:
		style = sharedStyle
	}

	indexes, ok := m.matched[r]
	if !ok {
		return style.Render(r.Label())
	}

	matchSet := make(map[int]bool, len(indexes))
	for _, idx := range indexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, ch := range r.Label() {
		if matchSet[i] {
			b.WriteString(matchStyle.Render(string(ch)))
		} else {
			b.WriteString(style.Render(string(ch)))
		}
	}

	return b.String()
}
