package view

import (
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/sxview/outline"
	"github.com/ardnew/sxview/sexp"
	"github.com/ardnew/sxview/tree"
)

const testDocument = "(root (a x y) (b z) c)"

func newTestOutline(t *testing.T, src string) *outline.Outline {
	t.Helper()

	ctx := context.Background()

	exprs, err := sexp.ParseAll(ctx, src)
	if err != nil {
		t.Fatalf("ParseAll(%q) error = %v", src, err)
	}

	roots, err := tree.NewConverter(nil).ConvertAll(ctx, exprs)
	if err != nil {
		t.Fatalf("ConvertAll(%q) error = %v", src, err)
	}

	return outline.New(roots)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()

	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))

		var ok bool
		if m, ok = next.(Model); !ok {
			t.Fatalf("Update(%q) returned %T, want Model", k, next)
		}
	}

	return m
}

func visibleLabels(m Model) []string {
	labels := make([]string, len(m.rows))
	for i, r := range m.rows {
		labels[i] = r.Label()
	}

	return labels
}

func TestModelStartsCollapsed(t *testing.T) {
	o := newTestOutline(t, testDocument+" (other)")
	m := New(o)

	if got, want := visibleLabels(m), []string{"root", "other"}; !slices.Equal(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}

	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}

	if n := o.Materializations(); n != 0 {
		t.Errorf("Materializations() = %d, want 0", n)
	}
}

func TestModelNavigation(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		wantRows   []string
		wantCursor string
	}{
		{
			name:       "toggle_open",
			keys:       []string{"enter"},
			wantRows:   []string{"root", "a", "b", "c"},
			wantCursor: "root",
		},
		{
			name:       "toggle_closed",
			keys:       []string{"enter", "space"},
			wantRows:   []string{"root"},
			wantCursor: "root",
		},
		{
			name:       "expand_then_descend",
			keys:       []string{"l", "l"},
			wantRows:   []string{"root", "a", "b", "c"},
			wantCursor: "a",
		},
		{
			name:       "expand_child",
			keys:       []string{"right", "down", "right"},
			wantRows:   []string{"root", "a", "x", "y", "b", "c"},
			wantCursor: "a",
		},
		{
			name:       "leaf_expand_does_nothing",
			keys:       []string{"l", "j", "j", "j", "l"},
			wantRows:   []string{"root", "a", "b", "c"},
			wantCursor: "c",
		},
		{
			name:       "collapse_closed_goes_to_parent",
			keys:       []string{"l", "j", "l", "j", "h"},
			wantRows:   []string{"root", "a", "x", "y", "b", "c"},
			wantCursor: "a",
		},
		{
			name:       "collapse_open",
			keys:       []string{"l", "j", "l", "left"},
			wantRows:   []string{"root", "a", "b", "c"},
			wantCursor: "a",
		},
		{
			name:       "cursor_clamped",
			keys:       []string{"k", "k", "l", "G", "j"},
			wantRows:   []string{"root", "a", "b", "c"},
			wantCursor: "c",
		},
		{
			name:       "home",
			keys:       []string{"l", "G", "g"},
			wantRows:   []string{"root", "a", "b", "c"},
			wantCursor: "root",
		},
		{
			name:       "expand_level",
			keys:       []string{"e", "e"},
			wantRows:   []string{"root", "a", "x", "y", "b", "z", "c"},
			wantCursor: "root",
		},
		{
			name:       "collapse_all_moves_to_root",
			keys:       []string{"e", "e", "G", "k", "c"},
			wantRows:   []string{"root"},
			wantCursor: "root",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := press(t, New(newTestOutline(t, testDocument)), tt.keys...)

			if got := visibleLabels(m); !slices.Equal(got, tt.wantRows) {
				t.Errorf("rows = %v, want %v", got, tt.wantRows)
			}

			if got := m.current().Label(); got != tt.wantCursor {
				t.Errorf("cursor on %q, want %q", got, tt.wantCursor)
			}
		})
	}
}

func TestModelRefreshSettlesOnVisibleAncestor(t *testing.T) {
	o := newTestOutline(t, testDocument)
	m := press(t, New(o), "e", "e", "j", "j") // cursor on x, below a

	if got := m.current().Label(); got != "x" {
		t.Fatalf("cursor on %q, want x", got)
	}

	x := m.current()
	x.Parent().Collapse()
	m.refresh(x)

	if got := m.current().Label(); got != "a" {
		t.Errorf("cursor on %q after hiding x, want a", got)
	}

	o.Roots()[0].Collapse()
	m.refresh(x)

	if got := m.current().Label(); got != "root" {
		t.Errorf("cursor on %q after hiding a, want root", got)
	}
}

func TestModelExpandMaterializesOnce(t *testing.T) {
	o := newTestOutline(t, testDocument)
	m := press(t, New(o), "enter", "enter", "enter")

	if n := o.Materializations(); n != 1 {
		t.Errorf("Materializations() = %d, want 1", n)
	}

	if len(m.rows) != 4 {
		t.Errorf("len(rows) = %d, want 4", len(m.rows))
	}
}

func TestModelSearch(t *testing.T) {
	m := press(t, New(newTestOutline(t, testDocument)), "e", "e")
	m = press(t, m, "/", "z")

	if !m.searching {
		t.Fatal("searching = false after typing a query")
	}

	if got := m.current().Label(); got != "root" {
		t.Errorf("cursor moved to %q before accepting", got)
	}

	m = press(t, m, "enter")

	if m.searching {
		t.Error("searching = true after enter")
	}

	if got := m.current().Label(); got != "z" {
		t.Errorf("cursor on %q, want %q", got, "z")
	}

	if got := m.history.Entries(); !slices.Equal(got, []string{"z"}) {
		t.Errorf("history = %v, want [z]", got)
	}

	// The only match wraps onto itself.
	m = press(t, m, "n")
	if got := m.current().Label(); got != "z" {
		t.Errorf("after n, cursor on %q, want %q", got, "z")
	}
}

func TestModelSearchNextPrevious(t *testing.T) {
	m := press(t, New(newTestOutline(t, "(r (k1 v) (k2 v) (k3 v))")), "e", "/", "k", "enter")

	steps := []struct {
		key  string
		want string
	}{
		{"", "k1"},
		{"n", "k2"},
		{"n", "k3"},
		{"n", "k1"},
		{"N", "k3"},
		{"N", "k2"},
	}

	for _, s := range steps {
		if s.key != "" {
			m = press(t, m, s.key)
		}

		if got := m.current().Label(); got != s.want {
			t.Errorf("after %q, cursor on %q, want %q", s.key, got, s.want)
		}
	}
}

func TestModelSearchCancel(t *testing.T) {
	m := press(t, New(newTestOutline(t, testDocument)), "e", "e", "/", "y", "enter")

	m = press(t, m, "/", "c", "esc")

	if m.searching {
		t.Error("searching = true after esc")
	}

	if m.query != "y" {
		t.Errorf("query = %q, want previous query %q", m.query, "y")
	}

	if got := m.history.Entries(); !slices.Equal(got, []string{"y"}) {
		t.Errorf("history = %v, want [y]", got)
	}
}

func TestModelSearchNoMatches(t *testing.T) {
	m := press(t, New(newTestOutline(t, testDocument)), "/", "q", "q", "enter", "n")

	if len(m.matches) != 0 {
		t.Errorf("matches = %v, want none", m.matches)
	}

	if !strings.Contains(m.status, "no matches") {
		t.Errorf("status = %q, want a no-match message", m.status)
	}
}

func TestModelSearchHistory(t *testing.T) {
	h := NewHistory("")
	for _, q := range []string{"first", "second"} {
		if err := h.Add(q); err != nil {
			t.Fatal(err)
		}
	}

	m := press(t, New(newTestOutline(t, testDocument), WithHistory(h)), "/")

	steps := []struct {
		key  string
		want string
	}{
		{"up", "second"},
		{"up", "first"},
		{"up", "first"},
		{"down", "second"},
		{"down", ""},
	}

	for _, s := range steps {
		m = press(t, m, s.key)

		if got := m.input.Value(); got != s.want {
			t.Errorf("after %s, input = %q, want %q", s.key, got, s.want)
		}
	}
}

func TestModelScroll(t *testing.T) {
	m := New(newTestOutline(t, "(r a b c d e f g h)"))
	footer := 1 + lipgloss.Height(m.help.View(m.keys))

	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: footer + 3})
	m = next.(Model)

	if got := m.bodyHeight(); got != 3 {
		t.Fatalf("bodyHeight() = %d, want 3", got)
	}

	m = press(t, m, "l", "j", "j", "j", "j")

	if m.cursor != 4 || m.offset != 2 {
		t.Errorf("cursor, offset = %d, %d, want 4, 2", m.cursor, m.offset)
	}

	m = press(t, m, "g")

	if m.offset != 0 {
		t.Errorf("offset after home = %d, want 0", m.offset)
	}

	m = press(t, m, "G")

	if want := len(m.rows) - 3; m.offset != want {
		t.Errorf("offset after end = %d, want %d", m.offset, want)
	}
}

func TestModelView(t *testing.T) {
	m := New(newTestOutline(t, "(let ((s (q r))) (top s s leaf))"))

	if v := m.View(); !strings.Contains(v, markerCollapsed+" top") {
		t.Errorf("View() = %q, want collapsed marker before top", v)
	}

	m = press(t, m, "enter")
	v := m.View()

	for _, want := range []string{markerExpanded + " top", markerShared, markerLeaf} {
		if !strings.Contains(v, want) {
			t.Errorf("View() missing %q:\n%s", want, v)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m := New(newTestOutline(t, testDocument))

	next, cmd := m.Update(keyMsg("q"))
	m = next.(Model)

	if !m.quitting {
		t.Error("quitting = false after q")
	}

	if cmd == nil {
		t.Fatal("Update(q) returned nil command")
	}

	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Update(q) command does not quit")
	}

	if v := m.View(); v != "" {
		t.Errorf("View() after quit = %q, want empty", v)
	}
}

func TestModelEmpty(t *testing.T) {
	m := press(t, New(outline.New(nil)), "j", "enter", "l", "h", "e", "c", "n")

	if m.current() != nil {
		t.Error("current() != nil for an empty outline")
	}

	if v := m.View(); !strings.Contains(v, "(empty)") {
		t.Errorf("View() = %q, want empty status", v)
	}
}
