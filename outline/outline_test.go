package outline

import (
	"context"
	"slices"
	"testing"

	"github.com/ardnew/sxview/sexp"
	"github.com/ardnew/sxview/tree"
)

func roots(t *testing.T, s string) []*tree.Node {
	t.Helper()

	xs, err := sexp.ParseAll(context.Background(), s)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	ns, err := tree.NewConverter(tree.NewEnv()).ConvertAll(context.Background(), xs)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	return ns
}

func labels(o *Outline) []string {
	var out []string

	for r := range o.Visible() {
		out = append(out, r.Label())
	}

	return out
}

func TestOutline_StartsCollapsed(t *testing.T) {
	var count int

	o := New(roots(t, "(f (g x) y) (h z)"),
		WithMaterializeHook(func(*Row) { count++ }))

	if got := labels(o); !slices.Equal(got, []string{"f", "h"}) {
		t.Errorf("visible = %v", got)
	}

	for _, r := range o.Roots() {
		if r.Expanded() || r.Materialized() || r.Children() != nil {
			t.Errorf("root %s must start collapsed and unmaterialized", r.Label())
		}
	}

	if count != 0 || o.Materializations() != 0 {
		t.Errorf("materialized %d rows before any expansion", count)
	}
}

func TestRow_ExpandMaterializesOneLevel(t *testing.T) {
	o := New(roots(t, "(f (g x) y)"))
	f := o.Roots()[0]

	children := f.Expand()

	if len(children) != 2 || children[0].Label() != "g" || children[1].Label() != "y" {
		t.Fatalf("children = %v", children)
	}

	g := children[0]
	if g.Expanded() || g.Materialized() {
		t.Error("grandchildren must stay collapsed")
	}

	if got := labels(o); !slices.Equal(got, []string{"f", "g", "y"}) {
		t.Errorf("visible = %v", got)
	}

	if g.Parent() != f || g.Depth() != 1 || !slices.Equal(g.Path(), []int{0, 0}) {
		t.Errorf("g parent=%v depth=%d path=%v", g.Parent(), g.Depth(), g.Path())
	}
}

// Expanding, collapsing, and expanding again reuses the rows created by
// the first expansion.
func TestRow_ExpandIsIdempotent(t *testing.T) {
	var materialized []*Row

	o := New(roots(t, "(f a b c)"),
		WithMaterializeHook(func(r *Row) { materialized = append(materialized, r) }))
	f := o.Roots()[0]

	first := slices.Clone(f.Expand())
	f.Collapse()

	if got := labels(o); !slices.Equal(got, []string{"f"}) {
		t.Errorf("visible after collapse = %v", got)
	}

	if !f.Materialized() {
		t.Error("collapse must keep materialized rows")
	}

	second := f.Expand()
	f.Expand()

	if len(materialized) != 1 || o.Materializations() != 1 {
		t.Errorf("materialized %d times, want once", len(materialized))
	}

	if !slices.Equal(first, second) {
		t.Error("re-expansion must return the same rows")
	}

	if got := labels(o); !slices.Equal(got, []string{"f", "a", "b", "c"}) {
		t.Errorf("visible = %v, want no duplicates", got)
	}
}

// Two occurrences of one shared node keep separate expansion state.
func TestRow_SharedOccurrencesAreIndependent(t *testing.T) {
	ns := roots(t, "(let ((x 1)) (f x x))")
	o := New(ns)

	f := o.Roots()[0]
	occurrences := f.Expand()
	left, right := occurrences[0], occurrences[1]

	if left.Node() != right.Node() {
		t.Fatal("occurrences must share a node")
	}

	left.Expand()

	if !left.Expanded() || right.Expanded() || right.Materialized() {
		t.Error("expanding one occurrence changed the other")
	}

	if got := labels(o); !slices.Equal(got, []string{"f", "x", "1", "x"}) {
		t.Errorf("visible = %v", got)
	}

	right.Expand()
	left.Collapse()

	if got := labels(o); !slices.Equal(got, []string{"f", "x", "x", "1"}) {
		t.Errorf("visible = %v", got)
	}

	if left.Children()[0] == right.Children()[0] {
		t.Error("occurrences must not share child rows")
	}

	if o.Materializations() != 3 {
		t.Errorf("materializations = %d, want 3", o.Materializations())
	}

	if len(ns[0].Children[0].Children) != 1 {
		t.Error("materialization must not modify the shared node")
	}
}

func TestRow_Toggle(t *testing.T) {
	o := New(roots(t, "(f a)"))
	f := o.Roots()[0]

	f.Toggle()

	if !f.Expanded() {
		t.Error("toggle must expand a collapsed row")
	}

	f.Toggle()

	if f.Expanded() || !f.Materialized() {
		t.Error("toggle must collapse without discarding rows")
	}
}

func TestRow_ExpandLeaf(t *testing.T) {
	var count int

	o := New(roots(t, "leaf ()"), WithMaterializeHook(func(*Row) { count++ }))

	for _, r := range o.Roots() {
		if r.Expandable() {
			t.Errorf("%s must not be expandable", r.Label())
		}

		if got := r.Expand(); got != nil || r.Expanded() || r.Materialized() {
			t.Errorf("expanding leaf %s changed state", r.Label())
		}
	}

	if count != 0 {
		t.Errorf("leaves materialized %d times", count)
	}
}

func TestOutline_ExpandToAndCollapseAll(t *testing.T) {
	o := New(roots(t, "(a (b (c d)) e) (f g)"))

	o.ExpandTo(1)

	if got := labels(o); !slices.Equal(got, []string{"a", "b", "e", "f", "g"}) {
		t.Errorf("ExpandTo(1) visible = %v", got)
	}

	o.ExpandTo(3)

	if got := labels(o); !slices.Equal(got, []string{"a", "b", "c", "d", "e", "f", "g"}) {
		t.Errorf("ExpandTo(3) visible = %v", got)
	}

	materializations := o.Materializations()

	o.CollapseAll()

	if got := labels(o); !slices.Equal(got, []string{"a", "f"}) {
		t.Errorf("CollapseAll visible = %v", got)
	}

	o.ExpandTo(3)

	if o.Materializations() != materializations {
		t.Error("expanding again must reuse materialized rows")
	}
}

func TestRow_Ancestor(t *testing.T) {
	o := New(roots(t, "(a (b c))"))
	o.ExpandTo(2)

	a := o.Roots()[0]
	b := a.Children()[0]
	c := b.Children()[0]

	if !c.Ancestor(a) || !c.Ancestor(c) || a.Ancestor(c) {
		t.Error("unexpected ancestry")
	}
}

func TestOutline_VisibleStopsEarly(t *testing.T) {
	o := New(roots(t, "(a b c) d"))
	o.ExpandTo(1)

	var seen []string

	for r := range o.Visible() {
		seen = append(seen, r.Label())
		if r.Label() == "b" {
			break
		}
	}

	if !slices.Equal(seen, []string{"a", "b"}) {
		t.Errorf("seen = %v", seen)
	}
}
