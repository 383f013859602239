package outline

import "github.com/ardnew/sxview/tree"

// Row is one occurrence of a node in an [Outline].
type Row struct {
	outline  *Outline
	node     *tree.Node
	parent   *Row
	index    int
	depth    int
	expanded bool
	children []*Row // nil until materialized
}

// Node returns the node displayed by r.
func (r *Row) Node() *tree.Node { return r.node }

// Parent returns the row r was materialized from, or nil for a root.
func (r *Row) Parent() *Row { return r.parent }

// Index returns the position of r among its siblings.
func (r *Row) Index() int { return r.index }

// Depth returns the number of ancestors of r.
func (r *Row) Depth() int { return r.depth }

// Label returns the display text of the node.
func (r *Row) Label() string { return r.node.Label() }

// Path returns the sibling indexes from the root down to r.
func (r *Row) Path() []int {
	path := make([]int, r.depth+1)
	for at := r; at != nil; at = at.parent {
		path[at.depth] = at.index
	}

	return path
}

// Expandable reports whether r has children to show.
func (r *Row) Expandable() bool { return len(r.node.Children) > 0 }

// Expanded reports whether r currently shows its children.
func (r *Row) Expanded() bool { return r.expanded }

// Materialized reports whether r has created its child rows.
func (r *Row) Materialized() bool { return r.children != nil }

// Children returns the child rows created so far, or nil if r has not been
// expanded yet. The returned rows are collapsed until expanded themselves.
func (r *Row) Children() []*Row { return r.children }

// Expand shows the children of r, creating their rows on first use, and
// returns them. Expanding a leaf does nothing.
func (r *Row) Expand() []*Row {
	if !r.Expandable() {
		return nil
	}

	if r.children == nil {
		r.materialize()
	}

	r.expanded = true

	return r.children
}

// Collapse hides the children of r without discarding their rows.
func (r *Row) Collapse() { r.expanded = false }

// Toggle expands a collapsed row or collapses an expanded one.
func (r *Row) Toggle() {
	if r.expanded {
		r.Collapse()
	} else {
		r.Expand()
	}
}

// Ancestor reports whether a is r or one of its parents.
func (r *Row) Ancestor(a *Row) bool {
	for at := r; at != nil; at = at.parent {
		if at == a {
			return true
		}
	}

	return false
}

func (r *Row) materialize() {
	r.children = make([]*Row, len(r.node.Children))
	for i, n := range r.node.Children {
		r.children[i] = &Row{
			outline: r.outline,
			node:    n,
			parent:  r,
			index:   i,
			depth:   r.depth + 1,
		}
	}

	r.outline.materialized(r)
}

func (r *Row) visible(yield func(*Row) bool) bool {
	if !yield(r) {
		return false
	}

	if !r.expanded {
		return true
	}

	for _, c := range r.children {
		if !c.visible(yield) {
			return false
		}
	}

	return true
}

func (r *Row) expandTo(depth int) {
	if r.depth >= depth || !r.Expandable() {
		return
	}

	for _, c := range r.Expand() {
		c.expandTo(depth)
	}
}

func (r *Row) collapseAll() {
	r.Collapse()

	for _, c := range r.children {
		c.collapseAll()
	}
}
