// Package outline presents converted trees one level at a time.
//
// An [Outline] wraps the roots of a document in [Row] values. A row is one
// occurrence of a node: the same shared [tree.Node] reached through two
// parents yields two rows with independent state. Rows start collapsed, and
// a row's child rows are created the first time it is expanded and reused
// on every later expansion.
//
// An Outline is not safe for concurrent use.
package outline

import (
	"iter"
	"log/slog"

	"github.com/ardnew/sxview/log"
	"github.com/ardnew/sxview/tree"
)

// Outline is the expandable view over a sequence of root nodes.
type Outline struct {
	roots            []*Row
	hook             func(*Row)
	logger           log.Logger
	materializations int
}

// Option configures an [Outline].
type Option func(*Outline)

// WithMaterializeHook registers fn to be called each time a row creates its
// child rows.
func WithMaterializeHook(fn func(*Row)) Option {
	return func(o *Outline) {
		o.hook = fn
	}
}

// WithLogger sets the structured logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(o *Outline) {
		o.logger = logger
	}
}

// New returns an outline with one collapsed row per root.
func New(roots []*tree.Node, opts ...Option) *Outline {
	o := &Outline{}

	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	o.roots = make([]*Row, len(roots))
	for i, n := range roots {
		o.roots[i] = &Row{outline: o, node: n, index: i}
	}

	return o
}

// Roots returns the root rows.
func (o *Outline) Roots() []*Row { return o.roots }

// Materializations returns how many rows have created their child rows.
func (o *Outline) Materializations() int { return o.materializations }

// Visible returns an iterator over the rows currently shown, in display
// order: each row is followed by the visible rows beneath it when it is
// expanded.
func (o *Outline) Visible() iter.Seq[*Row] {
	return func(yield func(*Row) bool) {
		for _, r := range o.roots {
			if !r.visible(yield) {
				return
			}
		}
	}
}

// ExpandTo expands every row shallower than depth, creating child rows as
// needed. Roots have depth zero, so ExpandTo(1) shows the children of every
// root.
func (o *Outline) ExpandTo(depth int) {
	for _, r := range o.roots {
		r.expandTo(depth)
	}
}

// CollapseAll collapses every row. Child rows already created are kept.
func (o *Outline) CollapseAll() {
	for _, r := range o.roots {
		r.collapseAll()
	}
}

func (o *Outline) materialized(r *Row) {
	o.materializations++

	o.logger.Trace("materialized",
		slog.String("label", r.Label()),
		slog.Int("depth", r.depth),
		slog.Int("children", len(r.children)),
		slog.Bool("shared", r.node.Shared))

	if o.hook != nil {
		o.hook(r)
	}
}
