package tree

import (
	"slices"
	"strconv"
	"strings"
)

// Occurrence is one appearance of a node in a converted document.
// A shared node has one occurrence per parent edge that reaches it.
type Occurrence struct {
	Node   *Node
	Parent *Node    // nil for roots
	Path   []int    // root index followed by child indexes
	Trail  []string // labels from the root down to Node

	// Repeat is set by [WalkOnce] on a shared node whose subtree was
	// already visited through an earlier occurrence.
	Repeat bool
}

// Depth returns the number of edges between the root and the occurrence.
func (o Occurrence) Depth() int { return len(o.Path) - 1 }

// Key returns the path as dot-separated indexes, e.g. "0.2.1".
func (o Occurrence) Key() string {
	part := make([]string, len(o.Path))
	for i, p := range o.Path {
		part[i] = strconv.Itoa(p)
	}

	return strings.Join(part, ".")
}

// Walk visits every occurrence reachable from roots in depth-first
// pre-order. If fn returns false, the children of that occurrence are
// skipped.
func Walk(roots []*Node, fn func(Occurrence) bool) {
	for i, root := range roots {
		walk(Occurrence{
			Node:  root,
			Path:  []int{i},
			Trail: []string{root.Label()},
		}, fn)
	}
}

// WalkOnce is like [Walk], but descends into each shared node only once.
// Later occurrences of a shared node whose children were already visited
// are passed to fn with Repeat set, and their children are skipped. A
// shared node that fn declined to descend into is not yet considered
// visited.
//
// The number of occurrences WalkOnce reports is bounded by the number of
// edges in the graph, whereas [Walk] may report exponentially many.
func WalkOnce(roots []*Node, fn func(Occurrence) bool) {
	seen := make(map[*Node]bool)

	for i, root := range roots {
		walkOnce(Occurrence{
			Node:  root,
			Path:  []int{i},
			Trail: []string{root.Label()},
		}, fn, seen)
	}
}

func walk(o Occurrence, fn func(Occurrence) bool) {
	if !fn(o) {
		return
	}

	for i, child := range o.Node.Children {
		walk(o.child(i, child), fn)
	}
}

func walkOnce(o Occurrence, fn func(Occurrence) bool, seen map[*Node]bool) {
	if o.Node.Shared && seen[o.Node] {
		o.Repeat = true
		fn(o)

		return
	}

	if !fn(o) {
		return
	}

	if o.Node.Shared {
		seen[o.Node] = true
	}

	for i, child := range o.Node.Children {
		walkOnce(o.child(i, child), fn, seen)
	}
}

func (o Occurrence) child(i int, n *Node) Occurrence {
	return Occurrence{
		Node:   n,
		Parent: o.Node,
		Path:   append(slices.Clip(o.Path), i),
		Trail:  append(slices.Clip(o.Trail), n.Label()),
	}
}
