package tree

import "strings"

// Node is a converted display node.
//
// Named is false only for nodes with no meaningful label. Shared marks a
// binding wrapper that may be referenced from several parents. Spliced marks
// a keyword node whose children are the elements of a list value, which
// distinguishes :k (v) from :k v.
type Node struct {
	Name     string
	Named    bool
	Children []*Node
	Shared   bool
	Spliced  bool
}

// Leaf returns a fresh named node without children.
func Leaf(name string) *Node {
	return &Node{Name: name, Named: true}
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// IsKeyword reports whether n is named by a keyword atom.
func (n *Node) IsKeyword() bool {
	return n.Named && strings.HasPrefix(n.Name, ":")
}

// unnamedLabel is shown in place of the name of an unnamed node.
const unnamedLabel = "(unnamed)"

// Label returns the text used to display n.
func (n *Node) Label() string {
	if !n.Named {
		return unnamedLabel
	}

	return n.Name
}
