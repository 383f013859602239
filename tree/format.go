package tree

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// ToNative converts n to plain Go values suitable for encoding.
//
// A leaf becomes its name. A named node with children becomes a single-key
// map from its name to the list of its converted children. An unnamed node
// becomes the list of its converted children.
//
// A shared node converts to the same value at every occurrence, so the
// result is built in time linear in the size of the graph. Encoding it
// with an encoder that does not track references still expands every
// occurrence; see [Compact].
func ToNative(n *Node) any {
	return native{memo: make(map[*Node]any)}.value(n)
}

// ToNativeAll converts each root with [ToNative].
func ToNativeAll(roots []*Node) []any {
	c := native{memo: make(map[*Node]any)}

	out := make([]any, len(roots))
	for i, root := range roots {
		out[i] = c.value(root)
	}

	return out
}

// Compact converts roots like [ToNativeAll], except that each shared node
// is converted in full only at its first occurrence in depth-first
// pre-order. Every later occurrence becomes the string formed by its label
// followed by a space and [SharedMarker].
func Compact(roots []*Node) []any {
	c := native{seen: make(map[*Node]bool)}

	out := make([]any, len(roots))
	for i, root := range roots {
		out[i] = c.value(root)
	}

	return out
}

// native converts nodes, either memoizing shared nodes (memo) or
// replacing their repeated occurrences with a reference (seen).
type native struct {
	memo map[*Node]any
	seen map[*Node]bool
}

func (c native) value(n *Node) any {
	if n.Shared {
		if c.seen != nil {
			if c.seen[n] {
				return n.Label() + " " + SharedMarker
			}

			c.seen[n] = true
		}

		if v, ok := c.memo[n]; ok {
			return v
		}
	}

	v := c.convert(n)

	if n.Shared && c.memo != nil {
		c.memo[n] = v
	}

	return v
}

func (c native) convert(n *Node) any {
	if n.Named && n.IsLeaf() {
		return n.Name
	}

	children := make([]any, len(n.Children))
	for i, child := range n.Children {
		children[i] = c.value(child)
	}

	if !n.Named {
		return children
	}

	return map[string]any{n.Name: children}
}

// FormatJSON writes roots as a JSON array to the writer. Shared subtrees
// are written once, as described for [Compact].
func FormatJSON(_ context.Context, w io.Writer, roots []*Node, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(
			Compact(roots), "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(Compact(roots))
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes roots as a YAML sequence to the writer.
// A positive indent selects block style; otherwise flow style is used.
// Shared subtrees are written once, as described for [Compact].
func FormatYAML(ctx context.Context, w io.Writer, roots []*Node, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, Compact(roots), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// Markers used by [FormatOutline].
const (
	SharedMarker    = "↺"
	TruncatedMarker = "…"
)

// FormatOutline writes roots as an indented text tree, one occurrence per
// line with two spaces of indentation per level. Shared nodes are followed
// by [SharedMarker], and their children are written only under the first
// occurrence that shows them. If maxDepth is positive, occurrences deeper
// than maxDepth are omitted and their parents are followed by
// [TruncatedMarker].
func FormatOutline(
	_ context.Context,
	w io.Writer,
	roots []*Node,
	maxDepth int,
) error {
	var err error

	WalkOnce(roots, func(o Occurrence) bool {
		if err != nil {
			return false
		}

		descend := maxDepth <= 0 || o.Depth() < maxDepth

		var b strings.Builder

		b.WriteString(strings.Repeat("  ", o.Depth()))
		b.WriteString(o.Node.Label())

		if o.Node.Shared {
			b.WriteString(" " + SharedMarker)
		}

		if !descend && !o.Repeat && !o.Node.IsLeaf() {
			b.WriteString(" " + TruncatedMarker)
		}

		_, err = fmt.Fprintln(w, b.String())

		return descend
	})

	return err
}
