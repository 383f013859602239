package sexp

import (
	"slices"
	"strconv"
	"strings"
)

// Kind identifies the variant held by an [Expr].
type Kind uint8

const (
	KindAtom Kind = iota // atom
	KindList             // list
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindList:
		return "list"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Position identifies a location in the parsed input.
// Offset is a zero-based byte offset; Line and Column are one-based, with
// columns counted in runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Expr is a symbolic expression: either an atom or a list of expressions.
//
// Atom is meaningful only when Kind is [KindAtom], and List only when Kind
// is [KindList]. Pos records where the expression began in its source and
// is ignored by [Equal].
type Expr struct {
	Kind Kind
	Atom string
	List []*Expr
	Pos  Position
}

// NewAtom returns an atom expression.
func NewAtom(s string) *Expr {
	return &Expr{Kind: KindAtom, Atom: s}
}

// NewList returns a list expression holding elems.
func NewList(elems ...*Expr) *Expr {
	if elems == nil {
		elems = []*Expr{}
	}

	return &Expr{Kind: KindList, List: elems}
}

// IsAtom reports whether x is an atom.
func (x *Expr) IsAtom() bool { return x != nil && x.Kind == KindAtom }

// IsList reports whether x is a list.
func (x *Expr) IsList() bool { return x != nil && x.Kind == KindList }

// IsKeyword reports whether x is an atom beginning with ':'.
func (x *Expr) IsKeyword() bool {
	return x.IsAtom() && strings.HasPrefix(x.Atom, ":")
}

// IsAtomNamed reports whether x is an atom equal to one of names.
func (x *Expr) IsAtomNamed(names ...string) bool {
	return x.IsAtom() && slices.Contains(names, x.Atom)
}

// Len returns the number of elements in a list, or zero for an atom.
func (x *Expr) Len() int {
	if !x.IsList() {
		return 0
	}

	return len(x.List)
}

// String returns the canonical rendering of x. See [Render].
func (x *Expr) String() string { return Render(x) }

// Equal reports whether a and b are structurally equal.
// Source positions are ignored, and a nil list equals an empty one.
func Equal(a, b *Expr) bool {
	if a == nil || b == nil {
		return a == b
	}

	if a.Kind != b.Kind {
		return false
	}

	if a.Kind == KindAtom {
		return a.Atom == b.Atom
	}

	return slices.EqualFunc(a.List, b.List, Equal)
}
