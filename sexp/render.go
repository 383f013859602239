package sexp

import "strings"

// Render returns the canonical text form of x.
//
// Lists are written with single spaces between elements. An atom is written
// bare unless it is empty, contains whitespace or a parenthesis, or begins
// with '"', '|' or ';'. Such an atom is written between vertical bars, or
// as an escaped string when it contains a vertical bar itself.
func Render(x *Expr) string {
	var b strings.Builder

	render(&b, x)

	return b.String()
}

// RenderAll renders each expression on its own line.
func RenderAll(xs []*Expr) string {
	var b strings.Builder

	for _, x := range xs {
		render(&b, x)
		b.WriteByte('\n')
	}

	return b.String()
}

// Indent renders x across multiple lines. A list containing another list
// is broken after its first element, and every following element starts
// its own line indented by width spaces per level of nesting. Lists holding
// only atoms stay on one line.
func Indent(x *Expr, width int) string {
	var b strings.Builder

	indent(&b, x, strings.Repeat(" ", max(width, 0)), 0)

	return b.String()
}

func render(b *strings.Builder, x *Expr) {
	if x.IsAtom() {
		b.WriteString(QuoteAtom(x.Atom))

		return
	}

	b.WriteByte('(')

	if x != nil {
		for i, elem := range x.List {
			if i > 0 {
				b.WriteByte(' ')
			}

			render(b, elem)
		}
	}

	b.WriteByte(')')
}

func indent(b *strings.Builder, x *Expr, unit string, level int) {
	if !x.IsList() || len(x.List) == 0 || flat(x) {
		render(b, x)

		return
	}

	b.WriteByte('(')
	indent(b, x.List[0], unit, level+1)

	for _, elem := range x.List[1:] {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat(unit, level+1))
		indent(b, elem, unit, level+1)
	}

	b.WriteByte(')')
}

// flat reports whether every element of list x is an atom.
func flat(x *Expr) bool {
	for _, elem := range x.List {
		if !elem.IsAtom() {
			return false
		}
	}

	return true
}

// QuoteAtom returns s spelled so that it parses back as the same atom.
func QuoteAtom(s string) string {
	if !needsQuote(s) {
		return s
	}

	if !strings.Contains(s, "|") {
		return "|" + s + "|"
	}

	return quoteString(s)
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}

	switch s[0] {
	case '"', '|', ';':
		return true
	}

	return strings.ContainsAny(s, " \t\n\r()")
}

var stringEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\t", `\t`,
	"\r", `\r`,
)

func quoteString(s string) string {
	return `"` + stringEscaper.Replace(s) + `"`
}
