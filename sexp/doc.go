// Package sexp parses textual S-expressions into [Expr] values.
//
// # Grammar
//
// The lexical rules are deliberately small:
//
//	whitespace   space, tab, newline, carriage return
//	comment      ';' through end of line, treated as whitespace
//	list         '(' expr* ')'
//	string       '"' ... '"' with escapes \n \t \r \\ \"
//	quoted atom  '|' ... '|' taken verbatim
//	atom         maximal run of characters other than whitespace, '(' and ')'
//
// Any other escaped character in a string stands for itself; the backslash
// is dropped. A string and a quoted atom both produce an atom [Expr]: once
// parsed, an atom is an opaque string and carries no memory of how it was
// spelled.
//
// # Parsing
//
// [ParseOne] requires the input to hold exactly one expression. [ParseAll]
// returns every top-level expression and tolerates a malformed fragment at
// the very end of the input, provided nothing but whitespace and comments
// follows the point where parsing failed. [ParseReader] reads its input
// through a read-ahead buffer and caches results by content hash.
//
// Every lexical failure is a [pkg.Error] that satisfies [errors.Is] with one
// of the sentinel errors declared in this package and carries the byte
// offset, line, and column where it was detected. Use [PositionOf] to
// recover the location.
//
// # Rendering
//
// [Render] produces a canonical text form that parses back to a
// structurally equal value (see [Equal]). Atoms that would not survive as
// bare tokens are written as |quoted atoms|, or as "strings" when they
// contain a vertical bar.
package sexp
