package sexp

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/ardnew/sxview/pkg"
)

// Lexical and syntax errors.
var (
	ErrUnclosedList       = pkg.NewError("unclosed list")
	ErrUnclosedString     = pkg.NewError("unclosed string")
	ErrUnclosedQuotedAtom = pkg.NewError("unclosed quoted atom")
	ErrUnexpectedClose    = pkg.NewError("unexpected close paren")
	ErrUnexpectedEOF      = pkg.NewError("unexpected end of input")
	ErrTrailingInput      = pkg.NewError("unexpected input after expression")
	ErrMaxDepthExceeded   = pkg.NewError("maximum nesting depth exceeded")
	ErrReadInput          = pkg.NewError("failed to read input")
)

// located is the cause attached to positioned errors.
type located struct{ pos Position }

func (l located) Error() string {
	return "line " + strconv.Itoa(l.pos.Line) +
		", column " + strconv.Itoa(l.pos.Column) +
		" (offset " + strconv.Itoa(l.pos.Offset) + ")"
}

// errorAt specializes a sentinel with the location it was detected at.
func errorAt(sentinel *pkg.Error, pos Position) *pkg.Error {
	return sentinel.Wrap(located{pos}).With(
		slog.Int("offset", pos.Offset),
		slog.Int("line", pos.Line),
		slog.Int("column", pos.Column),
	)
}

// PositionOf returns the input position recorded in err, if any.
func PositionOf(err error) (Position, bool) {
	var l located
	if errors.As(err, &l) {
		return l.pos, true
	}

	return Position{}, false
}
