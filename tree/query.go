package tree

import (
	"context"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/sxview/pkg"
)

// Query errors.
var (
	ErrQueryCompile  = pkg.NewError("query compilation failed")
	ErrQueryEvaluate = pkg.NewError("query evaluation failed")
)

// Candidate is the environment a query filter is evaluated against, once
// per occurrence.
type Candidate struct {
	Name     string `expr:"name"`
	Named    bool   `expr:"named"`
	Depth    int    `expr:"depth"`
	Children int    `expr:"children"`
	Leaf     bool   `expr:"leaf"`
	Keyword  bool   `expr:"keyword"`
	Shared   bool   `expr:"shared"`
	Repeat   bool   `expr:"repeat"`
	Path     string `expr:"path"`
}

// PathSeparator joins labels in [Candidate.Path].
const PathSeparator = "/"

// NewCandidate describes the occurrence o.
func NewCandidate(o Occurrence) Candidate {
	return Candidate{
		Name:     o.Node.Name,
		Named:    o.Node.Named,
		Depth:    o.Depth(),
		Children: len(o.Node.Children),
		Leaf:     o.Node.IsLeaf(),
		Keyword:  o.Node.IsKeyword(),
		Shared:   o.Node.Shared,
		Repeat:   o.Repeat,
		Path:     strings.Join(o.Trail, PathSeparator),
	}
}

// Query is a compiled expr-lang filter over node occurrences.
type Query struct {
	source  string
	program *vm.Program
}

// Compile compiles filter, a boolean expr-lang expression over the fields
// of [Candidate], for example `keyword && children > 1`.
func Compile(filter string) (*Query, error) {
	program, err := expr.Compile(filter, expr.Env(Candidate{}), expr.AsBool())
	if err != nil {
		return nil, ErrQueryCompile.Wrap(err).
			With(slog.String("filter", filter))
	}

	return &Query{source: filter, program: program}, nil
}

// String returns the filter source.
func (q *Query) String() string { return q.source }

// Match reports whether c satisfies the filter.
func (q *Query) Match(c Candidate) (bool, error) {
	out, err := expr.Run(q.program, c)
	if err != nil {
		return false, ErrQueryEvaluate.Wrap(err).
			With(slog.String("filter", q.source), slog.String("path", c.Path))
	}

	ok, _ := out.(bool)

	return ok, nil
}

// Select returns the occurrences reachable from roots that satisfy the
// filter, in depth-first pre-order. Occurrences are enumerated with
// [WalkOnce]: a shared node is tested at every occurrence, but its
// descendants only below the first. It stops early if ctx is canceled.
func (q *Query) Select(ctx context.Context, roots []*Node) ([]Occurrence, error) {
	var (
		matches []Occurrence
		err     error
	)

	WalkOnce(roots, func(o Occurrence) bool {
		if err != nil {
			return false
		}

		if err = ctx.Err(); err != nil {
			return false
		}

		var ok bool

		ok, err = q.Match(NewCandidate(o))
		if ok {
			matches = append(matches, o)
		}

		return err == nil
	})

	if err != nil {
		return nil, err
	}

	return matches, nil
}
