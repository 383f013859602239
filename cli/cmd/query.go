package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/sxview/tree"
)

// Query prints every node occurrence matching an expr-lang filter.
//
// Each match is written as "KEY: LABEL", where KEY is the dot-separated
// path of indexes from the root. With more than one document, lines are
// prefixed by the document origin. A shared subtree is searched only below
// its first occurrence.
type Query struct {
	Filter string `arg:"" help:"Boolean filter over name, named, depth, children, leaf, keyword, shared, repeat, path."`

	Sources []string `arg:"" default:"-" help:"Source files, URLs, or '-' for stdin." name:"source"`
}

// Run executes the query command.
func (q *Query) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	query, err := tree.Compile(q.Filter)
	if err != nil {
		return err
	}

	s := sessionFrom(ctx)

	docs, err := s.convert(ctx, q.Sources)
	if err != nil {
		return err
	}

	count := 0

	for _, d := range docs {
		found, err := query.Select(ctx, d.Roots)
		if err != nil {
			return ErrQuery.Wrap(err).With(slog.String("source", d.Origin))
		}

		for _, o := range found {
			prefix := ""
			if len(docs) > 1 {
				prefix = d.Origin + ":"
			}

			_, err := fmt.Fprintf(s.Stdout, "%s%s: %s\n", prefix, o.Key(), o.Node.Label())
			if err != nil {
				return ErrQuery.Wrap(err)
			}
		}

		count += len(found)
	}

	s.Logger.DebugContext(ctx, "query complete",
		slog.String("filter", query.String()),
		slog.Int("match_count", count))

	return nil
}
