package cmd

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sxview/log"
	"github.com/ardnew/sxview/sexp"
	"github.com/ardnew/sxview/source"
	"github.com/ardnew/sxview/tree"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar returns the kong variable named id, if a kong context is stored in
// ctx and defines it.
func kongVar(ctx context.Context, id string) (string, bool) {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "", false
	}

	v, ok := ktx.Model.Vars()[id]

	return v, ok
}

type sessionKey struct{}

// Session holds the settings shared by every command that reads documents.
// Zero fields fall back to the process defaults.
type Session struct {
	// SearchPath lists directories searched for relative sources.
	SearchPath []string
	// SharedBindings converts all documents against one environment, so a
	// name bound in an earlier document resolves in a later one. Otherwise
	// each document gets a fresh environment.
	SharedBindings bool

	Stdin  io.Reader
	Stdout io.Writer
	Client *http.Client
	Logger log.Logger
}

// WithSession returns a new context.Context containing s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// sessionFrom retrieves the session stored in ctx by WithSession, with
// defaults filled in.
func sessionFrom(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)

	if s.Stdin == nil {
		s.Stdin = os.Stdin
	}

	if s.Stdout == nil {
		s.Stdout = os.Stdout
	}

	if s.Logger.Logger == nil {
		s.Logger = log.Default()
	}

	return s
}

// Document is one loaded source.
type Document struct {
	Origin string
	Exprs  []*sexp.Expr
	Roots  []*tree.Node // nil until converted
}

func (s Session) loader() *source.Loader {
	return source.NewLoader(
		source.WithSearchPath(s.SearchPath...),
		source.WithStdin(s.Stdin),
		source.WithClient(s.Client),
		source.WithLogger(s.Logger),
	)
}

// parse loads and parses each location. No locations means standard input.
func (s Session) parse(ctx context.Context, locations []string) ([]Document, error) {
	if len(locations) == 0 {
		locations = []string{source.Stdin}
	}

	texts, err := s.loader().LoadAll(ctx, locations)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(texts))

	for _, t := range texts {
		exprs, err := sexp.ParseReader(ctx,
			strings.NewReader(t.Body),
			sexp.WithLogger(s.Logger),
		)
		if err != nil {
			return nil, ErrParse.Wrap(err).With(slog.String("source", t.Origin))
		}

		docs = append(docs, Document{Origin: t.Origin, Exprs: exprs})
	}

	return docs, nil
}

// convert loads, parses and converts each location.
func (s Session) convert(ctx context.Context, locations []string) ([]Document, error) {
	docs, err := s.parse(ctx, locations)
	if err != nil {
		return nil, err
	}

	env := tree.NewEnv()

	for i := range docs {
		if !s.SharedBindings && i > 0 {
			env = tree.NewEnv()
		}

		conv := tree.NewConverter(env, tree.WithLogger(s.Logger))

		docs[i].Roots, err = conv.ConvertAll(ctx, docs[i].Exprs)
		if err != nil {
			return nil, ErrConvert.Wrap(err).
				With(slog.String("source", docs[i].Origin))
		}

		s.Logger.DebugContext(ctx, "document loaded",
			slog.String("source", docs[i].Origin),
			slog.Int("root_count", len(docs[i].Roots)),
			slog.Bool("shared_bindings", s.SharedBindings))
	}

	return docs, nil
}

// roots concatenates the roots of every document.
func roots(docs []Document) []*tree.Node {
	var all []*tree.Node

	for _, d := range docs {
		all = append(all, d.Roots...)
	}

	return all
}
