package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/sxview/sexp"
	"github.com/ardnew/sxview/tree"
)

// Fmt writes loaded documents to stdout in the chosen format.
type Fmt struct {
	Sexp    Sexp    `cmd:"" default:"withargs" help:"Format as canonical S-expressions (default)."`
	JSON    JSON    `cmd:""                    help:"Format converted trees as JSON."`
	YAML    YAML    `cmd:""                    help:"Format converted trees as YAML."`
	Outline Outline `cmd:""                    help:"Format converted trees as an indented outline."`
}

// Sexp re-serializes each parsed document.
type Sexp struct {
	Indent int `default:"0" help:"Indent width for nested lists; 0 writes one expression per line" short:"i"`

	Sources []string `arg:"" default:"-" help:"Source files, URLs, or '-' for stdin." name:"source"`
}

// Run executes the sexp command.
func (f *Sexp) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	s := sessionFrom(ctx)

	docs, err := s.parse(ctx, f.Sources)
	if err != nil {
		return err
	}

	for _, d := range docs {
		if err := writeSexp(s.Stdout, d.Exprs, f.Indent); err != nil {
			return ErrFormat.Wrap(err).
				With(slog.String("format", "sexp"), slog.String("source", d.Origin))
		}
	}

	return nil
}

func writeSexp(w io.Writer, xs []*sexp.Expr, indent int) error {
	if indent <= 0 {
		_, err := io.WriteString(w, sexp.RenderAll(xs))

		return err
	}

	for _, x := range xs {
		if _, err := io.WriteString(w, sexp.Indent(x, indent)+"\n"); err != nil {
			return err
		}
	}

	return nil
}

// JSON writes the converted trees of all documents as one JSON array.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Sources []string `arg:"" default:"-" help:"Source files, URLs, or '-' for stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	s := sessionFrom(ctx)

	docs, err := s.convert(ctx, j.Sources)
	if err != nil {
		return err
	}

	if err := tree.FormatJSON(ctx, s.Stdout, roots(docs), j.Indent); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", "json"))
	}

	return nil
}

// YAML writes the converted trees of all documents as one YAML sequence.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Sources []string `arg:"" default:"-" help:"Source files, URLs, or '-' for stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	s := sessionFrom(ctx)

	docs, err := s.convert(ctx, y.Sources)
	if err != nil {
		return err
	}

	if err := tree.FormatYAML(ctx, s.Stdout, roots(docs), y.Indent); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", "yaml"))
	}

	return nil
}

// Outline writes the converted trees as indented text.
type Outline struct {
	Depth int `default:"0" help:"Maximum depth to print; 0 prints everything" short:"d"`

	Sources []string `arg:"" default:"-" help:"Source files, URLs, or '-' for stdin." name:"source"`
}

// Run executes the outline command.
func (o *Outline) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	s := sessionFrom(ctx)

	docs, err := s.convert(ctx, o.Sources)
	if err != nil {
		return err
	}

	if err := tree.FormatOutline(ctx, s.Stdout, roots(docs), o.Depth); err != nil {
		return ErrFormat.Wrap(err).With(slog.String("format", "outline"))
	}

	return nil
}
