package tree

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ardnew/sxview/log"
	"github.com/ardnew/sxview/pkg"
	"github.com/ardnew/sxview/sexp"
)

// Structural errors. Every binding error satisfies errors.Is with
// [ErrBinding].
var (
	ErrBinding          = pkg.NewError("malformed binding form")
	ErrBindingsNotList  = pkg.NewError("bindings must be a list").Wrap(ErrBinding)
	ErrMalformedBinding = pkg.NewError("binding must be a (NAME VALUE) pair").Wrap(ErrBinding)
	ErrBindingName      = pkg.NewError("binding name must be an atom").Wrap(ErrBinding)
	ErrMaxDepthExceeded = pkg.NewError("maximum conversion depth exceeded")
)

// DefaultMaxDepth is the default limit on conversion recursion.
const DefaultMaxDepth = 4096

// bindingForms are the list heads that introduce bindings.
var bindingForms = []string{"let", "let-proof"}

// emptyListName names the node converted from an empty list.
const emptyListName = "()"

// Converter converts expressions into display trees, reading and updating
// its binding environment.
type Converter struct {
	env      *Env
	maxDepth int
	logger   log.Logger
}

// Option configures a [Converter].
type Option func(*Converter)

// WithMaxDepth limits conversion recursion.
// A non-positive depth restores [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(c *Converter) {
		if depth <= 0 {
			depth = DefaultMaxDepth
		}

		c.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
func WithLogger(logger log.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// NewConverter returns a converter bound to env.
// A nil env is replaced with a fresh [NewEnv].
func NewConverter(env *Env, opts ...Option) *Converter {
	if env == nil {
		env = NewEnv()
	}

	c := &Converter{env: env, maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

// Env returns the converter's binding environment.
func (c *Converter) Env() *Env { return c.env }

// Convert converts x into a display node.
func Convert(ctx context.Context, x *sexp.Expr, env *Env) (*Node, error) {
	return NewConverter(env).Convert(ctx, x)
}

// Convert converts x into a display node.
func (c *Converter) Convert(ctx context.Context, x *sexp.Expr) (*Node, error) {
	return c.convert(ctx, x, 0)
}

// ConvertAll converts each top-level expression of a document in order.
// If any expression fails, no roots are returned. Bindings installed before
// the failure remain in the environment.
func (c *Converter) ConvertAll(
	ctx context.Context,
	xs []*sexp.Expr,
) ([]*Node, error) {
	roots := make([]*Node, 0, len(xs))

	for i, x := range xs {
		n, err := c.convert(ctx, x, 0)
		if err != nil {
			return nil, pkg.WrapError(err).With(slog.Int("expression", i))
		}

		roots = append(roots, n)
	}

	c.logger.TraceContext(ctx, "document converted",
		slog.Int("root_count", len(roots)),
		slog.Int("binding_count", c.env.Len()))

	return roots, nil
}

func (c *Converter) convert(
	ctx context.Context,
	x *sexp.Expr,
	depth int,
) (*Node, error) {
	if depth > c.maxDepth {
		return nil, ErrMaxDepthExceeded.With(
			slog.Int("max_depth", c.maxDepth),
			slog.String("position", position(x)))
	}

	switch {
	case x.IsAtom():
		if n, ok := c.env.Lookup(x.Atom); ok {
			return n, nil
		}

		return Leaf(x.Atom), nil

	case x.IsList() && len(x.List) == 0:
		return Leaf(emptyListName), nil

	case x.IsList() && len(x.List) == 3 && x.List[0].IsAtomNamed(bindingForms...):
		return c.convertBinding(ctx, x, depth)

	case x.IsList():
		return c.convertList(ctx, x, depth)

	default:
		return &Node{}, nil
	}
}

// convertBinding handles (let ((NAME VALUE)...) BODY).
func (c *Converter) convertBinding(
	ctx context.Context,
	x *sexp.Expr,
	depth int,
) (*Node, error) {
	form, bindings, body := x.List[0].Atom, x.List[1], x.List[2]

	if !bindings.IsList() {
		return nil, ErrBindingsNotList.With(
			slog.String("form", form),
			slog.String("position", position(bindings)))
	}

	for i, b := range bindings.List {
		if !b.IsList() || len(b.List) != 2 {
			return nil, ErrMalformedBinding.With(
				slog.String("form", form),
				slog.Int("binding", i),
				slog.String("position", position(b)))
		}

		name := b.List[0]
		if !name.IsAtom() {
			return nil, ErrBindingName.With(
				slog.String("form", form),
				slog.Int("binding", i),
				slog.String("position", position(name)))
		}

		value, err := c.convert(ctx, b.List[1], depth+1)
		if err != nil {
			return nil, err
		}

		c.env.Bind(name.Atom, &Node{
			Name:     name.Atom,
			Named:    true,
			Children: []*Node{value},
			Shared:   true,
		})

		c.logger.TraceContext(ctx, "binding installed",
			slog.String("name", name.Atom),
			slog.String("form", form))
	}

	return c.convert(ctx, body, depth+1)
}

// convertList handles a general (HEAD REST...) list.
func (c *Converter) convertList(
	ctx context.Context,
	x *sexp.Expr,
	depth int,
) (*Node, error) {
	head, rest := x.List[0], x.List[1:]

	n := &Node{Name: plain(head), Named: true}

	for i := 0; i < len(rest); i++ {
		elem := rest[i]

		if elem.IsKeyword() && i+1 < len(rest) && !rest[i+1].IsKeyword() {
			children, err := c.expand(ctx, rest[i+1], depth+1)
			if err != nil {
				return nil, err
			}

			n.Children = append(n.Children, &Node{
				Name:     elem.Atom,
				Named:    true,
				Children: children,
				Spliced:  rest[i+1].IsList(),
			})

			i++

			continue
		}

		child, err := c.convert(ctx, elem, depth+1)
		if err != nil {
			return nil, err
		}

		n.Children = append(n.Children, child)
	}

	return n, nil
}

// expand returns the children of a keyword node: a fresh leaf for an atom
// value, or each element of a list value converted independently.
func (c *Converter) expand(
	ctx context.Context,
	value *sexp.Expr,
	depth int,
) ([]*Node, error) {
	if value.IsAtom() {
		return []*Node{Leaf(value.Atom)}, nil
	}

	if !value.IsList() {
		return nil, nil
	}

	children := make([]*Node, 0, value.Len())

	for _, elem := range value.List {
		child, err := c.convert(ctx, elem, depth)
		if err != nil {
			return nil, err
		}

		children = append(children, child)
	}

	return children, nil
}

// plain renders x with atoms written as themselves and lists as their
// space-separated elements in parentheses.
func plain(x *sexp.Expr) string {
	if x.IsAtom() {
		return x.Atom
	}

	var b strings.Builder

	writePlain(&b, x)

	return b.String()
}

func writePlain(b *strings.Builder, x *sexp.Expr) {
	if x.IsAtom() {
		b.WriteString(x.Atom)

		return
	}

	b.WriteByte('(')

	if x != nil {
		for i, elem := range x.List {
			if i > 0 {
				b.WriteByte(' ')
			}

			writePlain(b, elem)
		}
	}

	b.WriteByte(')')
}

// position returns the source position of x as "line:column".
func position(x *sexp.Expr) string {
	if x == nil {
		return ""
	}

	return x.Pos.String()
}
