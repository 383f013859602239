package tree

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/sxview/sexp"
)

func parse(t *testing.T, s string) *sexp.Expr {
	t.Helper()

	x, err := sexp.ParseOne(context.Background(), s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}

	return x
}

func convert(t *testing.T, s string, env *Env) *Node {
	t.Helper()

	n, err := Convert(context.Background(), parse(t, s), env)
	if err != nil {
		t.Fatalf("convert %q: %v", s, err)
	}

	return n
}

// shape renders a node as its labels in nested parentheses, e.g. "f(x(1))".
func shape(n *Node) string {
	s := n.Label()
	if n.IsLeaf() {
		return s
	}

	s += "("

	for i, child := range n.Children {
		if i > 0 {
			s += " "
		}

		s += shape(child)
	}

	return s + ")"
}

func TestConvert_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"atom", "a", "a"},
		{"empty list", "()", "()"},
		{"flat list", "(f a b)", "f(a b)"},
		{"nested list", "(f (g x) ())", "f(g(x) ())"},
		{"list head", "((g x) y)", "(g x)(y)"},
		{"nested list head", "(((a) b ()) y)", "((a) b ())(y)"},
		{"keyword with atom", "(f :key v)", "f(:key(v))"},
		{"keyword with list", "(f :other (a b))", "f(:other(a b))"},
		{"keyword with empty list", "(f :k ())", "f(:k)"},
		{"keyword followed by keyword", "(f :a :b v)", "f(:a :b(v))"},
		{"trailing keyword", "(f x :k)", "f(x :k)"},
		{"keyword head", "(:k v)", ":k(v)"},
		{"keyword value list elements converted", "(f :k ((g x) ()))", "f(:k(g(x) ()))"},
		{"let with two elements is a list", "(let x)", "let(x)"},
		{"let with four elements is a list", "(let () a b)", "let(() a b)"},
		{"binding body", "(let ((x 1)) (f x))", "f(x(1))"},
		{"let-proof", "(let-proof ((p (impl a b))) (qed p))", "qed(p(impl(a b)))"},
		{"empty bindings", "(let () body)", "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shape(convert(t, tt.input, NewEnv())); got != tt.want {
				t.Errorf("convert(%s) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestConvert_KeywordPairs(t *testing.T) {
	n := convert(t, "(f :key v :other (a b))", NewEnv())

	if n.Name != "f" || len(n.Children) != 2 {
		t.Fatalf("got %s", shape(n))
	}

	key, other := n.Children[0], n.Children[1]

	if key.Name != ":key" || len(key.Children) != 1 || key.Children[0].Name != "v" {
		t.Errorf("first child = %s", shape(key))
	}

	if other.Name != ":other" || len(other.Children) != 2 ||
		other.Children[0].Name != "a" || other.Children[1].Name != "b" {
		t.Errorf("second child = %s", shape(other))
	}

	if key.Shared || other.Shared {
		t.Error("keyword nodes must not be shared")
	}

	if key.Spliced || !other.Spliced {
		t.Errorf("Spliced = %v, %v, want false, true", key.Spliced, other.Spliced)
	}
}

func TestConvert_KeywordValueKind(t *testing.T) {
	n := convert(t, "(f :one (v) :none () :atom v)", NewEnv())

	tests := []struct {
		child    int
		name     string
		children int
		spliced  bool
	}{
		{0, ":one", 1, true},
		{1, ":none", 0, true},
		{2, ":atom", 1, false},
	}

	for _, tt := range tests {
		got := n.Children[tt.child]
		if got.Name != tt.name || len(got.Children) != tt.children ||
			got.Spliced != tt.spliced {
			t.Errorf("child %d = %s (spliced %v), want %s with %d children (spliced %v)",
				tt.child, shape(got), got.Spliced, tt.name, tt.children, tt.spliced)
		}
	}
}

func TestConvert_EmptyList(t *testing.T) {
	a := convert(t, "()", NewEnv())
	b := convert(t, "()", NewEnv())

	if a.Name != "()" || !a.Named || !a.IsLeaf() {
		t.Errorf("empty list converted to %+v", a)
	}

	if a == b {
		t.Error("empty lists must convert to fresh nodes")
	}
}

func TestConvert_BindingShares(t *testing.T) {
	env := NewEnv()
	n := convert(t, "(let ((x 1)) (f x x))", env)

	if n.Name != "f" || len(n.Children) != 2 {
		t.Fatalf("got %s", shape(n))
	}

	first, second := n.Children[0], n.Children[1]
	if first != second {
		t.Fatal("both references to x must be the same node")
	}

	if first.Name != "x" || !first.Shared || len(first.Children) != 1 ||
		first.Children[0].Name != "1" || !first.Children[0].IsLeaf() {
		t.Errorf("binding wrapper = %+v", first)
	}

	if bound, ok := env.Lookup("x"); !ok || bound != first {
		t.Error("environment does not hold the wrapper")
	}
}

func TestConvert_BindingsInOrder(t *testing.T) {
	env := NewEnv()
	n := convert(t, "(let ((x 1) (y (g x)) (x 2)) (f x y))", env)

	x2, y := n.Children[0], n.Children[1]

	if shape(x2) != "x(2)" {
		t.Errorf("later binding must shadow earlier: got %s", shape(x2))
	}

	if shape(y) != "y(g(x(1)))" {
		t.Errorf("y must keep the earlier x: got %s", shape(y))
	}
}

func TestConvert_SessionEnvironment(t *testing.T) {
	env := NewEnv()

	first := convert(t, "(let ((x 1)) (f x))", env)
	second := convert(t, "(g x)", env)

	if second.Children[0] != first.Children[0] {
		t.Error("a shared environment must resolve names across documents")
	}

	third := convert(t, "(g x)", NewEnv())
	if third.Children[0].Shared || !third.Children[0].IsLeaf() {
		t.Error("a fresh environment must not see earlier bindings")
	}

	ResetEnv(env)

	if env.Len() != 0 {
		t.Errorf("ResetEnv left %d bindings", env.Len())
	}

	if n := convert(t, "(g x)", env); n.Children[0].Shared {
		t.Error("bindings survived ResetEnv")
	}
}

func TestConvert_RebindingKeepsEmbeddedIdentity(t *testing.T) {
	env := NewEnv()

	old := convert(t, "(let ((x 1)) x)", env)
	convert(t, "(let ((x 2)) x)", env)

	if shape(old) != "x(1)" {
		t.Errorf("existing tree changed after rebinding: %s", shape(old))
	}

	now, _ := env.Lookup("x")
	if now == old || shape(now) != "x(2)" {
		t.Errorf("lookup after rebinding = %s", shape(now))
	}
}

func TestConvert_KeywordAtomValueIsFresh(t *testing.T) {
	env := NewEnv()
	n := convert(t, "(let ((v 1)) (f :key v v))", env)

	key, ref := n.Children[0], n.Children[1]

	if key.Children[0].Shared || !key.Children[0].IsLeaf() {
		t.Errorf("keyword atom value must be a fresh leaf, got %s", shape(key))
	}

	if !ref.Shared {
		t.Errorf("plain reference must resolve the binding, got %s", shape(ref))
	}
}

func TestConvert_BindingErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"bindings not a list", "(let x body)", ErrBindingsNotList},
		{"binding not a list", "(let (x) body)", ErrMalformedBinding},
		{"binding too short", "(let ((x)) body)", ErrMalformedBinding},
		{"binding too long", "(let ((x 1 2)) body)", ErrMalformedBinding},
		{"binding name not an atom", "(let (((x) 1)) body)", ErrBindingName},
		{"nested error", "(f (let-proof x y) z)", ErrBindingsNotList},
		{"error in binding value", "(let ((x (let y z))) x)", ErrBindingsNotList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(context.Background(), parse(t, tt.input), NewEnv())
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}

			if !errors.Is(err, ErrBinding) {
				t.Errorf("error %v does not satisfy ErrBinding", err)
			}
		})
	}
}

func TestConverter_ConvertAll(t *testing.T) {
	xs, err := sexp.ParseAll(context.Background(), "(let ((x 1)) x) (f x)")
	if err != nil {
		t.Fatal(err)
	}

	c := NewConverter(NewEnv())

	roots, err := c.ConvertAll(context.Background(), xs)
	if err != nil {
		t.Fatal(err)
	}

	if len(roots) != 2 || roots[1].Children[0] != roots[0] {
		t.Error("later roots must share bindings made by earlier roots")
	}

	if !slices.Equal(slices.Collect(c.Env().Names()), []string{"x"}) {
		t.Errorf("names = %v", slices.Collect(c.Env().Names()))
	}
}

func TestConverter_ConvertAll_AllOrNothing(t *testing.T) {
	xs, err := sexp.ParseAll(context.Background(), "(a) (let x y) (b)")
	if err != nil {
		t.Fatal(err)
	}

	roots, err := NewConverter(nil).ConvertAll(context.Background(), xs)
	if !errors.Is(err, ErrBindingsNotList) {
		t.Fatalf("error = %v", err)
	}

	if roots != nil {
		t.Errorf("expected no roots, got %d", len(roots))
	}
}

func TestConverter_MaxDepth(t *testing.T) {
	x := parse(t, "(a (b (c (d))))")

	if _, err := NewConverter(nil, WithMaxDepth(3)).Convert(context.Background(), x); err != nil {
		t.Fatalf("depth 3 within limit: %v", err)
	}

	_, err := NewConverter(nil, WithMaxDepth(2)).Convert(context.Background(), x)
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("error = %v, want ErrMaxDepthExceeded", err)
	}
}

func TestConvert_Fallback(t *testing.T) {
	n, err := Convert(context.Background(), nil, NewEnv())
	if err != nil {
		t.Fatal(err)
	}

	if n.Named || !n.IsLeaf() || n.Label() != unnamedLabel {
		t.Errorf("fallback node = %+v", n)
	}
}
