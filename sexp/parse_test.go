package sexp

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func atom(s string) *Expr { return NewAtom(s) }

func list(elems ...*Expr) *Expr { return NewList(elems...) }

func TestParseOne(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *Expr
	}{
		{
			name:  "flat list",
			input: "(a b c)",
			want:  list(atom("a"), atom("b"), atom("c")),
		},
		{
			name:  "quoted atom keeps interior whitespace",
			input: "|a b|",
			want:  atom("a b"),
		},
		{
			name:  "string escape newline",
			input: `"a\nb"`,
			want:  atom("a\nb"),
		},
		{
			name:  "string escapes",
			input: `"\t\r\\\""`,
			want:  atom("\t\r\\\""),
		},
		{
			name:  "unknown escape keeps character",
			input: `"\q\("`,
			want:  atom("q("),
		},
		{
			name:  "quoted atom has no escapes",
			input: `|a\nb|`,
			want:  atom(`a\nb`),
		},
		{
			name:  "empty list",
			input: "()",
			want:  list(),
		},
		{
			name:  "empty string",
			input: `""`,
			want:  atom(""),
		},
		{
			name:  "empty quoted atom",
			input: "||",
			want:  atom(""),
		},
		{
			name:  "unquoted atom may hold quote bar and semicolon",
			input: `a"b|c;d`,
			want:  atom(`a"b|c;d`),
		},
		{
			name:  "nested lists",
			input: "(f (g x) ())",
			want:  list(atom("f"), list(atom("g"), atom("x")), list()),
		},
		{
			name:  "string adjacent to atom",
			input: `(a"b" "c"d)`,
			want:  list(atom(`a"b"`), atom("c"), atom("d")),
		},
		{
			name:  "surrounding whitespace and comments",
			input: " ; leading\n\t(x ; inner\r\n y)\n; trailing",
			want:  list(atom("x"), atom("y")),
		},
		{
			name:  "multibyte characters",
			input: "(λ |→ x| \"ü\")",
			want:  list(atom("λ"), atom("→ x"), atom("ü")),
		},
		{
			name:  "keyword",
			input: "(f :key v)",
			want:  list(atom("f"), atom(":key"), atom("v")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOne(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ParseOne(%q) error: %v", tt.input, err)
			}

			if !Equal(got, tt.want) {
				t.Errorf("ParseOne(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseOne_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   error
		offset int
	}{
		{"empty input", "", ErrUnexpectedEOF, 0},
		{"only comment", "  ; nothing\n", ErrUnexpectedEOF, 12},
		{"unclosed list", "(a (b c)", ErrUnclosedList, 0},
		{"unclosed nested list", "(a (b c", ErrUnclosedList, 3},
		{"unclosed string", `(a "bc`, ErrUnclosedString, 3},
		{"unclosed string after escape", `"abc\`, ErrUnclosedString, 0},
		{"unclosed quoted atom", "(|ab", ErrUnclosedQuotedAtom, 1},
		{"lone close paren", ")", ErrUnexpectedClose, 0},
		{"trailing expression", "(a) b", ErrTrailingInput, 4},
		{"trailing close paren", "(a))", ErrTrailingInput, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOne(context.Background(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseOne(%q) error = %v, want %v", tt.input, err, tt.want)
			}

			pos, ok := PositionOf(err)
			if !ok {
				t.Fatalf("error %v carries no position", err)
			}

			if pos.Offset != tt.offset {
				t.Errorf("offset = %d, want %d", pos.Offset, tt.offset)
			}
		})
	}
}

func TestParseOne_ErrorPosition(t *testing.T) {
	_, err := ParseOne(context.Background(), "(a\n  b\n  \"c)")
	if !errors.Is(err, ErrUnclosedString) {
		t.Fatalf("unexpected error: %v", err)
	}

	pos, _ := PositionOf(err)
	if pos.Line != 3 || pos.Column != 3 || pos.Offset != 9 {
		t.Errorf("position = %+v, want line 3 column 3 offset 9", pos)
	}

	if !strings.Contains(err.Error(), "line 3, column 3") {
		t.Errorf("message %q lacks position", err.Error())
	}
}

func TestParseAll(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []*Expr
	}{
		{
			name:  "comment between expressions",
			input: "(a) ; comment\n(b)",
			want:  []*Expr{list(atom("a")), list(atom("b"))},
		},
		{
			name:  "empty input",
			input: "",
			want:  []*Expr{},
		},
		{
			name:  "whitespace and comments only",
			input: " \n; one\n;two",
			want:  []*Expr{},
		},
		{
			name:  "mixed top-level forms",
			input: `a "b c" |d| (e)`,
			want:  []*Expr{atom("a"), atom("b c"), atom("d"), list(atom("e"))},
		},
		{
			name:  "trailing unclosed list is discarded",
			input: "(a) (b",
			want:  []*Expr{list(atom("a"))},
		},
		{
			name:  "trailing unclosed string is discarded",
			input: "(a)\n\"open ; not a comment\n",
			want:  []*Expr{list(atom("a"))},
		},
		{
			name:  "trailing unclosed quoted atom is discarded",
			input: "x |y",
			want:  []*Expr{atom("x")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAll(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ParseAll(%q) error: %v", tt.input, err)
			}

			if len(got) != len(tt.want) {
				t.Fatalf("ParseAll(%q) = %d expressions, want %d",
					tt.input, len(got), len(tt.want))
			}

			for i := range got {
				if !Equal(got[i], tt.want[i]) {
					t.Errorf("expression %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseAll_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"close paren followed by content", "(a) ) (b)", ErrUnexpectedClose},
		{"lone trailing close paren", "(a) )", ErrUnexpectedClose},
		{"close paren at start", ")(a)", ErrUnexpectedClose},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAll(context.Background(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ParseAll(%q) error = %v, want %v", tt.input, err, tt.want)
			}

			if got != nil {
				t.Errorf("expected no expressions on error, got %d", len(got))
			}
		})
	}
}

func TestParse_MaxDepth(t *testing.T) {
	deep := strings.Repeat("(", 5) + "x" + strings.Repeat(")", 5)

	if _, err := ParseOne(context.Background(), deep, WithMaxDepth(5)); err != nil {
		t.Fatalf("depth 5 within limit 5: %v", err)
	}

	_, err := ParseOne(context.Background(), deep, WithMaxDepth(4))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("expected ErrMaxDepthExceeded, got %v", err)
	}

	_, err = ParseAll(context.Background(), deep+" y", WithMaxDepth(4))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Fatalf("ParseAll: expected ErrMaxDepthExceeded, got %v", err)
	}
}

func TestParse_DefaultMaxDepthAllowsDeepNesting(t *testing.T) {
	n := DefaultMaxDepth
	deep := strings.Repeat("(", n) + strings.Repeat(")", n)

	x, err := ParseOne(context.Background(), deep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	depth := 0
	for x.IsList() && len(x.List) > 0 {
		x = x.List[0]
		depth++
	}

	if depth != n-1 {
		t.Errorf("depth = %d, want %d", depth, n-1)
	}

	_, err = ParseOne(context.Background(), "("+deep+")")
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("expected ErrMaxDepthExceeded past the default, got %v", err)
	}
}

func TestParse_RecordsPositions(t *testing.T) {
	x, err := ParseOne(context.Background(), "(a\n  (b c))")
	if err != nil {
		t.Fatal(err)
	}

	inner := x.List[1]
	if inner.Pos != (Position{Offset: 5, Line: 2, Column: 3}) {
		t.Errorf("inner list position = %+v", inner.Pos)
	}

	if c := inner.List[1]; c.Pos.Column != 6 || c.Pos.Line != 2 {
		t.Errorf("atom c position = %+v", c.Pos)
	}
}
