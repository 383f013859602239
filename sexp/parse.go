package sexp

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// ParseOne parses exactly one expression from s.
// Anything other than whitespace and comments after the expression fails
// with [ErrTrailingInput].
func ParseOne(ctx context.Context, s string, opts ...Option) (*Expr, error) {
	p := newParser(s, opts...)

	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	p.skipWhitespaceAndComments()

	if !p.eof() {
		return nil, errorAt(ErrTrailingInput, p.position())
	}

	p.opts.logger.TraceContext(ctx, "parse complete",
		slog.Int("source_bytes", len(s)),
		slog.String("kind", x.Kind.String()))

	return x, nil
}

// ParseAll parses every top-level expression in s.
//
// If an expression fails to parse and only whitespace and comments remain
// after the point of failure, the failure is discarded and the expressions
// parsed so far are returned. Otherwise the error is returned.
func ParseAll(ctx context.Context, s string, opts ...Option) ([]*Expr, error) {
	p := newParser(s, opts...)

	exprs := make([]*Expr, 0)

	for {
		p.skipWhitespaceAndComments()

		if p.eof() {
			break
		}

		x, err := p.parseExpr()
		if err != nil {
			p.skipWhitespaceAndComments()

			if !p.eof() {
				return nil, err
			}

			p.opts.logger.DebugContext(ctx, "discarded trailing fragment",
				slog.Any("error", err))

			break
		}

		exprs = append(exprs, x)
	}

	p.opts.logger.TraceContext(ctx, "parse complete",
		slog.Int("source_bytes", len(s)),
		slog.Int("expression_count", len(exprs)))

	return exprs, nil
}

// parser holds the parser state.
type parser struct {
	input []byte
	pos   int
	line  int
	col   int
	depth int
	opts  options
}

func newParser(s string, opts ...Option) *parser {
	return &parser{
		input: []byte(s),
		line:  1,
		col:   1,
		opts:  makeOptions(opts...),
	}
}

// parseExpr parses the expression beginning at the next significant
// character.
func (p *parser) parseExpr() (*Expr, error) {
	p.skipWhitespaceAndComments()

	pos := p.position()

	if p.eof() {
		return nil, errorAt(ErrUnexpectedEOF, pos)
	}

	switch p.peekByte() {
	case '(':
		return p.parseList()

	case ')':
		return nil, errorAt(ErrUnexpectedClose, pos)

	case '"':
		return p.parseString()

	case '|':
		return p.parseQuotedAtom()

	default:
		return p.parseAtom(), nil
	}
}

// parseList parses: '(' Expr* ')'.
func (p *parser) parseList() (*Expr, error) {
	pos := p.position()

	if p.depth >= p.opts.maxDepth {
		return nil, errorAt(ErrMaxDepthExceeded, pos).
			With(slog.Int("max_depth", p.opts.maxDepth))
	}

	p.depth++
	defer func() { p.depth-- }()

	p.advance() // '('

	x := &Expr{Kind: KindList, List: []*Expr{}, Pos: pos}

	for {
		p.skipWhitespaceAndComments()

		if p.eof() {
			return nil, errorAt(ErrUnclosedList, pos)
		}

		if p.peekByte() == ')' {
			p.advance()

			return x, nil
		}

		elem, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		x.List = append(x.List, elem)
	}
}

// parseString parses a double-quoted string with backslash escapes.
func (p *parser) parseString() (*Expr, error) {
	pos := p.position()

	p.advance() // '"'

	var b strings.Builder

	for {
		if p.eof() {
			return nil, errorAt(ErrUnclosedString, pos)
		}

		switch p.peekByte() {
		case '"':
			p.advance()

			return &Expr{Kind: KindAtom, Atom: b.String(), Pos: pos}, nil

		case '\\':
			p.advance()

			if p.eof() {
				return nil, errorAt(ErrUnclosedString, pos)
			}

			switch p.peekByte() {
			case 'n':
				b.WriteByte('\n')
				p.advance()

			case 't':
				b.WriteByte('\t')
				p.advance()

			case 'r':
				b.WriteByte('\r')
				p.advance()

			default:
				p.copyRune(&b)
			}

		default:
			p.copyRune(&b)
		}
	}
}

// parseQuotedAtom parses a '|'-delimited atom whose content is verbatim.
func (p *parser) parseQuotedAtom() (*Expr, error) {
	pos := p.position()

	p.advance() // '|'

	start := p.pos

	for !p.eof() && p.peekByte() != '|' {
		p.advance()
	}

	if p.eof() {
		return nil, errorAt(ErrUnclosedQuotedAtom, pos)
	}

	atom := string(p.input[start:p.pos])

	p.advance() // '|'

	return &Expr{Kind: KindAtom, Atom: atom, Pos: pos}, nil
}

// parseAtom parses a maximal run of non-delimiter characters.
// The caller guarantees at least one such character is present.
func (p *parser) parseAtom() *Expr {
	pos := p.position()
	start := p.pos

	for !p.eof() && !isDelimiter(p.peekByte()) {
		p.advance()
	}

	return &Expr{Kind: KindAtom, Atom: string(p.input[start:p.pos]), Pos: pos}
}

// copyRune appends the raw bytes of the current rune to b and advances.
func (p *parser) copyRune(b *strings.Builder) {
	_, size := utf8.DecodeRune(p.input[p.pos:])

	b.Write(p.input[p.pos : p.pos+size])
	p.advance()
}

func (p *parser) peekByte() byte {
	if p.eof() {
		return 0
	}

	return p.input[p.pos]
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

func (p *parser) skipWhitespaceAndComments() {
	for !p.eof() {
		switch c := p.peekByte(); {
		case isWhitespace(c):
			p.advance()

		case c == ';':
			for !p.eof() && p.peekByte() != '\n' {
				p.advance()
			}

		default:
			return
		}
	}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isDelimiter(c byte) bool {
	return isWhitespace(c) || c == '(' || c == ')'
}
