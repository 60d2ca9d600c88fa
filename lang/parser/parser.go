// Package parser builds a zyra syntax tree from a token sequence.
//
// The parser is a hand-written recursive descent parser that uses precedence
// climbing for expressions. It never recovers: the first unexpected token
// stops parsing with an error positioned at that token.
package parser

import (
	"log/slog"

	"github.com/ardnew/zyra/lang/ast"
	"github.com/ardnew/zyra/lang/diag"
	"github.com/ardnew/zyra/lang/lexer"
	"github.com/ardnew/zyra/lang/token"
	"github.com/ardnew/zyra/log"
)

// Predefined errors (sentinel values).
var (
	ErrUnexpected = diag.New("SyntaxError", "unexpected token")
	ErrTarget     = diag.New("SyntaxError", "invalid assignment target")
	ErrLiteral    = diag.New("SyntaxError", "invalid literal")
	ErrTooDeep    = diag.New("SyntaxError", "maximum nesting depth exceeded")
)

// DefaultMaxDepth is the default limit on syntactic nesting.
const DefaultMaxDepth = 256

// Option configures a parse.
type Option func(*parser)

// WithMaxDepth limits how deeply blocks and expressions may nest.
// Values less than 1 select [DefaultMaxDepth].
func WithMaxDepth(depth int) Option {
	return func(p *parser) {
		if depth < 1 {
			depth = DefaultMaxDepth
		}

		p.maxDepth = depth
	}
}

// WithLogger sets the logger used for trace output.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) { p.logger = logger }
}

type parser struct {
	logger   log.Logger
	toks     []token.Token
	pos      int
	depth    int
	maxDepth int
	noStruct bool
}

// Parse builds a program from toks, which must end with a [token.EOF] token
// as produced by [lexer.Tokenize].
func Parse(toks []token.Token, opts ...Option) (*ast.Program, error) {
	if n := len(toks); n == 0 || toks[n-1].Kind != token.EOF {
		toks = append(toks, token.Token{Kind: token.EOF})
	}

	p := &parser{toks: toks, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}

	prog := &ast.Program{}

	for !p.at(token.EOF) {
		if p.skipSemis() {
			continue
		}

		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}

		prog.Stmts = append(prog.Stmts, stmt)
	}

	p.logger.Trace("parse complete",
		slog.Int("tokens", len(toks)),
		slog.Int("statements", len(prog.Stmts)))

	return prog, nil
}

// ParseString tokenizes and parses src.
func ParseString(src string, opts ...Option) (*ast.Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}

	return Parse(toks, opts...)
}

// ---------------------------------------------------------------------------
// Token cursor

func (p *parser) cur() token.Token { return p.toks[p.pos] }

func (p *parser) peek(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) at(kind token.Kind) bool { return p.cur().Kind == kind }

func (p *parser) atOp(ops ...string) bool { return p.cur().Is(token.Op, ops...) }

func (p *parser) atKeyword(words ...string) bool {
	return p.cur().Is(token.Keyword, words...)
}

func (p *parser) next() token.Token {
	t := p.cur()
	if t.Kind != token.EOF {
		p.pos++
	}

	return t
}

// sameLine reports whether the current token starts on the line of the
// previously consumed token.
func (p *parser) sameLine() bool {
	return p.pos > 0 && p.cur().Line == p.toks[p.pos-1].Line
}

func (p *parser) skipSemis() bool {
	skipped := false
	for p.at(token.Semicolon) {
		p.next()

		skipped = true
	}

	return skipped
}

func describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of input"
	case token.Op, token.Keyword:
		return "'" + t.Lexeme + "'"
	default:
		if t.Kind >= token.LParen {
			return "'" + t.Lexeme + "'"
		}

		return t.Kind.String() + " '" + t.Lexeme + "'"
	}
}

func (p *parser) unexpected(want string) error {
	t := p.cur()

	return ErrUnexpected.
		Detailf("expected %s, found %s", want, describe(t)).
		At(t.Pos).
		With(slog.String("expected", want), slog.String("found", t.Lexeme))
}

func (p *parser) expect(kind token.Kind) (token.Token, error) {
	if !p.at(kind) {
		return token.Token{}, p.unexpected("'" + kind.String() + "'")
	}

	return p.next(), nil
}

func (p *parser) expectOp(op string) (token.Token, error) {
	if !p.atOp(op) {
		return token.Token{}, p.unexpected("'" + op + "'")
	}

	return p.next(), nil
}

func (p *parser) expectKeyword(word string) (token.Token, error) {
	if !p.atKeyword(word) {
		return token.Token{}, p.unexpected("'" + word + "'")
	}

	return p.next(), nil
}

func (p *parser) ident() (token.Token, error) {
	if !p.at(token.Ident) {
		return token.Token{}, p.unexpected("identifier")
	}

	return p.next(), nil
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return ErrTooDeep.At(p.cur().Pos).With(slog.Int("max", p.maxDepth))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// withStruct runs fn with struct literals enabled or disabled, restoring the
// previous setting afterwards.
func withStruct[T any](p *parser, allow bool, fn func() (T, error)) (T, error) {
	saved := p.noStruct
	p.noStruct = !allow

	defer func() { p.noStruct = saved }()

	return fn()
}
